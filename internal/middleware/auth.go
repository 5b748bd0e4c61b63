package middleware

import (
	"net/http"
	"strings"

	"carta/internal/apierror"
	"carta/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ActorKey = "actor"
)

// JWTAuth validates the Bearer access token on every protected route and
// stores the acting user on the Gin and request contexts.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}
		actor, err := actorDesde(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearer(c); ok {
			if actor, err := actorDesde(secret, tokenStr); err == nil {
				setActor(c, actor)
			}
		}
		c.Next()
	}
}

// RequireRole rejects requests whose actor role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor := GetActor(c)
		if !actor.Autenticado() || !allowed[actor.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetActor returns the acting user, or auth.Anonimo.
func GetActor(c *gin.Context) auth.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if a, ok := v.(auth.Actor); ok {
			return a
		}
	}
	return auth.Anonimo
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		// browsers cannot set headers on a WebSocket handshake
		if t := c.Query("access_token"); t != "" && c.GetHeader("Upgrade") != "" {
			return t, true
		}
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

func actorDesde(secret, tokenStr string) (auth.Actor, error) {
	claims, err := auth.Parsear(secret, tokenStr, auth.TipoAccess)
	if err != nil {
		return auth.Anonimo, err
	}
	return claims.Actor()
}

func setActor(c *gin.Context, a auth.Actor) {
	c.Set(ActorKey, a)
	c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), a))
}
