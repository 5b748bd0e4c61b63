package auth

import (
	"errors"
	"fmt"
	"time"

	"carta/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds. A refresh token is never accepted as an access token.
const (
	TipoAccess  = "access"
	TipoRefresh = "refresh"
)

var ErrTokenInvalido = errors.New("token invalido o expirado")

// Claims are the custom claims embedded in every token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Tipo   string `json:"typ"`
	jwt.RegisteredClaims
}

// Actor converts validated claims into the acting user.
func (c *Claims) Actor() (Actor, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Anonimo, ErrTokenInvalido
	}
	return Actor{UsuarioID: id, Email: c.Email, Rol: c.Rol}, nil
}

// Firmar issues an HS256 token of the given kind for u.
func Firmar(secret string, u *model.Usuario, tipo string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Rol:    u.Rol,
		Tipo:   tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parsear validates signature, expiry and kind.
func Parsear(secret, tokenStr, tipo string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.Tipo != tipo {
		return nil, ErrTokenInvalido
	}
	return claims, nil
}
