package dto

import "github.com/google/uuid"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegistroRequest struct {
	Email    string `json:"email"    validate:"required,email,max=150"`
	Nombre   string `json:"nombre"   validate:"required,min=2,max=100"`
	Telefono string `json:"telefono" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8"`
}

type ActualizarPerfilRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=100"`
	Telefono *string `json:"telefono" validate:"omitempty,max=20"`
}

type CambiarRolRequest struct {
	Rol string `json:"rol" validate:"required,oneof=admin user"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Nombre   string    `json:"nombre"`
	Telefono string    `json:"telefono"`
	Rol      string    `json:"rol"`
	Activo   bool      `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
