package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles.
const (
	RolAdmin   = "admin"
	RolUsuario = "user"
)

// Usuario is an account of the storefront or back-office.
// The admin set must never become empty; see service.UsuarioService.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Telefono     string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(10);not null;index"`
	Activo       bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *Usuario) EsAdmin() bool { return u.Rol == RolAdmin }
