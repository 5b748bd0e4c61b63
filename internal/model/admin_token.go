package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminToken stores the latest push-delivery token of an admin's browser.
// Overwritten on every successful registration; never required to exist.
type AdminToken struct {
	UsuarioID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"not null"`
	UserAgent string
	UpdatedAt time.Time
}
