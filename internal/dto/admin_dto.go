package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegistrarTokenRequest stores the push token of the caller's browser.
type RegistrarTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

type ConfigWhatsAppRequest struct {
	Telefono string `json:"telefono" validate:"required,min=8,max=20"`
}

type ConfigWhatsAppResponse struct {
	Telefono  string     `json:"telefono"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PushConfigResponse is the public part of the push setup, fetched by the
// browser worker at registration time.
type PushConfigResponse struct {
	Habilitado bool   `json:"habilitado"`
	PublicKey  string `json:"public_key,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
}
