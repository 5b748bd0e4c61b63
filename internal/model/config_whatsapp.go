package model

import (
	"time"

	"github.com/google/uuid"
)

// ConfigWhatsAppID is the fixed key of the singleton row.
const ConfigWhatsAppID = "whatsapp"

// ConfigWhatsApp holds the operator phone used for checkout deep links.
type ConfigWhatsApp struct {
	ID        string     `gorm:"primaryKey;type:varchar(32)"`
	Telefono  string     `gorm:"not null"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt time.Time
}

func (ConfigWhatsApp) TableName() string { return "config" }
