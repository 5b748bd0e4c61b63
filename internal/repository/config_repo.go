package repository

import (
	"context"
	"errors"

	"carta/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository interface {
	// GetWhatsApp returns nil, nil when the row was never written.
	GetWhatsApp(ctx context.Context) (*model.ConfigWhatsApp, error)
	SaveWhatsApp(ctx context.Context, c *model.ConfigWhatsApp) error
}

type configRepo struct{ db *gorm.DB }

func NewConfigRepository(db *gorm.DB) ConfigRepository { return &configRepo{db: db} }

func (r *configRepo) GetWhatsApp(ctx context.Context) (*model.ConfigWhatsApp, error) {
	var c model.ConfigWhatsApp
	err := r.db.WithContext(ctx).First(&c, "id = ?", model.ConfigWhatsAppID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configRepo) SaveWhatsApp(ctx context.Context, c *model.ConfigWhatsApp) error {
	c.ID = model.ConfigWhatsAppID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"telefono", "updated_by", "updated_at"}),
	}).Create(c).Error
}
