package repository

import (
	"context"

	"carta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, n *model.Notificacion) error
	List(ctx context.Context, limit int) ([]model.Notificacion, error)
	CountNoLeidas(ctx context.Context) (int64, error)
	SetLeida(ctx context.Context, id uuid.UUID, leida bool) error
	MarcarTodasLeidas(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) Create(ctx context.Context, tx *gorm.DB, n *model.Notificacion) error {
	return tx.WithContext(ctx).Create(n).Error
}

// List returns newest first.
func (r *notificacionRepo) List(ctx context.Context, limit int) ([]model.Notificacion, error) {
	var list []model.Notificacion
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *notificacionRepo) CountNoLeidas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("leida = ?", false).Count(&n).Error
	return n, err
}

func (r *notificacionRepo) SetLeida(ctx context.Context, id uuid.UUID, leida bool) error {
	res := r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("id = ?", id).Update("leida", leida)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificacionRepo) MarcarTodasLeidas(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("leida = ?", false).Update("leida", true)
	return res.RowsAffected, res.Error
}

func (r *notificacionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Notificacion{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificacionRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Notificacion{})
	return res.RowsAffected, res.Error
}
