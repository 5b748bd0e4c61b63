package repository

import (
	"context"

	"carta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminTokenRepository interface {
	// Upsert creates or overwrites the token of t.UsuarioID.
	Upsert(ctx context.Context, t *model.AdminToken) error
	FindByUsuarioIDs(ctx context.Context, ids []uuid.UUID) ([]model.AdminToken, error)
	Delete(ctx context.Context, usuarioID uuid.UUID) error
	DeleteByTokens(ctx context.Context, tokens []string) error
}

type adminTokenRepo struct{ db *gorm.DB }

func NewAdminTokenRepository(db *gorm.DB) AdminTokenRepository { return &adminTokenRepo{db: db} }

func (r *adminTokenRepo) Upsert(ctx context.Context, t *model.AdminToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "usuario_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "user_agent", "updated_at"}),
	}).Create(t).Error
}

func (r *adminTokenRepo) FindByUsuarioIDs(ctx context.Context, ids []uuid.UUID) ([]model.AdminToken, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tokens []model.AdminToken
	err := r.db.WithContext(ctx).Where("usuario_id IN ?", ids).Find(&tokens).Error
	return tokens, err
}

func (r *adminTokenRepo) Delete(ctx context.Context, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AdminToken{}, "usuario_id = ?", usuarioID).Error
}

func (r *adminTokenRepo) DeleteByTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("token IN ?", tokens).Delete(&model.AdminToken{}).Error
}
