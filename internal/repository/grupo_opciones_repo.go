package repository

import (
	"context"

	"carta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrupoOpcionesRepository interface {
	Create(ctx context.Context, g *model.GrupoOpciones) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GrupoOpciones, error)
	// FindByIDs returns the groups that exist among ids; missing ids are
	// silently skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.GrupoOpciones, error)
	List(ctx context.Context) ([]model.GrupoOpciones, error)
	Update(ctx context.Context, g *model.GrupoOpciones) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
	// WithTx returns a repository bound to tx; a nil tx returns the receiver.
	WithTx(tx *gorm.DB) GrupoOpcionesRepository
}

type grupoOpcionesRepo struct{ db *gorm.DB }

func NewGrupoOpcionesRepository(db *gorm.DB) GrupoOpcionesRepository {
	return &grupoOpcionesRepo{db: db}
}

func (r *grupoOpcionesRepo) DB() *gorm.DB { return r.db }

func (r *grupoOpcionesRepo) WithTx(tx *gorm.DB) GrupoOpcionesRepository {
	if tx == nil {
		return r
	}
	return &grupoOpcionesRepo{db: tx}
}

func (r *grupoOpcionesRepo) Create(ctx context.Context, g *model.GrupoOpciones) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *grupoOpcionesRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GrupoOpciones, error) {
	var g model.GrupoOpciones
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grupoOpcionesRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.GrupoOpciones, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var grupos []model.GrupoOpciones
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&grupos).Error
	return grupos, err
}

func (r *grupoOpcionesRepo) List(ctx context.Context) ([]model.GrupoOpciones, error) {
	var grupos []model.GrupoOpciones
	err := r.db.WithContext(ctx).Order("titulo ASC").Find(&grupos).Error
	return grupos, err
}

func (r *grupoOpcionesRepo) Update(ctx context.Context, g *model.GrupoOpciones) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *grupoOpcionesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.GrupoOpciones{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
