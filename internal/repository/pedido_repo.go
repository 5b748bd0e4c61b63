package repository

import (
	"context"
	"time"

	"carta/internal/dto"
	"carta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	ListRecientes(ctx context.Context, limit int) ([]model.Pedido, error)
	ListByTelefono(ctx context.Context, telefono string) ([]model.Pedido, error)
	// MarcarCompletado only moves pendiente rows; it reports whether a row
	// changed.
	MarcarCompletado(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return tx.WithContext(ctx).Create(p).Error
}

// NextNumero returns MAX(numero)+1. On Postgres a transaction-scoped advisory
// lock serialises concurrent checkouts until commit; SQLite already allows a
// single writer.
func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := tx.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext('pedidos_numero'))").Error; err != nil {
			return 0, err
		}
	}
	var num int64
	err := db.Model(&model.Pedido{}).Select("COALESCE(MAX(numero), 0) + 1").Scan(&num).Error
	return num, err
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").Order("numero DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) ListRecientes(ctx context.Context, limit int) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").
		Order("numero DESC").Limit(limit).
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListByTelefono(ctx context.Context, telefono string) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").
		Where("cliente_telefono = ?", telefono).
		Order("numero DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) MarcarCompletado(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, model.EstadoPendiente).
		Updates(map[string]any{"estado": model.EstadoCompletado, "completado_at": at})
	return res.RowsAffected > 0, res.Error
}

// Delete removes the order, its items and its notifications.
func (r *pedidoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pedido_id = ?", id).Delete(&model.Notificacion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Pedido{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
