package service

import (
	"context"

	"carta/internal/events"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or directly with a nil tx when db is nil (unit tests with stub repos).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Publicador is the side of events.Hub services use after a commit.
type Publicador interface {
	Publicar(ctx context.Context, coleccion string)
}

var _ Publicador = (*events.Hub)(nil)

func publicar(p Publicador, ctx context.Context, colecciones ...string) {
	if p == nil {
		return
	}
	for _, c := range colecciones {
		p.Publicar(ctx, c)
	}
}
