package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are assigned by the application instead of gen_random_uuid()
// so the same models run on Postgres and on the SQLite dev database.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Categoria) BeforeCreate(*gorm.DB) error     { asignarID(&c.ID); return nil }
func (p *Producto) BeforeCreate(*gorm.DB) error      { asignarID(&p.ID); return nil }
func (g *GrupoOpciones) BeforeCreate(*gorm.DB) error { asignarID(&g.ID); return nil }
func (p *Pedido) BeforeCreate(*gorm.DB) error        { asignarID(&p.ID); return nil }
func (i *PedidoItem) BeforeCreate(*gorm.DB) error    { asignarID(&i.ID); return nil }
func (n *Notificacion) BeforeCreate(*gorm.DB) error  { asignarID(&n.ID); return nil }
func (u *Usuario) BeforeCreate(*gorm.DB) error       { asignarID(&u.ID); return nil }
