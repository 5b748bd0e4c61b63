package infra

import (
	"fmt"
	"strings"

	"carta/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection. DSNs starting with sqlite:// open a
// local SQLite file (development); anything else goes to Postgres via pgx.
// The schema is created/updated with AutoMigrate, then patched with the
// indexes AutoMigrate cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	dialector, pg := dialectorFor(dsn)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if pg {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// SQLite serialises writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return sqlite.Open(path), false
	}
	return postgres.Open(dsn), true
}

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&model.Categoria{},
		&model.GrupoOpciones{},
		&model.Producto{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Notificacion{},
		&model.Usuario{},
		&model.AdminToken{},
		&model.ConfigWhatsApp{},
	}
}

// RunMigrations applies AutoMigrate plus the Postgres-only patches. Also used
// by repository and integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot describe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// case-insensitive uniqueness for category names
		{"categorias lower(nombre) unique", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_categorias_nombre_lower ON categorias (lower(nombre))`},
		// admin inbox lists unread first, newest first
		{"notificaciones unread partial index", `
CREATE INDEX IF NOT EXISTS idx_notificaciones_no_leidas
    ON notificaciones (created_at DESC) WHERE leida = false`},
		// pending orders are the hot path of the back-office
		{"pedidos pending partial index", `
CREATE INDEX IF NOT EXISTS idx_pedidos_pendientes
    ON pedidos (created_at DESC) WHERE estado = 'pendiente'`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
