package infra

import (
	"os"
	"testing"
	"time"

	"carta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarTicketPedido(t *testing.T) {
	email := "ana@example.com"
	p := &model.Pedido{
		ID:              uuid.New(),
		Numero:          42,
		Total:           decimal.RequireFromString("13.50"),
		ClienteNombre:   "Ana Pérez",
		ClienteTelefono: "0991234567",
		ClienteEmail:    &email,
		MetodoPago:      "efectivo",
		Notas:           "Sin cebolla",
		Estado:          model.EstadoPendiente,
		CreatedAt:       time.Date(2026, 3, 1, 20, 15, 0, 0, time.UTC),
		Items: []model.PedidoItem{{
			Nombre:         "Hamburguesa doble con queso y tocino extra",
			Cantidad:       3,
			PrecioUnitario: decimal.RequireFromString("4.50"),
			Total:          decimal.RequireFromString("13.50"),
			Opciones:       "Salsas: Mayonesa, Ketchup | Extras: Queso",
		}},
	}

	path, err := GenerarTicketPedido(p, "Carta", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, path, "pedido_42.pdf")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}

func TestRecortar(t *testing.T) {
	assert.Equal(t, "corto", recortar("corto", 10))
	assert.Equal(t, "Piñ…", recortar("Piñata", 4))
}
