package infra

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_GuardarYEliminar(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, "http://localhost:8000/")

	a, err := s.Guardar(context.Background(), CarpetaProductos, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.Nombre, "productos/"))
	assert.True(t, strings.HasSuffix(a.Nombre, ".png"))
	assert.Equal(t, "http://localhost:8000/media/"+a.Nombre, a.URL)
	assert.Equal(t, int64(9), a.Tamano)
	assert.Equal(t, "image/png", a.Tipo)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(a.Nombre)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Eliminar(a.Nombre))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(a.Nombre)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Eliminar(a.Nombre))
}

func TestStorage_RejectsUnsupportedType(t *testing.T) {
	s := NewStorage(t.TempDir(), "")
	_, err := s.Guardar(context.Background(), CarpetaProductos, "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrTipoNoSoportado)
}

func TestStorage_EliminarRejectsTraversal(t *testing.T) {
	s := NewStorage(t.TempDir(), "")
	assert.Error(t, s.Eliminar(""))
	assert.Error(t, s.Eliminar("/"))
}

func TestStorage_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Guardar(ctx, CarpetaProductos, "image/jpeg", strings.NewReader("jpeg"))
	require.Error(t, err)
	entries, _ := os.ReadDir(filepath.Join(dir, CarpetaProductos))
	assert.Empty(t, entries)
}
