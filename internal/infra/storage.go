package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CarpetaProductos is the fixed folder for product images.
const CarpetaProductos = "productos"

// TiposImagen maps accepted content types to the stored file extension.
var TiposImagen = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var ErrTipoNoSoportado = errors.New("storage: unsupported content type")

// Archivo describes a stored object.
type Archivo struct {
	Nombre string `json:"nombre"`
	URL    string `json:"url"`
	Tamano int64  `json:"tamano"`
	Tipo   string `json:"tipo"`
}

// Storage is a filesystem-backed bucket. Objects live under basePath and are
// served by the router at publicBaseURL + "/media/".
type Storage struct {
	basePath      string
	publicBaseURL string
}

func NewStorage(basePath, publicBaseURL string) *Storage {
	return &Storage{basePath: basePath, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// BasePath is the directory served as /media.
func (s *Storage) BasePath() string { return s.basePath }

// Guardar stores r under carpeta with a generated name and returns its
// public descriptor.
func (s *Storage) Guardar(ctx context.Context, carpeta, tipo string, r io.Reader) (*Archivo, error) {
	ext, ok := TiposImagen[tipo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTipoNoSoportado, tipo)
	}
	dir := filepath.Join(s.basePath, carpeta)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}

	nombre := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(dir, nombre))
	if err != nil {
		return nil, fmt.Errorf("storage: create file: %w", err)
	}
	n, err := io.Copy(f, readerCtx{ctx: ctx, r: r})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("storage: write file: %w", err)
	}

	clave := path.Join(carpeta, nombre)
	return &Archivo{
		Nombre: clave,
		URL:    s.publicBaseURL + "/media/" + clave,
		Tamano: n,
		Tipo:   tipo,
	}, nil
}

// Eliminar removes an object by its key ("productos/<file>").
func (s *Storage) Eliminar(clave string) error {
	limpia := path.Clean("/" + clave)[1:]
	if limpia == "" || strings.HasPrefix(limpia, "..") {
		return fmt.Errorf("storage: invalid key %q", clave)
	}
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(limpia)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// readerCtx stops copying once ctx is done.
type readerCtx struct {
	ctx context.Context
	r   io.Reader
}

func (rc readerCtx) Read(p []byte) (int, error) {
	if err := rc.ctx.Err(); err != nil {
		return 0, err
	}
	return rc.r.Read(p)
}
