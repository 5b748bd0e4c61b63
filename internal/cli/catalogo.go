package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"carta/internal/dto"
	"carta/internal/repository"
	"carta/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Catalogo is the seed file layout. Groups and categories are referenced by
// name from products. Prices are decimal strings ("2.50").
type Catalogo struct {
	Categorias []CategoriaSeed `yaml:"categorias"`
	Grupos     []GrupoSeed     `yaml:"grupos"`
	Productos  []ProductoSeed  `yaml:"productos"`
}

type CategoriaSeed struct {
	Nombre      string `yaml:"nombre"`
	Descripcion string `yaml:"descripcion"`
	Orden       int    `yaml:"orden"`
}

type GrupoSeed struct {
	Titulo      string          `yaml:"titulo"`
	Tipo        string          `yaml:"tipo"`
	Requerido   bool            `yaml:"requerido"`
	SubOpciones []SubOpcionSeed `yaml:"opciones"`
}

type SubOpcionSeed struct {
	Nombre string `yaml:"nombre"`
	Precio string `yaml:"precio"`
}

type ProductoSeed struct {
	Nombre          string        `yaml:"nombre"`
	Descripcion     string        `yaml:"descripcion"`
	Precio          string        `yaml:"precio"`
	PrecioPromocion string        `yaml:"precio_promocion"`
	Categoria       string        `yaml:"categoria"`
	ImagenURL       string        `yaml:"imagen_url"`
	Opciones        []VinculoSeed `yaml:"opciones"`
}

type VinculoSeed struct {
	Grupo     string   `yaml:"grupo"`
	Incluidas []string `yaml:"incluidas"`
}

// ResumenSeed counts what a seed run created and skipped.
type ResumenSeed struct {
	Categorias, Grupos, Productos int
	Omitidos                      int
}

func (r ResumenSeed) String() string {
	return fmt.Sprintf("categorias=%d grupos=%d productos=%d omitidos=%d", r.Categorias, r.Grupos, r.Productos, r.Omitidos)
}

// NewSeedCatalogCommand loads a YAML catalog through the same validation the
// admin API applies. Entries whose name already exists are skipped.
func NewSeedCatalogCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog <file.yaml>",
		Short: "Load categories, option groups and products from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			cat, err := LeerCatalogo(f)
			if err != nil {
				return err
			}
			db, err := root.openDB()
			if err != nil {
				return err
			}
			res, err := SeedCatalogo(cmd.Context(), db, cat)
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return err
		},
	}
}

// LeerCatalogo decodes a seed file, rejecting unknown keys.
func LeerCatalogo(r io.Reader) (*Catalogo, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalogo
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &c, nil
}

var validate = validator.New()

func init() {
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// SeedCatalogo writes cat in dependency order: categories, groups, products.
// Live subscribers are not notified; the server reloads on next change.
func SeedCatalogo(ctx context.Context, db *gorm.DB, cat *Catalogo) (ResumenSeed, error) {
	var res ResumenSeed
	categoriaRepo := repository.NewCategoriaRepository(db)
	grupoRepo := repository.NewGrupoOpcionesRepository(db)
	productoRepo := repository.NewProductoRepository(db)

	categorias := service.NewCategoriaService(categoriaRepo, nil)
	grupos := service.NewGrupoOpcionesService(grupoRepo, productoRepo, nil)
	productos := service.NewProductoService(productoRepo, grupoRepo, categoriaRepo, nil)

	catIDs := map[string]uuid.UUID{}
	existentes, err := categorias.Listar(ctx, false)
	if err != nil {
		return res, err
	}
	for _, c := range existentes {
		catIDs[clave(c.Nombre)] = c.ID
	}
	for _, c := range cat.Categorias {
		if _, ok := catIDs[clave(c.Nombre)]; ok {
			res.Omitidos++
			continue
		}
		req := dto.CrearCategoriaRequest{Nombre: c.Nombre, Orden: c.Orden}
		if c.Descripcion != "" {
			req.Descripcion = &c.Descripcion
		}
		if err := validate.Struct(req); err != nil {
			return res, fmt.Errorf("categoria %q: %w", c.Nombre, err)
		}
		resp, err := categorias.Crear(ctx, req)
		if err != nil {
			return res, fmt.Errorf("categoria %q: %w", c.Nombre, err)
		}
		catIDs[clave(c.Nombre)] = resp.ID
		res.Categorias++
	}

	grupoIDs := map[string]uuid.UUID{}
	gs, err := grupos.Listar(ctx)
	if err != nil {
		return res, err
	}
	for _, g := range gs {
		grupoIDs[clave(g.Titulo)] = g.ID
	}
	for _, g := range cat.Grupos {
		if _, ok := grupoIDs[clave(g.Titulo)]; ok {
			res.Omitidos++
			continue
		}
		req := dto.CrearGrupoOpcionesRequest{Titulo: g.Titulo, Tipo: g.Tipo, Requerido: g.Requerido}
		for _, s := range g.SubOpciones {
			precio, err := precioSeed(s.Precio)
			if err != nil {
				return res, fmt.Errorf("grupo %q opcion %q: %w", g.Titulo, s.Nombre, err)
			}
			req.SubOpciones = append(req.SubOpciones, dto.SubOpcionRequest{Nombre: s.Nombre, PrecioAdicional: precio})
		}
		if err := validate.Struct(req); err != nil {
			return res, fmt.Errorf("grupo %q: %w", g.Titulo, err)
		}
		resp, err := grupos.Crear(ctx, req)
		if err != nil {
			return res, fmt.Errorf("grupo %q: %w", g.Titulo, err)
		}
		grupoIDs[clave(g.Titulo)] = resp.ID
		res.Grupos++
	}

	prodNombres := map[string]bool{}
	ps, err := productoRepo.ListAll(ctx)
	if err != nil {
		return res, err
	}
	for _, p := range ps {
		prodNombres[clave(p.Nombre)] = true
	}
	for _, p := range cat.Productos {
		if prodNombres[clave(p.Nombre)] {
			res.Omitidos++
			continue
		}
		req, err := productoRequest(p, catIDs, grupoIDs)
		if err != nil {
			return res, fmt.Errorf("producto %q: %w", p.Nombre, err)
		}
		if err := validate.Struct(req); err != nil {
			return res, fmt.Errorf("producto %q: %w", p.Nombre, err)
		}
		if _, err := productos.Crear(ctx, req); err != nil {
			return res, fmt.Errorf("producto %q: %w", p.Nombre, err)
		}
		prodNombres[clave(p.Nombre)] = true
		res.Productos++
	}
	return res, nil
}

func productoRequest(p ProductoSeed, catIDs, grupoIDs map[string]uuid.UUID) (dto.CrearProductoRequest, error) {
	precio, err := precioSeed(p.Precio)
	if err != nil {
		return dto.CrearProductoRequest{}, err
	}
	req := dto.CrearProductoRequest{
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      precio,
		ImagenURL:   p.ImagenURL,
	}
	if p.PrecioPromocion != "" {
		promo, err := precioSeed(p.PrecioPromocion)
		if err != nil {
			return req, err
		}
		req.EnPromocion = true
		req.PrecioPromocion = &promo
	}
	if p.Categoria != "" {
		id, ok := catIDs[clave(p.Categoria)]
		if !ok {
			return req, fmt.Errorf("unknown categoria %q", p.Categoria)
		}
		req.CategoriaID = &id
	}
	for _, v := range p.Opciones {
		id, ok := grupoIDs[clave(v.Grupo)]
		if !ok {
			return req, fmt.Errorf("unknown grupo %q", v.Grupo)
		}
		req.OpcionesVinculadas = append(req.OpcionesVinculadas, dto.OpcionVinculadaRequest{
			GrupoID:           id,
			IncluidasSinCargo: v.Incluidas,
		})
	}
	return req, nil
}

func precioSeed(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return d, nil
}

func clave(nombre string) string { return strings.ToLower(strings.TrimSpace(nombre)) }
