package service

import (
	"context"
	"errors"
	"strings"

	"carta/internal/dto"
	"carta/internal/events"
	"carta/internal/model"
	"carta/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type GrupoOpcionesService interface {
	Crear(ctx context.Context, req dto.CrearGrupoOpcionesRequest) (*dto.GrupoOpcionesResponse, error)
	Listar(ctx context.Context) ([]dto.GrupoOpcionesResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.GrupoOpcionesResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarGrupoOpcionesRequest) (*dto.GrupoOpcionesResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type grupoOpcionesService struct {
	repo      repository.GrupoOpcionesRepository
	productos repository.ProductoRepository
	pub       Publicador
}

func NewGrupoOpcionesService(repo repository.GrupoOpcionesRepository, productos repository.ProductoRepository, pub Publicador) GrupoOpcionesService {
	return &grupoOpcionesService{repo: repo, productos: productos, pub: pub}
}

// claveNombre folds case after NFC normalization: "Jalapeño" written with a
// combining tilde and "JALAPEÑO" compare equal.
func claveNombre(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// subOpciones normalizes names and rejects duplicates within the group.
func subOpciones(reqs []dto.SubOpcionRequest) ([]model.SubOpcion, error) {
	out := make([]model.SubOpcion, 0, len(reqs))
	vistos := make(map[string]string, len(reqs))
	for _, r := range reqs {
		nombre := norm.NFC.String(strings.TrimSpace(r.Nombre))
		if nombre == "" {
			return nil, campo("sub_opciones", "El nombre de la opción es obligatorio")
		}
		if previo, dup := vistos[claveNombre(nombre)]; dup {
			return nil, campo("sub_opciones", "Opción duplicada: "+previo+" / "+nombre)
		}
		vistos[claveNombre(nombre)] = nombre
		out = append(out, model.SubOpcion{Nombre: nombre, PrecioAdicional: r.PrecioAdicional})
	}
	return out, nil
}

func (s *grupoOpcionesService) Crear(ctx context.Context, req dto.CrearGrupoOpcionesRequest) (*dto.GrupoOpcionesResponse, error) {
	subs, err := subOpciones(req.SubOpciones)
	if err != nil {
		return nil, err
	}
	g := &model.GrupoOpciones{
		Titulo:      strings.TrimSpace(req.Titulo),
		Tipo:        req.Tipo,
		Requerido:   req.Requerido,
		SubOpciones: subs,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	publicar(s.pub, ctx, events.ColGruposOpciones)
	resp := mapGrupo(g)
	return &resp, nil
}

func (s *grupoOpcionesService) Listar(ctx context.Context) ([]dto.GrupoOpcionesResponse, error) {
	grupos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GrupoOpcionesResponse, 0, len(grupos))
	for i := range grupos {
		out = append(out, mapGrupo(&grupos[i]))
	}
	return out, nil
}

func (s *grupoOpcionesService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.GrupoOpcionesResponse, error) {
	g, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapGrupo(g)
	return &resp, nil
}

func (s *grupoOpcionesService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarGrupoOpcionesRequest) (*dto.GrupoOpcionesResponse, error) {
	g, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Titulo != nil {
		g.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Tipo != nil {
		g.Tipo = *req.Tipo
	}
	if req.Requerido != nil {
		g.Requerido = *req.Requerido
	}
	renombrado := false
	if req.SubOpciones != nil {
		subs, err := subOpciones(*req.SubOpciones)
		if err != nil {
			return nil, err
		}
		g.SubOpciones = subs
		renombrado = true
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, g); err != nil {
			return err
		}
		if !renombrado {
			return nil
		}
		// free inclusions must keep naming existing sub-options
		return s.ajustarVinculos(ctx, tx, g.ID, g)
	})
	if err != nil {
		return nil, err
	}
	publicar(s.pub, ctx, events.ColGruposOpciones, events.ColProductos)
	resp := mapGrupo(g)
	return &resp, nil
}

// Eliminar deletes the group and unlinks it from every product, in one
// transaction.
func (s *grupoOpcionesService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.ajustarVinculos(ctx, tx, id, nil)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGrupoNoEncontrado
	}
	if err != nil {
		return err
	}
	publicar(s.pub, ctx, events.ColGruposOpciones, events.ColProductos)
	return nil
}

// ajustarVinculos rewrites the products linking grupoID: with g nil the link
// is removed, otherwise included names missing from g are dropped.
func (s *grupoOpcionesService) ajustarVinculos(ctx context.Context, tx *gorm.DB, grupoID uuid.UUID, g *model.GrupoOpciones) error {
	if s.productos == nil {
		return nil
	}
	repo := s.productos.WithTx(tx)
	productos, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range productos {
		p := &productos[i]
		if _, ok := p.Vinculo(grupoID); !ok {
			continue
		}
		var nuevos []model.OpcionVinculada
		for _, o := range p.OpcionesVinculadas {
			if o.GrupoID != grupoID {
				nuevos = append(nuevos, o)
				continue
			}
			if g == nil {
				continue
			}
			var incl []string
			for _, n := range o.IncluidasSinCargo {
				if _, ok := g.BuscarSubOpcion(n); ok {
					incl = append(incl, n)
				}
			}
			nuevos = append(nuevos, model.OpcionVinculada{GrupoID: grupoID, IncluidasSinCargo: incl})
		}
		p.OpcionesVinculadas = nuevos
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *grupoOpcionesService) buscar(ctx context.Context, id uuid.UUID) (*model.GrupoOpciones, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrupoNoEncontrado
		}
		return nil, err
	}
	return g, nil
}
