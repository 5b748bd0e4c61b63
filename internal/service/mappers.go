package service

import (
	"carta/internal/dto"
	"carta/internal/model"
	"carta/internal/pricing"
)

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Orden:       c.Orden,
		Activo:      c.Activo,
	}
}

func mapProducto(p *model.Producto) dto.ProductoResponse {
	vinculos := make([]dto.OpcionVinculadaResponse, 0, len(p.OpcionesVinculadas))
	for _, o := range p.OpcionesVinculadas {
		incl := o.IncluidasSinCargo
		if incl == nil {
			incl = []string{}
		}
		vinculos = append(vinculos, dto.OpcionVinculadaResponse{GrupoID: o.GrupoID, IncluidasSinCargo: incl})
	}
	return dto.ProductoResponse{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		Precio:             p.Precio,
		EnPromocion:        p.EnPromocion,
		PrecioPromocion:    p.PrecioPromocion,
		PrecioBase:         pricing.PrecioBase(p),
		Disponible:         p.Disponible,
		ImagenURL:          p.ImagenURL,
		CategoriaID:        p.CategoriaID,
		OpcionesVinculadas: vinculos,
	}
}

func mapGrupo(g *model.GrupoOpciones) dto.GrupoOpcionesResponse {
	subs := make([]dto.SubOpcionResponse, 0, len(g.SubOpciones))
	for _, s := range g.SubOpciones {
		subs = append(subs, dto.SubOpcionResponse{Nombre: s.Nombre, PrecioAdicional: s.PrecioAdicional})
	}
	return dto.GrupoOpcionesResponse{
		ID:          g.ID,
		Titulo:      g.Titulo,
		Tipo:        g.Tipo,
		Requerido:   g.Requerido,
		SubOpciones: subs,
	}
}

func mapPedido(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.PedidoItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PedidoItemResponse{
			ProductoID:     it.ProductoID,
			Nombre:         it.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          it.Total,
			Opciones:       it.Opciones,
		})
	}
	return dto.PedidoResponse{
		ID:              p.ID,
		Numero:          p.Numero,
		Items:           items,
		Total:           p.Total,
		ClienteNombre:   p.ClienteNombre,
		ClienteTelefono: p.ClienteTelefono,
		ClienteEmail:    p.ClienteEmail,
		MetodoPago:      p.MetodoPago,
		Notas:           p.Notas,
		Estado:          p.Estado,
		CreatedAt:       p.CreatedAt,
		CompletadoAt:    p.CompletadoAt,
	}
}

func mapNotificacion(n *model.Notificacion) dto.NotificacionResponse {
	return dto.NotificacionResponse{
		ID:            n.ID,
		PedidoID:      n.PedidoID,
		Titulo:        n.Titulo,
		Cuerpo:        n.Cuerpo,
		Total:         n.Total,
		CantidadItems: n.CantidadItems,
		Leida:         n.Leida,
		CreatedAt:     n.CreatedAt,
	}
}

func mapUsuario(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nombre:   u.Nombre,
		Telefono: u.Telefono,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}
