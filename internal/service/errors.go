package service

import (
	"errors"
	"sort"
	"strings"
)

// Error categories. Handlers map them to status codes with errors.Is; the
// message of the wrapping error is safe to show to clients.
var (
	ErrNoEncontrado = errors.New("no encontrado")
	ErrConflicto    = errors.New("conflicto")
	ErrProhibido    = errors.New("operación no permitida")
	ErrCredenciales = errors.New("credenciales invalidas")
)

// errorDe is a client-facing message tagged with a category.
type errorDe struct {
	cat error
	msg string
}

func (e *errorDe) Error() string { return e.msg }
func (e *errorDe) Unwrap() error { return e.cat }

func nuevoError(cat error, msg string) error { return &errorDe{cat: cat, msg: msg} }

var (
	ErrProductoNoEncontrado     = nuevoError(ErrNoEncontrado, "producto no encontrado")
	ErrCategoriaNoEncontrada    = nuevoError(ErrNoEncontrado, "categoría no encontrada")
	ErrGrupoNoEncontrado        = nuevoError(ErrNoEncontrado, "grupo de opciones no encontrado")
	ErrPedidoNoEncontrado       = nuevoError(ErrNoEncontrado, "pedido no encontrado")
	ErrNotificacionNoEncontrada = nuevoError(ErrNoEncontrado, "notificación no encontrada")
	ErrUsuarioNoEncontrado      = nuevoError(ErrNoEncontrado, "usuario no encontrado")
	ErrItemNoEncontrado         = nuevoError(ErrNoEncontrado, "item del carrito no encontrado")

	ErrCategoriaDuplicada = nuevoError(ErrConflicto, "ya existe una categoría con ese nombre")
	ErrEmailRegistrado    = nuevoError(ErrConflicto, "el email ya está registrado")
	ErrPedidoEnProceso    = nuevoError(ErrConflicto, "el pedido ya se está procesando")

	// Admin role guard.
	ErrUltimoAdmin     = nuevoError(ErrConflicto, "No se puede quitar al último administrador")
	ErrAutoDegradacion = nuevoError(ErrProhibido, "No puede revocar su propio rol de administrador")

	// ErrPedidoNoRegistrado is the only message a customer sees when the
	// order could not be committed.
	ErrPedidoNoRegistrado = errors.New("No se pudo registrar el pedido, intente nuevamente")
)

// ValidacionError carries per-field messages. Campos is keyed by request field
// name or, for option selections, by option group id.
type ValidacionError struct {
	Msg    string
	Campos map[string]string
}

func (e *ValidacionError) Error() string {
	if len(e.Campos) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Campos))
	for k := range e.Campos {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Campos[k])
	}
	return e.Msg + " (" + strings.Join(parts, "; ") + ")"
}

func validacion(msg string, campos map[string]string) error {
	return &ValidacionError{Msg: msg, Campos: campos}
}

func campo(nombre, msg string) error {
	return &ValidacionError{Msg: "Error de validación", Campos: map[string]string{nombre: msg}}
}
