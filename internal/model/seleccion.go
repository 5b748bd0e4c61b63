package model

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Seleccion holds the sub-option names chosen in one group. A single-choice
// group carries at most one name. JSON accepts either a string or an array.
type Seleccion []string

// Unica builds the selection of a single-choice group.
func Unica(nombre string) Seleccion { return Seleccion{nombre} }

// Vacia reports whether no non-blank name was chosen.
func (s Seleccion) Vacia() bool {
	for _, n := range s {
		if strings.TrimSpace(n) != "" {
			return false
		}
	}
	return true
}

// Distintos returns the non-blank names, trimmed, without repeats and in
// first-seen order. A group is a set: picking a name twice picks it once.
func (s Seleccion) Distintos() Seleccion {
	out := make(Seleccion, 0, len(s))
	vistos := make(map[string]struct{}, len(s))
	for _, n := range s {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := vistos[n]; ok {
			continue
		}
		vistos[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (s *Seleccion) UnmarshalJSON(data []byte) error {
	var uno string
	if err := json.Unmarshal(data, &uno); err == nil {
		if uno == "" {
			*s = Seleccion{}
		} else {
			*s = Seleccion{uno}
		}
		return nil
	}
	var varios []string
	if err := json.Unmarshal(data, &varios); err != nil {
		return err
	}
	*s = Seleccion(varios)
	return nil
}

// Selecciones maps option group id to the names chosen in that group.
type Selecciones map[uuid.UUID]Seleccion

// Canonica serializes the selections with group ids and names sorted, so two
// carts holding the same choices picked in a different order compare equal.
func (s Selecciones) Canonica() string {
	ids := make([]string, 0, len(s))
	porID := make(map[string]Seleccion, len(s))
	for id, sel := range s {
		if sel.Vacia() {
			continue
		}
		k := id.String()
		ids = append(ids, k)
		porID[k] = sel
	}
	sort.Strings(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(';')
		}
		nombres := []string(porID[id].Distintos())
		sort.Strings(nombres)
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(strings.Join(nombres, ","))
	}
	return b.String()
}
