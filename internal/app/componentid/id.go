// Package componentid genera y decodifica los custom_id de los componentes
// (botones, select menus) que publica el bot.
//
// Formato: "<disambiguator>|<comando>|<elem1>|<elem2>..." con cada campo
// escapado ('|' y '\' van precedidos de '\').
package componentid

import "slices"

// ID es el valor decodificado de un custom_id. Inmutable.
type ID struct {
	disambiguator uint64
	command       string
	elements      []string
}

// Disambiguator distingue dos IDs del mismo comando dentro de un proceso.
func (id ID) Disambiguator() uint64 { return id.disambiguator }

// Command es el nombre del comando dueño del componente.
func (id ID) Command() string { return id.command }

// Elements devuelve una copia; modificarla no afecta al ID.
func (id ID) Elements() []string { return slices.Clone(id.elements) }

func (id ID) Len() int { return len(id.elements) }

// Element devuelve el i-ésimo elemento, o "" si no existe.
func (id ID) Element(i int) string {
	if i < 0 || i >= len(id.elements) {
		return ""
	}
	return id.elements[i]
}

func (id ID) Equal(other ID) bool {
	return id.disambiguator == other.disambiguator &&
		id.command == other.command &&
		slices.Equal(id.elements, other.elements)
}

// String devuelve la forma wire (la que va en CustomID).
func (id ID) String() string { return Render(id) }
