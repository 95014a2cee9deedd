package componentid

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	Separator = '|'
	Escape    = '\\'

	// DiscordMaxLength es el tope de Discord para custom_id.
	DiscordMaxLength = 100

	// ancho decimal de math.MaxUint64; se reserva antes de asignar el disambiguator
	maxDisambiguatorWidth = 20

	// MinMaxLength es el tope más chico con el que todavía se puede crear un ID
	// (comando de un byte, sin elementos).
	MinMaxLength = maxDisambiguatorWidth + len("|x")
)

type Option func(*Codec)

// WithMaxLength cambia el tope de largo (en bytes) de la forma wire.
func WithMaxLength(n int) Option {
	return func(c *Codec) { c.maxLen = n }
}

// Codec crea IDs nuevos y parsea los que vuelven de Discord.
// No guarda estado propio aparte del Allocator.
type Codec struct {
	alloc  Allocator
	maxLen int
}

func NewCodec(alloc Allocator, opts ...Option) *Codec {
	if alloc == nil {
		alloc = NewCounter()
	}
	c := &Codec{alloc: alloc, maxLen: DiscordMaxLength}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Mint valida y recién después pide un disambiguator: un Mint rechazado
// no avanza el Allocator.
//
// El largo se controla reservando 20 bytes para el disambiguator, sea cual sea
// el valor que toque. Lo que queda para el resto es
//
//	maxLen - 20 - (1 + len(command)) - Σ (1 + len(element))
//
// contando cada '|' o '\' dentro de command o de un elemento como dos bytes.
// Con el tope de 100, "role-select" deja 67 bytes para un único elemento.
func (c *Codec) Mint(command string, elements ...string) (ID, error) {
	if command == "" {
		return ID{}, &MintError{Command: command, Reason: "empty command name"}
	}
	if strings.IndexByte(command, Separator) >= 0 {
		return ID{}, &MintError{Command: command, Reason: "command name contains the separator"}
	}
	worst := maxDisambiguatorWidth + bodyLen(command, elements)
	if worst > c.maxLen {
		return ID{}, &MintError{
			Command: command,
			Reason:  fmt.Sprintf("rendered id may take %d bytes, limit is %d", worst, c.maxLen),
		}
	}
	return ID{
		disambiguator: c.alloc.Next(),
		command:       command,
		elements:      slices.Clone(elements),
	}, nil
}

// MustMint es Mint pero entra en pánico ante un error de programación.
func (c *Codec) MustMint(command string, elements ...string) ID {
	id, err := c.Mint(command, elements...)
	if err != nil {
		panic(err)
	}
	return id
}

// Render arma la forma wire. Parse(Render(id)) == id para todo id de Mint.
func Render(id ID) string {
	var b strings.Builder
	b.Grow(maxDisambiguatorWidth + bodyLen(id.command, id.elements))
	b.WriteString(strconv.FormatUint(id.disambiguator, 10))
	b.WriteByte(Separator)
	writeEscaped(&b, id.command)
	for _, e := range id.elements {
		b.WriteByte(Separator)
		writeEscaped(&b, e)
	}
	return b.String()
}

// Parse nunca entra en pánico: cualquier entrada inválida vuelve como *DecodeError.
func (c *Codec) Parse(wire string) (ID, error) {
	fail := func(reason string) (ID, error) {
		return ID{}, &DecodeError{Input: wire, Reason: reason}
	}

	if wire == "" {
		return fail("empty input")
	}
	if len(wire) > c.maxLen {
		return fail(fmt.Sprintf("length %d exceeds limit %d", len(wire), c.maxLen))
	}

	fields, reason := splitFields(wire)
	if reason != "" {
		return fail(reason)
	}
	if len(fields) < 2 {
		return fail("missing separator")
	}

	d, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return fail("non-numeric disambiguator")
	}
	if fields[1] == "" {
		return fail("empty command name")
	}

	var elements []string
	if len(fields) > 2 {
		elements = fields[2:]
	}
	return ID{disambiguator: d, command: fields[1], elements: elements}, nil
}

// splitFields corta por separadores sin escapar y des-escapa cada campo.
// Devuelve un motivo != "" si la entrada está corrupta.
// Separator y Escape son ASCII, así que recorrer bytes es seguro con UTF-8.
func splitFields(s string) ([]string, string) {
	fields := make([]string, 0, 4)
	var b strings.Builder
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			if ch != Separator && ch != Escape {
				return nil, fmt.Sprintf("invalid escape sequence at byte %d", i-1)
			}
			b.WriteByte(ch)
			escaped = false
		case ch == Escape:
			escaped = true
		case ch == Separator:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	if escaped {
		return nil, "dangling escape at end of input"
	}
	return append(fields, b.String()), ""
}

func writeEscaped(b *strings.Builder, field string) {
	for i := 0; i < len(field); i++ {
		ch := field[i]
		if ch == Separator || ch == Escape {
			b.WriteByte(Escape)
		}
		b.WriteByte(ch)
	}
}

func escapedLen(field string) int {
	n := len(field)
	for i := 0; i < len(field); i++ {
		if field[i] == Separator || field[i] == Escape {
			n++
		}
	}
	return n
}

// bodyLen: largo wire de todo lo que va después del disambiguator.
func bodyLen(command string, elements []string) int {
	n := 1 + escapedLen(command)
	for _, e := range elements {
		n += 1 + escapedLen(e)
	}
	return n
}
