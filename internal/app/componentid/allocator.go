package componentid

import "sync/atomic"

// Allocator entrega disambiguators únicos dentro del proceso.
type Allocator interface {
	Next() uint64
}

// Counter es el Allocator de producción: arranca en 0 y nunca repite.
type Counter struct {
	n atomic.Uint64
}

func NewCounter() *Counter { return &Counter{} }

func (c *Counter) Next() uint64 { return c.n.Add(1) - 1 }

// Peek devuelve el próximo valor sin consumirlo (útil en tests y métricas).
func (c *Counter) Peek() uint64 { return c.n.Load() }
