package discord

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrEmptyCommandName = errors.New("command name is empty")
	ErrRegistrySealed   = errors.New("registry is sealed")
	ErrUnknownCommand   = errors.New("unknown command")
)

// Registry mapea nombre -> comando. Se llena al arrancar y queda de sólo lectura
// después de Seal; desde ahí las lecturas concurrentes no necesitan lock.
type Registry struct {
	byName map[string]SlashCommand
	order  []SlashCommand
	sealed atomic.Bool
}

func NewRegistry(cmds ...SlashCommand) (*Registry, error) {
	r := &Registry{byName: make(map[string]SlashCommand, len(cmds))}
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(cmd SlashCommand) error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	name := cmd.Name()
	if name == "" {
		return ErrEmptyCommandName
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, name)
	}
	r.byName[name] = cmd
	r.order = append(r.order, cmd)
	return nil
}

// Seal congela el registro. Lo llama el Router antes de escuchar eventos.
func (r *Registry) Seal() { r.sealed.Store(true) }

func (r *Registry) Lookup(name string) (SlashCommand, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Commands devuelve los comandos en orden de registro.
func (r *Registry) Commands() []SlashCommand {
	out := make([]SlashCommand, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, cmd := range r.order {
		out = append(out, cmd.Name())
	}
	return out
}
