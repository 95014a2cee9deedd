package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Outcome es el estado final de una interacción con un componente.
type Outcome int

const (
	Rejected Outcome = iota
	Dispatched
)

func (o Outcome) String() string {
	if o == Dispatched {
		return "dispatched"
	}
	return "rejected"
}

// Result: en Rejected, Err es *componentid.DecodeError o ErrUnknownCommand.
// En Dispatched, Err es lo que devolvió el handler (puede ser nil).
type Result struct {
	Outcome Outcome
	Command string
	Err     error
}

var errNotComponent = errors.New("interaction is not a message component")

// Route decodifica el custom_id y despacha al comando dueño.
// Los fallos de decode y de lookup se loguean y nunca salen de acá como pánico.
func (r *Router) Route(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) Result {
	if ic.Type != discordgo.InteractionMessageComponent {
		return Result{Outcome: Rejected, Err: errNotComponent}
	}
	data := ic.MessageComponentData()

	id, err := r.ids.Parse(data.CustomID)
	if err != nil {
		r.log.Warn("component rejected: bad custom_id", "custom_id", data.CustomID, "err", err)
		return Result{Outcome: Rejected, Err: err}
	}

	cmd, ok := r.registry.Lookup(id.Command())
	if !ok {
		r.log.Warn("component rejected: no handler", "custom_id", data.CustomID, "cmd", id.Command())
		return Result{
			Outcome: Rejected,
			Command: id.Command(),
			Err:     fmt.Errorf("%w: %q", ErrUnknownCommand, id.Command()),
		}
	}

	c := r.newCtx(s, ic, cmd.Name())
	c.Values = data.Values
	err = cmd.OnComponent(ctx, c, id.Elements())
	if err != nil {
		c.Log.Error("component handler failed", "custom_id", data.CustomID, "err", err)
	}
	return Result{Outcome: Dispatched, Command: cmd.Name(), Err: err}
}

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic in component", "custom_id", data.CustomID, "panic", rec)
			r.reply(s, ic, "❌ Ocurrió un error inesperado.")
		}
	}()

	_ = r.deferReply(s, ic)

	if !r.clickLimiter.Allow(interactionUserID(ic)) {
		r.reply(s, ic, "⏳ Esperá un segundo…")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), componentTimeout)
	defer cancel()

	stop := step(r.log, "component.route")
	res := r.Route(ctx, s, ic)
	stop()

	switch {
	case res.Outcome == Rejected:
		r.reply(s, ic, "⚠️ Esta interacción ya no está disponible.")
	case res.Err != nil:
		r.reply(s, ic, "⚠️ No se pudo completar la acción: "+res.Err.Error())
	}
}
