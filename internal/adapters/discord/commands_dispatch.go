// logica de InteractionApplicationCommand: busca el comando en el registro y le pasa el evento
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ApplicationCommandData()
	r.log.Info("slash", "cmd", data.Name, "user", interactionUserID(ic), "guild", ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic in slash command", "cmd", data.Name, "panic", rec)
			r.reply(s, ic, "❌ Ocurrió un error inesperado procesando el comando. Contacta con un administrador.")
		}
	}()

	_ = r.deferReply(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), slashTimeout)
	defer cancel()

	cmd, ok := r.registry.Lookup(data.Name)
	if !ok {
		r.log.Warn("slash command sin handler", "cmd", data.Name)
		r.reply(s, ic, "⚠️ Este comando ya no existe.")
		return
	}

	defer step(r.log, "slash."+data.Name)()
	c := r.newCtx(s, ic, cmd.Name())
	if err := cmd.OnSlashCommand(ctx, c); err != nil {
		c.Log.Error("slash command failed", "err", err)
		r.reply(s, ic, "⚠️ "+err.Error())
	}
}
