package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// /ping: el botón lleva el contador en el custom_id, sin estado en el bot.
type pingCommand struct {
	commandBase
}

func newPingCommand() *pingCommand {
	return &pingCommand{commandBase: commandBase{def: &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responde Pong! con un botón",
	}}}
}

func (cmd *pingCommand) OnSlashCommand(_ context.Context, c *Ctx) error {
	return cmd.reply(c, 0)
}

func (cmd *pingCommand) OnComponent(_ context.Context, c *Ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("botón inválido")
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("botón inválido: %w", err)
	}
	return cmd.reply(c, n+1)
}

func (cmd *pingCommand) reply(c *Ctx, clicks uint64) error {
	count := strconv.FormatUint(clicks, 10)
	customID, err := c.ComponentID(count)
	if err != nil {
		return err
	}
	ReplyEphemeralComponents(c.Session, c.Event, "🏓 Pong!", discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Clicks: " + count, Style: discordgo.PrimaryButton, CustomID: customID},
		},
	})
	return nil
}
