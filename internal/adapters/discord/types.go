package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/componentbot/internal/app/componentid"
)

// Ctx es lo que recibe cada handler: el evento crudo más el contexto ya resuelto.
type Ctx struct {
	Log     *slog.Logger
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate

	GuildID   string
	ChannelID string
	UserID    string

	// Command: nombre registrado del handler que recibe el evento
	Command string
	// Values: opciones elegidas en un select menu (vacío en slash y botones)
	Values []string

	ids *componentid.Codec
}

// ComponentID crea un custom_id para un componente de este mismo comando.
func (c *Ctx) ComponentID(elements ...string) (string, error) {
	id, err := c.ids.Mint(c.Command, elements...)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SlashCommand es el contrato de todos los comandos del bot.
// El router sólo depende de Name y OnComponent; Definition se usa al registrar en Discord.
type SlashCommand interface {
	Name() string
	Definition() *discordgo.ApplicationCommand
	OnSlashCommand(ctx context.Context, c *Ctx) error
	// OnComponent recibe los elementos decodificados del custom_id.
	OnComponent(ctx context.Context, c *Ctx, args []string) error
}

// MessageDeleteListener lo implementan los comandos que guardan mensajes publicados.
type MessageDeleteListener interface {
	OnMessageDelete(ctx context.Context, guildID, messageID string)
}

var ErrNoComponents = errors.New("command has no components")

// commandBase resuelve Name/Definition y un OnComponent por defecto.
type commandBase struct {
	def *discordgo.ApplicationCommand
}

func (b commandBase) Name() string                              { return b.def.Name }
func (b commandBase) Definition() *discordgo.ApplicationCommand { return b.def }

func (b commandBase) OnComponent(context.Context, *Ctx, []string) error {
	return ErrNoComponents
}
