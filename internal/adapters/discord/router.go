package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/componentbot/internal/app/componentid"
)

const (
	slashTimeout     = 12 * time.Second
	componentTimeout = 8 * time.Second
)

type Router struct {
	s       *discordgo.Session
	guildID string
	log     *slog.Logger

	registry     *Registry
	ids          *componentid.Codec
	clickLimiter *userLimiter

	// respuestas al usuario desde el dispatch; por defecto las de messaging.go
	deferReply func(s *discordgo.Session, ic *discordgo.InteractionCreate) error
	reply      func(s *discordgo.Session, ic *discordgo.InteractionCreate, content string)
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	registry *Registry,
	ids *componentid.Codec,
	log *slog.Logger,
	clickCooldown time.Duration,
) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		s:            s,
		guildID:      guildID,
		log:          log,
		registry:     registry,
		ids:          ids,
		clickLimiter: newUserLimiter(clickCooldown),
		deferReply:   DeferEphemeral,
		reply: func(s *discordgo.Session, ic *discordgo.InteractionCreate, content string) {
			ReplyEphemeral(s, ic, content)
		},
	}
}

// Register crea en el guild los slash commands de todos los comandos registrados.
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range r.registry.Commands() {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd.Definition()); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name(), err)
		}
	}
	return nil
}

// Handlers sella el registro y engancha los handlers de discordgo.
func (r *Router) Handlers() {
	r.registry.Seal()
	r.s.AddHandler(r.onInteraction)
	r.s.AddHandler(r.onMessageDelete)
}

func (r *Router) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		r.handleSlashCommand(s, ic)
	case discordgo.InteractionMessageComponent:
		r.handleMessageComponent(s, ic)
	}
}

// avisa a los comandos que guardan mensajes (ej. menús de roles)
func (r *Router) onMessageDelete(s *discordgo.Session, md *discordgo.MessageDelete) {
	if md.Message == nil || (r.guildID != "" && md.GuildID != r.guildID) {
		return
	}
	if s.State != nil && s.State.User != nil && !mayBeBotMessage(md, s.State.User.ID) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, cmd := range r.registry.Commands() {
		if l, ok := cmd.(MessageDeleteListener); ok {
			l.OnMessageDelete(ctx, md.GuildID, md.ID)
		}
	}
}

// mayBeBotMessage: el gateway casi nunca manda el autor de un mensaje borrado;
// sólo descartamos cuando se sabe y no es el bot.
func mayBeBotMessage(md *discordgo.MessageDelete, botID string) bool {
	author := md.Author
	if author == nil && md.BeforeDelete != nil {
		author = md.BeforeDelete.Author
	}
	return author == nil || author.ID == botID
}

func (r *Router) newCtx(s *discordgo.Session, ic *discordgo.InteractionCreate, command string) *Ctx {
	uid := interactionUserID(ic)
	return &Ctx{
		Log:       r.log.With("cmd", command, "user", uid, "guild", ic.GuildID),
		Session:   s,
		Event:     ic,
		GuildID:   ic.GuildID,
		ChannelID: ic.ChannelID,
		UserID:    uid,
		Command:   command,
		ids:       r.ids,
	}
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}
