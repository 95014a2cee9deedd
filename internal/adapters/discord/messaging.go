package discord

import (
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// código REST de Discord para "Unknown Webhook" (todavía no hubo respuesta a la interacción)
const errCodeUnknownWebhook = 10015

// Defer efímero (para trabajos >3s)
func DeferEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Warn("DeferEphemeral error", "err", err)
	}
	return err
}

func ReplyEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	replyEphemeral(s, ic, &discordgo.WebhookParams{Content: content, Embeds: embeds})
}

// ReplyEphemeralComponents es ReplyEphemeral con botones / menús.
func ReplyEphemeralComponents(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, comps ...discordgo.MessageComponent) {
	replyEphemeral(s, ic, &discordgo.WebhookParams{Content: content, Components: comps})
}

func replyEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, params *discordgo.WebhookParams) {
	params.Flags = discordgo.MessageFlagsEphemeral
	_, err := s.FollowupMessageCreate(ic.Interaction, true, params)
	if err == nil {
		return
	}

	// Fallback sólo si todavía no hay respuesta (webhook desconocido)
	var reqErr *discordgo.RESTError
	if errors.As(err, &reqErr) && reqErr.Message != nil && reqErr.Message.Code == errCodeUnknownWebhook {
		_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    params.Content,
				Embeds:     params.Embeds,
				Components: params.Components,
				Flags:      discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}
	slog.Warn("ReplyEphemeral error", "err", err)
}
