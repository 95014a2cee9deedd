package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	vcActivityName = "vc-activity"
	// 1 día, igual que el default de Discord para invites
	defaultInviteMaxAge = 86400
)

// No hay lista oficial de Discord; son los ids conocidos de las actividades embebidas.
var vcApplications = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "YouTube Together", Value: "755600276941176913"},
	{Name: "Poker", Value: "755827207812677713"},
	{Name: "Betrayal.io", Value: "773336526917861400"},
	{Name: "Fishington.io", Value: "814288819477020702"},
	{Name: "Chess / CG 2 Dev", Value: "832012586023256104"},
	{Name: "Awkword", Value: "879863881349087252"},
	{Name: "Spellcast", Value: "852509694341283871"},
	{Name: "Doodlecrew", Value: "878067389634314250"},
	{Name: "Wordsnack", Value: "879863976006127627"},
	{Name: "Lettertile", Value: "879863686565621790"},
}

type vcActivityCommand struct {
	commandBase
}

func newVCActivityCommand() *vcActivityCommand {
	limits := func() []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "max-uses", Description: "Cuántas veces se puede usar el invite (default: sin límite)"},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "max-age", Description: "Duración en segundos, 0 = no expira (default: 1 día)"},
		}
	}
	return &vcActivityCommand{commandBase: commandBase{def: &discordgo.ApplicationCommand{
		Name:        vcActivityName,
		Description: "Arranca una actividad en tu canal de voz",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "application",
				Description: "Elegí una de las actividades conocidas",
				Options: append([]*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "application",
					Description: "Actividad",
					Required:    true,
					Choices:     vcApplications,
				}}, limits()...),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "id",
				Description: "Usá el id de una aplicación embebida",
				Options: append([]*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "Id de la aplicación",
					Required:    true,
				}}, limits()...),
			},
		},
	}}}
}

func (cmd *vcActivityCommand) OnSlashCommand(_ context.Context, c *Ctx) error {
	s := c.Session
	sub, _ := subcmdName(c.Event)
	appID, _ := optStr(c.Event, sub)
	if appID == "" {
		return errors.New("falta la aplicación")
	}

	maxUses, maxAge, err := inviteLimits(c.Event)
	if err != nil {
		return err
	}

	ch, ok := userVoiceChannel(s, c.GuildID, c.UserID)
	if !ok {
		return errors.New("tenés que estar en un canal de voz para usar este comando")
	}
	if !botCan(s, ch.ID, discordgo.PermissionCreateInstantInvite) {
		return fmt.Errorf("no tengo permiso para crear invites en <#%s>", ch.ID)
	}

	inv, err := createActivityInvite(s, ch.ID, appID, maxUses, maxAge)
	if err != nil {
		c.Log.Error("vc-activity invite failed", "channel", ch.ID, "app", appID, "err", err)
		ReplyEphemeral(s, c.Event, "Algo salió mal :/")
		return nil
	}
	c.Log.Info("vc-activity invite", "channel", ch.ID, "app", appID, "code", inv.Code)

	// el invite es para todos los del canal: va público, el defer era efímero
	if _, err := s.ChannelMessageSend(c.ChannelID, activityInviteMessage(c.UserID, inv.Code)); err != nil {
		c.Log.Warn("vc-activity public post failed", "channel", c.ChannelID, "err", err)
		ReplyEphemeral(s, c.Event, "🎮 "+inviteURL(inv.Code))
		return nil
	}
	ReplyEphemeral(s, c.Event, "✅ Invite publicado.")
	return nil
}

func inviteURL(code string) string { return "https://discord.gg/" + code }

func activityInviteMessage(userID, code string) string {
	return fmt.Sprintf("🎮 <@%s> arrancó una actividad, acá está el invite: %s", userID, inviteURL(code))
}

// inviteLimits lee max-uses (0 = sin límite) y max-age (default 1 día).
func inviteLimits(ic *discordgo.InteractionCreate) (maxUses, maxAge int, err error) {
	maxAge = defaultInviteMaxAge
	if v, ok := optInt(ic, "max-uses"); ok {
		if maxUses, err = checkNonNegativeInt32("max-uses", v); err != nil {
			return 0, 0, err
		}
	}
	if v, ok := optInt(ic, "max-age"); ok {
		if maxAge, err = checkNonNegativeInt32("max-age", v); err != nil {
			return 0, 0, err
		}
	}
	return maxUses, maxAge, nil
}

// ChannelInviteCreate de discordgo no manda target_type, así que armamos el request a mano.
func createActivityInvite(s *discordgo.Session, channelID, appID string, maxUses, maxAge int) (*discordgo.Invite, error) {
	data := struct {
		MaxAge              int                        `json:"max_age"`
		MaxUses             int                        `json:"max_uses"`
		TargetType          discordgo.InviteTargetType `json:"target_type"`
		TargetApplicationID string                     `json:"target_application_id"`
	}{maxAge, maxUses, discordgo.InviteTargetEmbeddedApplication, appID}

	endpoint := discordgo.EndpointChannelInvites(channelID)
	body, err := s.RequestWithBucketID("POST", endpoint, data, endpoint)
	if err != nil {
		return nil, err
	}
	var inv discordgo.Invite
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("decode invite: %w", err)
	}
	return &inv, nil
}
