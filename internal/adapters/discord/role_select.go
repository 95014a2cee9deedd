package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/componentbot/internal/infra/storage"
)

const (
	roleSelectName = "role-select"
	// 25 es el máximo de opciones de un select menu; "role" cuenta como la primera
	maxRoleOptions = 23
	roleMenuColor  = 0x18DD88
)

// RoleMenuStore guarda los menús publicados. Puede ser nil (sin DATABASE_URL).
type RoleMenuStore interface {
	Upsert(ctx context.Context, m storage.RoleMenu) error
	Get(ctx context.Context, guildID, messageID string) (storage.RoleMenu, error)
	MarkDeleted(ctx context.Context, guildID, messageID string) error
}

type roleSelectCommand struct {
	commandBase
	menus        RoleMenuStore
	adminRoleIDs []string
}

func newRoleSelectCommand(menus RoleMenuStore, adminRoleIDs []string) *roleSelectCommand {
	opts := []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Primer rol del menú", Required: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Título del mensaje"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Descripción del mensaje"},
	}
	for i := 2; i <= maxRoleOptions; i++ {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        fmt.Sprintf("role-%d", i),
			Description: "Otro rol para el menú",
		})
	}
	perm := int64(discordgo.PermissionManageRoles)
	return &roleSelectCommand{
		commandBase: commandBase{def: &discordgo.ApplicationCommand{
			Name:                     roleSelectName,
			Description:              "Publica un menú para que cada uno elija sus roles",
			DefaultMemberPermissions: &perm,
			Options:                  opts,
		}},
		menus:        menus,
		adminRoleIDs: adminRoleIDs,
	}
}

func (cmd *roleSelectCommand) OnSlashCommand(ctx context.Context, c *Ctx) error {
	if !requirePermission(c, discordgo.PermissionManageRoles, cmd.adminRoleIDs) {
		return nil
	}
	s := c.Session
	if !botCan(s, c.ChannelID, discordgo.PermissionManageRoles) {
		return errors.New("el bot necesita el permiso **Gestionar roles**")
	}

	roles := selectableRoles(optRoles(c.Event), c.GuildID)
	if len(roles) == 0 {
		return errors.New("ninguno de esos roles se puede asignar (@everyone y los roles de integraciones no cuentan)")
	}

	guildRoles, err := guildRoleMap(s, c.GuildID)
	if err != nil {
		return fmt.Errorf("leer roles del servidor: %w", err)
	}
	botTop, err := botTopPosition(s, c.GuildID, guildRoles)
	if err != nil {
		return fmt.Errorf("leer roles del bot: %w", err)
	}
	if bad := unreachableRoles(roles, botTop); len(bad) > 0 {
		return fmt.Errorf("no puedo asignar %s: están por encima de mi rol más alto", roleMentions(bad))
	}

	title, _ := optStr(c.Event, "title")
	if title == "" {
		title = "Elegí tus roles"
	}
	desc, _ := optStr(c.Event, "description")
	if desc == "" {
		desc = "Seleccioná en el menú los roles que quieras tener. Lo que deseleccionás se quita."
	}

	customID, err := c.ComponentID(c.UserID)
	if err != nil {
		return fmt.Errorf("armar el menú: %w", err)
	}

	stop := step(c.Log, "role-select.publish")
	msg, err := s.ChannelMessageSendComplex(c.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       truncate(title, 256),
			Description: truncate(desc, 4096),
			Color:       roleMenuColor,
		}},
		Components: []discordgo.MessageComponent{roleMenu(customID, roles)},
	})
	stop()
	if err != nil {
		return fmt.Errorf("publicar menú: %w", err)
	}

	if cmd.menus != nil {
		ids := make([]string, 0, len(roles))
		for _, r := range roles {
			ids = append(ids, r.ID)
		}
		err := cmd.menus.Upsert(ctx, storage.RoleMenu{
			GuildID:   c.GuildID,
			MessageID: msg.ID,
			ChannelID: c.ChannelID,
			AuthorID:  c.UserID,
			CustomID:  customID,
			Title:     title,
			RoleIDs:   ids,
		})
		if err != nil {
			// el menú ya está publicado y funciona sin la fila
			c.Log.Warn("role menu not stored", "msg", msg.ID, "err", err)
		}
	}

	ReplyEphemeral(s, c.Event, "✅ Menú publicado.")
	return nil
}

// OnComponent: args[0] es el usuario que publicó el menú; lo usamos sólo para logs.
func (cmd *roleSelectCommand) OnComponent(ctx context.Context, c *Ctx, args []string) error {
	s := c.Session
	ic := c.Event
	if ic.Member == nil {
		return errors.New("este menú sólo funciona dentro del servidor")
	}

	var offered []string
	if ic.Message != nil {
		offered = menuOptionValues(ic.Message, ic.MessageComponentData().CustomID)
		if len(offered) == 0 && cmd.menus != nil {
			m, err := cmd.menus.Get(ctx, c.GuildID, ic.Message.ID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("leer menú: %w", err)
			}
			offered = m.RoleIDs
		}
	}
	if len(offered) == 0 {
		return errors.New("este menú ya no tiene roles")
	}

	guildRoles, err := guildRoleMap(s, c.GuildID)
	if err != nil {
		return fmt.Errorf("leer roles del servidor: %w", err)
	}
	botTop, err := botTopPosition(s, c.GuildID, guildRoles)
	if err != nil {
		return fmt.Errorf("leer roles del bot: %w", err)
	}

	add, remove := planRoleChanges(offered, c.Values, ic.Member.Roles)
	author := ""
	if len(args) > 0 {
		author = args[0]
	}
	c.Log.Info("role menu selection", "author", author, "add", add, "remove", remove)

	var blocked []*discordgo.Role
	apply := func(roleID string, fn func(guildID, userID, roleID string, options ...discordgo.RequestOption) error) error {
		role, ok := guildRoles[roleID]
		if !ok {
			c.Log.Warn("role removed but still an option", "role", roleID)
			return nil
		}
		if role.Position >= botTop {
			blocked = append(blocked, role)
			return nil
		}
		return fn(c.GuildID, c.UserID, roleID)
	}
	for _, id := range add {
		if err := apply(id, s.GuildMemberRoleAdd); err != nil {
			return fmt.Errorf("agregar rol: %w", err)
		}
	}
	for _, id := range remove {
		if err := apply(id, s.GuildMemberRoleRemove); err != nil {
			return fmt.Errorf("quitar rol: %w", err)
		}
	}

	if len(blocked) > 0 {
		ReplyEphemeral(s, ic, "⚠️ No pude cambiar "+roleMentions(blocked)+": están por encima de mi rol más alto. Avisale a un admin.")
		return nil
	}
	ReplyEphemeral(s, ic, "✅ Tus roles fueron actualizados.")
	return nil
}

func (cmd *roleSelectCommand) OnMessageDelete(ctx context.Context, guildID, messageID string) {
	if cmd.menus == nil {
		return
	}
	if err := cmd.menus.MarkDeleted(ctx, guildID, messageID); err != nil {
		slog.Warn("role menu mark deleted failed", "msg", messageID, "err", err)
	}
}

// selectableRoles saca @everyone (ID == guild ID) y los roles administrados por integraciones.
func selectableRoles(roles []*discordgo.Role, guildID string) []*discordgo.Role {
	out := make([]*discordgo.Role, 0, len(roles))
	for _, r := range roles {
		if r == nil || r.ID == guildID || r.Managed {
			continue
		}
		out = append(out, r)
	}
	return out
}

// highestPosition de los roles del miembro; 0 si no tiene ninguno conocido.
func highestPosition(memberRoles []string, guildRoles map[string]*discordgo.Role) int {
	top := 0
	for _, id := range memberRoles {
		if r, ok := guildRoles[id]; ok && r.Position > top {
			top = r.Position
		}
	}
	return top
}

func unreachableRoles(roles []*discordgo.Role, botTop int) []*discordgo.Role {
	var out []*discordgo.Role
	for _, r := range roles {
		if r.Position >= botTop {
			out = append(out, r)
		}
	}
	return out
}

// planRoleChanges: de los roles ofrecidos, agrega los elegidos que faltan y quita los no elegidos que tiene.
func planRoleChanges(offered, selected, current []string) (add, remove []string) {
	has := make(map[string]bool, len(current))
	for _, id := range current {
		has[id] = true
	}
	picked := make(map[string]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	for _, id := range offered {
		switch {
		case picked[id] && !has[id]:
			add = append(add, id)
		case !picked[id] && has[id]:
			remove = append(remove, id)
		}
	}
	return add, remove
}

// menuOptionValues busca en el mensaje el select menu con ese custom_id y devuelve sus valores.
func menuOptionValues(msg *discordgo.Message, customID string) []string {
	var menu *discordgo.SelectMenu
	for _, comp := range msg.Components {
		var row discordgo.ActionsRow
		switch v := comp.(type) {
		case *discordgo.ActionsRow:
			row = *v
		case discordgo.ActionsRow:
			row = v
		default:
			continue
		}
		for _, inner := range row.Components {
			switch m := inner.(type) {
			case *discordgo.SelectMenu:
				if m.CustomID == customID {
					menu = m
				}
			case discordgo.SelectMenu:
				if m.CustomID == customID {
					menu = &m
				}
			}
		}
	}
	if menu == nil {
		return nil
	}
	out := make([]string, 0, len(menu.Options))
	for _, o := range menu.Options {
		out = append(out, o.Value)
	}
	return out
}

func roleMenu(customID string, roles []*discordgo.Role) discordgo.ActionsRow {
	minValues := 0
	opts := make([]discordgo.SelectMenuOption, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, discordgo.SelectMenuOption{Label: truncate(r.Name, 100), Value: r.ID})
	}
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    customID,
			Placeholder: "Elegí tus roles",
			MinValues:   &minValues,
			MaxValues:   len(opts),
			Options:     opts,
		},
	}}
}

func guildRoleMap(s *discordgo.Session, guildID string) (map[string]*discordgo.Role, error) {
	var roles []*discordgo.Role
	if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		roles = g.Roles
	} else {
		rs, err := s.GuildRoles(guildID)
		if err != nil {
			return nil, err
		}
		roles = rs
	}
	out := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		out[r.ID] = r
	}
	return out, nil
}

func botTopPosition(s *discordgo.Session, guildID string, guildRoles map[string]*discordgo.Role) (int, error) {
	botID := s.State.User.ID
	m, err := s.State.Member(guildID, botID)
	if err != nil || m == nil {
		if m, err = s.GuildMember(guildID, botID); err != nil {
			return 0, err
		}
	}
	return highestPosition(m.Roles, guildRoles), nil
}

func roleMentions(roles []*discordgo.Role) string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, "<@&"+r.ID+">")
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}
