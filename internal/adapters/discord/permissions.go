package discord

import "github.com/bwmarrin/discordgo"

// memberAllowed: dueño del guild, permiso pedido (o Administrator) en el canal,
// o alguno de los roles admin configurados para el bot.
func memberAllowed(m *discordgo.Member, ownerID string, perm int64, adminRoleIDs []string) bool {
	if m == nil {
		return false
	}
	if m.User != nil && ownerID != "" && m.User.ID == ownerID {
		return true
	}
	if hasPermission(m.Permissions, perm) {
		return true
	}
	if len(adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(m.Roles))
		for _, rid := range m.Roles {
			has[rid] = struct{}{}
		}
		for _, want := range adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}
	return false
}

func hasPermission(perms, perm int64) bool {
	return perms&discordgo.PermissionAdministrator != 0 || perms&perm == perm
}

// requirePermission responde al usuario si no tiene permiso.
func requirePermission(c *Ctx, perm int64, adminRoleIDs []string) bool {
	var ownerID string
	if g, _ := c.Session.State.Guild(c.GuildID); g != nil {
		ownerID = g.OwnerID
	}
	if memberAllowed(c.Event.Member, ownerID, perm, adminRoleIDs) {
		return true
	}
	ReplyEphemeral(c.Session, c.Event, "🔒 No tienes permisos para esta acción.")
	return false
}

// botCan revisa los permisos del bot en un canal usando el state.
func botCan(s *discordgo.Session, channelID string, perm int64) bool {
	perms, err := s.State.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		return false
	}
	return hasPermission(perms, perm)
}
