package discord

// NewCommands arma los comandos del bot en el orden en que se registran en Discord.
// menus puede ser nil: los menús de roles funcionan igual pero no se guardan.
func NewCommands(menus RoleMenuStore, adminRoleIDs []string) []SlashCommand {
	return []SlashCommand{
		newPingCommand(),
		newRoleSelectCommand(menus, adminRoleIDs),
		newVCActivityCommand(),
	}
}
