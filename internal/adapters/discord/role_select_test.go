package discord

import (
	"encoding/json"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectableRoles(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "g1", Name: "@everyone"},
		{ID: "r1", Name: "Java"},
		{ID: "r2", Name: "Booster", Managed: true},
		nil,
		{ID: "r3", Name: "Go"},
	}
	got := selectableRoles(roles, "g1")
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)
}

func TestHighestPositionAndReachability(t *testing.T) {
	guild := map[string]*discordgo.Role{
		"bot":  {ID: "bot", Position: 5},
		"low":  {ID: "low", Position: 2},
		"same": {ID: "same", Position: 5},
		"high": {ID: "high", Position: 9},
	}
	top := highestPosition([]string{"low", "bot", "gone"}, guild)
	assert.Equal(t, 5, top)
	assert.Equal(t, 0, highestPosition(nil, guild))

	bad := unreachableRoles([]*discordgo.Role{guild["low"], guild["same"], guild["high"]}, top)
	require.Len(t, bad, 2)
	assert.Equal(t, "same", bad[0].ID)
	assert.Equal(t, "high", bad[1].ID)
}

func TestPlanRoleChanges(t *testing.T) {
	offered := []string{"a", "b", "c", "d"}
	current := []string{"b", "d", "other"}
	selected := []string{"a", "b", "not-offered"}

	add, remove := planRoleChanges(offered, selected, current)
	assert.Equal(t, []string{"a"}, add)
	assert.Equal(t, []string{"d"}, remove)

	add, remove = planRoleChanges(offered, nil, nil)
	assert.Empty(t, add)
	assert.Empty(t, remove)

	// deseleccionar todo quita todo lo ofrecido, nada más
	add, remove = planRoleChanges(offered, nil, current)
	assert.Empty(t, add)
	assert.Equal(t, []string{"b", "d"}, remove)
}

func TestRoleMenu(t *testing.T) {
	row := roleMenu("3|role-select|u1", []*discordgo.Role{{ID: "r1", Name: "Java"}, {ID: "r2", Name: "Go"}})
	require.Len(t, row.Components, 1)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)

	assert.Equal(t, discordgo.StringSelectMenu, menu.MenuType)
	assert.Equal(t, "3|role-select|u1", menu.CustomID)
	require.NotNil(t, menu.MinValues)
	assert.Equal(t, 0, *menu.MinValues)
	assert.Equal(t, 2, menu.MaxValues)
	assert.Equal(t, "Java", menu.Options[0].Label)
	assert.Equal(t, "r2", menu.Options[1].Value)
}

func TestMenuOptionValues(t *testing.T) {
	msg := &discordgo.Message{Components: []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.Button{CustomID: "1|ping|0"},
		}},
		roleMenu("3|role-select|u1", []*discordgo.Role{{ID: "r1"}, {ID: "r2"}}),
	}}
	assert.Equal(t, []string{"r1", "r2"}, menuOptionValues(msg, "3|role-select|u1"))
	assert.Nil(t, menuOptionValues(msg, "4|role-select|u1"))
}

func TestMenuOptionValues_FromGatewayJSON(t *testing.T) {
	raw := `{"id":"m1","components":[{"type":1,"components":[{"type":3,"custom_id":"9|role-select|u1",
		"options":[{"label":"Java","value":"r1"},{"label":"Go","value":"r2"}]}]}]}`
	var msg discordgo.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, []string{"r1", "r2"}, menuOptionValues(&msg, "9|role-select|u1"))
}

func TestRoleMentions(t *testing.T) {
	got := roleMentions([]*discordgo.Role{{ID: "2"}, {ID: "1"}})
	assert.Equal(t, "<@&1>, <@&2>", got)
}

func TestRoleSelectDefinition(t *testing.T) {
	def := newRoleSelectCommand(nil, nil).Definition()
	assert.Equal(t, "role-select", def.Name)
	// role + title + description + role-2..role-23
	assert.Len(t, def.Options, 25)
	assert.True(t, def.Options[0].Required)
	assert.Equal(t, "role-23", def.Options[24].Name)
	require.NotNil(t, def.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionManageRoles), *def.DefaultMemberPermissions)
}
