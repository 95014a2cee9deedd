package discord

import (
	"fmt"
	"math"

	"github.com/bwmarrin/discordgo"
)

// commandOptions aplana las opciones: las de primer nivel y las del subcomando.
func commandOptions(ic *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	var out []*discordgo.ApplicationCommandInteractionDataOption
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			out = append(out, o.Options...)
			continue
		}
		out = append(out, o)
	}
	return out
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	for _, o := range commandOptions(ic) {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
	}
	return "", false
}

func optInt(ic *discordgo.InteractionCreate, name string) (int64, bool) {
	for _, o := range commandOptions(ic) {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return o.IntValue(), true
		}
	}
	return 0, false
}

// optRoles devuelve los roles elegidos (resueltos por Discord), en orden y sin repetir.
func optRoles(ic *discordgo.InteractionCreate) []*discordgo.Role {
	var resolved map[string]*discordgo.Role
	if ic.Type == discordgo.InteractionApplicationCommand {
		if res := ic.ApplicationCommandData().Resolved; res != nil {
			resolved = res.Roles
		}
	}

	seen := map[string]struct{}{}
	var out []*discordgo.Role
	for _, o := range commandOptions(ic) {
		if o.Type != discordgo.ApplicationCommandOptionRole {
			continue
		}
		id, _ := o.Value.(string)
		role := resolved[id]
		if role == nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, role)
	}
	return out
}

func subcmdName(ic *discordgo.InteractionCreate) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, true
		}
	}
	return "", false
}

// checkNonNegativeInt32: Discord acepta enteros de 53 bits, la API de invites no.
func checkNonNegativeInt32(name string, v int64) (int, error) {
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("`%s` supera `%d`, es demasiado alto", name, math.MaxInt32)
	}
	if v < 0 {
		return 0, fmt.Errorf("`%s` es negativo, no está soportado", name)
	}
	return int(v), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
