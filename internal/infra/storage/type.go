package storage

import "time"

// RoleMenu es un mensaje publicado por /role-select con su menú de roles.
type RoleMenu struct {
	GuildID   string
	MessageID string
	ChannelID string
	AuthorID  string
	CustomID  string // custom_id del select menu tal cual se mandó a Discord
	Title     string
	RoleIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
