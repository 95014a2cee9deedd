package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"
)

var ErrNotFound = errors.New("not found")

// PurgeDeletedRoleMenusSQL lo comparten el bot y el janitor; $1 son segundos de retención.
const PurgeDeletedRoleMenusSQL = `
DELETE FROM role_menus
 WHERE deleted_at IS NOT NULL
   AND deleted_at < now() - ($1::bigint * interval '1 second')`

type RoleMenuRepo struct{ db *sql.DB }

func NewRoleMenuRepo(db *sql.DB) *RoleMenuRepo { return &RoleMenuRepo{db: db} }

// Upsert por (guild_id, message_id); revive el menú si estaba borrado.
func (r *RoleMenuRepo) Upsert(ctx context.Context, m RoleMenu) error {
	roleIDs := m.RoleIDs
	if roleIDs == nil {
		roleIDs = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO role_menus (guild_id, message_id, channel_id, author_id, custom_id, title, role_ids)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (guild_id, message_id) DO UPDATE SET
  channel_id = EXCLUDED.channel_id,
  author_id  = EXCLUDED.author_id,
  custom_id  = EXCLUDED.custom_id,
  title      = EXCLUDED.title,
  role_ids   = EXCLUDED.role_ids,
  updated_at = now(),
  deleted_at = NULL
`, m.GuildID, m.MessageID, m.ChannelID, m.AuthorID, m.CustomID, m.Title, pq.Array(roleIDs))
	return err
}

func (r *RoleMenuRepo) Get(ctx context.Context, guildID, messageID string) (RoleMenu, error) {
	var m RoleMenu
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, message_id, channel_id, author_id, custom_id, title, role_ids, created_at, updated_at
  FROM role_menus
 WHERE guild_id = $1 AND message_id = $2 AND deleted_at IS NULL
`, guildID, messageID).Scan(&m.GuildID, &m.MessageID, &m.ChannelID, &m.AuthorID, &m.CustomID, &m.Title,
		pq.Array(&m.RoleIDs), &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RoleMenu{}, ErrNotFound
	}
	return m, err
}

// MarkDeleted hace soft delete; si el mensaje no era un menú no hace nada.
func (r *RoleMenuRepo) MarkDeleted(ctx context.Context, guildID, messageID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE role_menus
   SET deleted_at = now()
 WHERE guild_id = $1 AND message_id = $2 AND deleted_at IS NULL
`, guildID, messageID)
	return err
}

// PurgeDeleted borra definitivamente los menús borrados hace más de olderThan.
func (r *RoleMenuRepo) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, PurgeDeletedRoleMenusSQL, RetentionSeconds(olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge role menus: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RetentionSeconds pasa la retención a segundos enteros; negativo cuenta como 0.
func RetentionSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
