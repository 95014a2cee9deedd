package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/componentbot/internal/infra/config"
	"github.com/jose-valero/componentbot/internal/infra/storage"
)

func handler(ctx context.Context) (string, error) {
	cfg, err := config.LoadJanitor()
	if err != nil {
		return err.Error(), nil
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := pool.Exec(cctx, storage.PurgeDeletedRoleMenusSQL, storage.RetentionSeconds(cfg.RoleMenuRetention))
	if err != nil {
		return fmt.Sprintf("purge: %v", err), nil
	}
	return fmt.Sprintf("ok: %d role menus purged", tag.RowsAffected()), nil
}

func main() { lambda.Start(handler) }
