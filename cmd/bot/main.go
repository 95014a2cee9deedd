package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/componentbot/internal/adapters/discord"
	"github.com/jose-valero/componentbot/internal/adapters/httpstatus"
	"github.com/jose-valero/componentbot/internal/app/componentid"
	"github.com/jose-valero/componentbot/internal/infra/config"
	"github.com/jose-valero/componentbot/internal/infra/storage"
)

// cada cuánto el bot borra menús de roles que ya no existen, y cuánto los guarda
const (
	purgeEvery        = time.Hour
	roleMenuRetention = 7 * 24 * time.Hour
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB (opcional)
	var menus discordrouter.RoleMenuStore
	var menuRepo *storage.RoleMenuRepo
	if cfg.DatabaseURL != "" {
		db, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := storage.Migrate(ctx, db); err != nil {
			log.Fatal("migrate: ", err)
		}
		menuRepo = storage.NewRoleMenuRepo(db)
		menus = menuRepo
		logger.Info("✅ DB lista y migrada")
	} else {
		logger.Warn("DATABASE_URL vacío: los menús de roles no se guardan")
	}

	auth := strings.TrimSpace(cfg.DiscordToken)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates | discordgo.IntentsGuildMessages
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	logger.Info("✅ Conectado", "user", s.State.User.Username, "id", s.State.User.ID)

	// un solo contador por proceso; los ids viejos siguen decodificando después de reiniciar
	ids := componentid.NewCodec(componentid.NewCounter(), componentid.WithMaxLength(cfg.ComponentIDMaxLength))

	registry, err := discordrouter.NewRegistry(discordrouter.NewCommands(menus, cfg.AdminRoleIDs)...)
	if err != nil {
		log.Fatalf("registro de comandos: %v", err)
	}

	r := discordrouter.NewRouter(s, cfg.DiscordGuild, registry, ids, logger, cfg.ClickCooldown)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	logger.Info("✅ comandos registrados", "guild", cfg.DiscordGuild, "commands", registry.Names())

	status := httpstatus.New(ids, registry, logger)
	go func() {
		if err := status.Run(ctx, cfg.HTTPAddr); err != nil {
			logger.Error("http server", "err", err)
		}
	}()

	if menuRepo != nil {
		go purgeRoleMenus(ctx, logger, menuRepo)
	}

	<-ctx.Done()
	logger.Info("apagando")
}

// purgeRoleMenus: respaldo del janitor cuando el bot corre sin lambda.
func purgeRoleMenus(ctx context.Context, logger *slog.Logger, repo *storage.RoleMenuRepo) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			n, err := repo.PurgeDeleted(pctx, roleMenuRetention)
			cancel()
			if err != nil {
				logger.Warn("purge role menus", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("role menus purged", "n", n)
			}
		}
	}
}
