package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jose-valero/componentbot/internal/app/componentid"
)

type Config struct {
	DiscordToken string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	DiscordGuild string `env:"DISCORD_GUILD_ID,required,notEmpty"`

	// opcional: sin base los menús de roles no se guardan
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// roles que cuentan como admin del bot además de los permisos de Discord
	AdminRoleIDs []string `env:"ADMIN_ROLE_IDS" envSeparator:","`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`

	ComponentIDMaxLength int           `env:"COMPONENT_ID_MAX_LENGTH" envDefault:"100"`
	ClickCooldown        time.Duration `env:"CLICK_COOLDOWN" envDefault:"1s"`
}

// JanitorConfig es lo que necesita el lambda de limpieza.
type JanitorConfig struct {
	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	RoleMenuRetention time.Duration `env:"ROLE_MENU_RETENTION" envDefault:"168h"`
}

// Load lee la configuración del entorno del proceso.
func Load() (Config, error) { return load(env.Options{}) }

// LoadFrom es Load sobre un mapa en vez del entorno (tests).
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AdminRoleIDs = compact(cfg.AdminRoleIDs)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadJanitor() (JanitorConfig, error) { return loadJanitor(env.Options{}) }

func LoadJanitorFrom(vars map[string]string) (JanitorConfig, error) {
	return loadJanitor(env.Options{Environment: vars})
}

func loadJanitor(opts env.Options) (JanitorConfig, error) {
	var cfg JanitorConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return JanitorConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RoleMenuRetention < 0 {
		return JanitorConfig{}, errors.New("ROLE_MENU_RETENTION no puede ser negativo")
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.ComponentIDMaxLength < componentid.MinMaxLength || c.ComponentIDMaxLength > componentid.DiscordMaxLength {
		errs = append(errs, fmt.Errorf("COMPONENT_ID_MAX_LENGTH debe estar entre %d y %d (es %d)",
			componentid.MinMaxLength, componentid.DiscordMaxLength, c.ComponentIDMaxLength))
	}
	if c.ClickCooldown < 0 {
		errs = append(errs, errors.New("CLICK_COOLDOWN no puede ser negativo"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel traduce LOG_LEVEL; Load ya validó el valor.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL inválido %q", s)
	}
	return lvl, nil
}

func compact(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
