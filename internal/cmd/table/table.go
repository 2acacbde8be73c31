// Package table parses table command flags and serves the keeper's table.
package table

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	entrypoint "github.com/louisbranch/voidlight/internal/platform/cmd"
	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/app"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
	"github.com/louisbranch/voidlight/internal/services/table/storage/sqlite"
)

// Config holds table command configuration.
type Config struct {
	HTTPAddr   string `env:"VOIDLIGHT_TABLE_HTTP_ADDR"   envDefault:"localhost:8090"`
	PublicURL  string `env:"VOIDLIGHT_TABLE_PUBLIC_URL"`
	ViewSecret string `env:"VOIDLIGHT_TABLE_VIEW_SECRET"`
	OpenKeeper bool   `env:"VOIDLIGHT_TABLE_OPEN_KEEPER"  envDefault:"true"`
	DBPath     string `env:"VOIDLIGHT_TABLE_DB_PATH"      envDefault:"data/voidlight.db"`
	Slot       string `env:"VOIDLIGHT_TABLE_SLOT"         envDefault:"autosave"`
	Template   string `env:"VOIDLIGHT_TABLE_TEMPLATE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "table HTTP listen address")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "base URL used in shared view links")
	fs.StringVar(&cfg.ViewSecret, "view-secret", cfg.ViewSecret, "HMAC secret signing view links")
	fs.BoolVar(&cfg.OpenKeeper, "open-keeper", cfg.OpenKeeper, "serve the keeper view without a token")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "save slot database path (empty disables slots)")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "slot loaded at startup and autosaved after every change")
	fs.StringVar(&cfg.Template, "template", cfg.Template, "template to start from when the slot is empty")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the table and serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTable, func(ctx context.Context) error {
		controller, cleanup, err := buildController(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		server, err := app.NewServer(app.Config{
			HTTPAddr:   cfg.HTTPAddr,
			PublicURL:  cfg.PublicURL,
			ViewSecret: cfg.ViewSecret,
			OpenKeeper: cfg.OpenKeeper,
		}, controller)
		if err != nil {
			return fmt.Errorf("build table server: %w", err)
		}
		defer server.Close()

		if strings.TrimSpace(cfg.ViewSecret) != "" {
			links, err := server.ViewLinks()
			if err != nil {
				return fmt.Errorf("issue view links: %w", err)
			}
			log.Printf("keeper view: %s", links.Keeper)
			log.Printf("player view: %s", links.Player)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve table: %w", err)
		}
		return nil
	})
}

// buildController opens the slot store, restores the autosave slot and
// falls back to cfg.Template when there is nothing to restore.
func buildController(ctx context.Context, cfg Config) (*app.Controller, func(), error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	session, err := domain.NewSession()
	if err != nil {
		return nil, nil, fmt.Errorf("new session: %w", err)
	}

	cleanup := func() {}
	var opts []app.ControllerOption
	path := strings.TrimSpace(cfg.DBPath)
	if path != "" {
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open slot store: %w", err)
		}
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Printf("close slot store: %v", err)
			}
		}
		opts = append(opts, app.WithStore(store), app.WithAutosave(cfg.Slot))
	}

	controller, err := app.NewController(session, cat, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	restored := false
	if path != "" && strings.TrimSpace(cfg.Slot) != "" {
		_, err := controller.LoadSlot(ctx, cfg.Slot)
		switch {
		case err == nil:
			restored = true
			log.Printf("restored slot %s", cfg.Slot)
		case apperrors.CodeOf(err) == apperrors.CodeSaveNotFound:
		default:
			cleanup()
			return nil, nil, fmt.Errorf("restore slot %s: %w", cfg.Slot, err)
		}
	}
	if !restored && strings.TrimSpace(cfg.Template) != "" {
		if _, err := controller.Dispatch(ctx, app.Action{Type: "session.template", Template: cfg.Template}); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("apply template %s: %w", cfg.Template, err)
		}
	}
	return controller, cleanup, nil
}
