// Package mcp parses MCP command flags and serves the table over stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	entrypoint "github.com/louisbranch/voidlight/internal/platform/cmd"
	"github.com/louisbranch/voidlight/internal/services/table/app"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
	tablemcp "github.com/louisbranch/voidlight/internal/services/table/mcp"
	"github.com/louisbranch/voidlight/internal/services/table/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath   string `env:"VOIDLIGHT_MCP_DB_PATH"`
	Slot     string `env:"VOIDLIGHT_MCP_SLOT"`
	Template string `env:"VOIDLIGHT_MCP_TEMPLATE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "save slot database path (empty disables slots)")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "slot autosaved after every change")
	fs.StringVar(&cfg.Template, "template", cfg.Template, "template the session starts from")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		server, cleanup, err := newServer(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		return server.Run(ctx, &mcp.StdioTransport{})
	})
}

func newServer(ctx context.Context, cfg Config) (*tablemcp.Server, func(), error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	session, err := domain.NewSession()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var opts []app.ControllerOption
	if path := strings.TrimSpace(cfg.DBPath); path != "" {
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open slot store: %w", err)
		}
		cleanup = func() { _ = store.Close() }
		opts = append(opts, app.WithStore(store), app.WithAutosave(cfg.Slot))
	}
	controller, err := app.NewController(session, cat, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if strings.TrimSpace(cfg.Template) != "" {
		if _, err := controller.Dispatch(ctx, app.Action{Type: "session.template", Template: cfg.Template}); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("apply template %s: %w", cfg.Template, err)
		}
	}
	server, err := tablemcp.New(controller)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return server, func() {
		server.Close()
		cleanup()
	}, nil
}
