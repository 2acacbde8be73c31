package mcp

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/louisbranch/voidlight/internal/platform/config"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv(config.EnvFileVar, filepath.Join(t.TempDir(), "none.env"))
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "" || cfg.Slot != "" || cfg.Template != "" {
		t.Fatalf("expected empty defaults, got %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv(config.EnvFileVar, filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("VOIDLIGHT_MCP_DB_PATH", "env.db")
	t.Setenv("VOIDLIGHT_MCP_TEMPLATE", "env-template")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-template", "blank", "-slot", "agent"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.Template != "blank" {
		t.Fatalf("expected flag template, got %q", cfg.Template)
	}
	if cfg.Slot != "agent" {
		t.Fatalf("expected flag slot, got %q", cfg.Slot)
	}
}

func TestNewServer(t *testing.T) {
	ctx := context.Background()
	server, cleanup, err := newServer(ctx, Config{
		DBPath:   filepath.Join(t.TempDir(), "mcp.db"),
		Slot:     "agent",
		Template: "hearts_in_the_void",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer cleanup()
	if server == nil {
		t.Fatal("expected server")
	}

	if _, _, err := newServer(ctx, Config{Template: "missing"}); err == nil {
		t.Fatal("expected unknown template error")
	}
}
