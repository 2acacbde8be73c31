// Package cmd holds the shared startup path of the voidlight binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/voidlight/internal/platform/config"
	"github.com/louisbranch/voidlight/internal/platform/otel"
	"github.com/louisbranch/voidlight/internal/platform/timeouts"
)

// Service names used for telemetry and log prefixes.
const (
	ServiceTable    = "table"
	ServiceMCP      = "mcp"
	ServiceScenario = "scenario"
)

// LogPrefix is the standard log prefix of service, e.g. "[TABLE] ".
func LogPrefix(service string) string {
	return "[" + strings.ToUpper(strings.TrimSpace(service)) + "] "
}

// ParseConfig loads the optional dotenv file and then environment defaults
// into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := config.LoadDotEnv(config.EnvFilePath()); err != nil {
		return err
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

type runSettings struct {
	shutdownTimeout time.Duration
}

// RunOption tunes RunWithTelemetry.
type RunOption func(*runSettings)

// WithShutdownTimeout bounds the telemetry flush after run returns.
func WithShutdownTimeout(d time.Duration) RunOption {
	return func(s *runSettings) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// RunWithTelemetry installs tracing for service, executes run and flushes
// the exporter once run returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error, opts ...RunOption) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	settings := runSettings{shutdownTimeout: timeouts.Shutdown}
	for _, opt := range opts {
		opt(&settings)
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
