// Package main is the voidlight command-line companion.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clicmd "github.com/louisbranch/voidlight/internal/cmd/voidlight"
	"github.com/louisbranch/voidlight/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := clicmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		config.Exitf("Error: %v", err)
	}
}
