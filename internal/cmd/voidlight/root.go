// Package voidlight builds the keeper's command-line companion: dice,
// catalog lookups, save files and save slots without running a server.
package voidlight

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/louisbranch/voidlight/internal/core/dice"
	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/platform/errors/i18n"
)

// newSource seeds the dice of one command.
var newSource = func() (dice.Source, error) {
	return dice.NewSource()
}

// NewRootCmd returns the voidlight command tree.
func NewRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "voidlight",
		Short:         "VoidLight keeper's companion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.locale, "lang", i18n.BaseLocale, "locale of error messages")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "data/voidlight.db", "save slot database path")

	root.AddCommand(newRollCmd())
	root.AddCommand(newTemplatesCmd(&opts))
	root.AddCommand(newBestiaryCmd(&opts))
	root.AddCommand(newSaveCmd(&opts))
	root.AddCommand(newSlotsCmd(&opts))
	return root
}

// options are the persistent flags shared by subcommands.
type options struct {
	locale string
	dbPath string
}

// userError replaces a coded error with its localized message.
func (o *options) userError(err error) error {
	if err == nil || apperrors.CodeOf(err) == apperrors.CodeUnknown {
		return err
	}
	return errors.New(apperrors.UserMessage(err, i18n.Match(o.locale)))
}
