package voidlight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/louisbranch/voidlight/internal/services/table/domain"
	"github.com/louisbranch/voidlight/internal/services/table/storage/sqlite"
)

func newSlotsCmd(opts *options) *cobra.Command {
	slots := &cobra.Command{Use: "slots", Short: "Manage save slots"}

	withStore := func(ctx context.Context, fn func(*sqlite.Store) error) error {
		if ctx == nil {
			ctx = context.Background()
		}
		store, err := sqlite.Open(ctx, opts.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(store)
	}

	slots.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(store *sqlite.Store) error {
				list, err := store.ListSlots(cmd.Context())
				if err != nil {
					return opts.userError(err)
				}
				if len(list) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no slots")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "SLOT\tSESSION\tBYTES\tUPDATED")
				for _, s := range list {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Name, s.SessionName, s.Size, s.UpdatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	})

	slots.AddCommand(&cobra.Command{
		Use:   "save <slot> <file>",
		Short: "Store a save file in a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			doc, err := convertDocument(data, domain.FullSave)
			if err != nil {
				return opts.userError(err)
			}
			parsed, err := domain.ParseDocument(doc)
			if err != nil {
				return opts.userError(err)
			}
			return withStore(cmd.Context(), func(store *sqlite.Store) error {
				slot, err := store.SaveSlot(cmd.Context(), args[0], parsed.SessionName, doc)
				if err != nil {
					return opts.userError(err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", slot.Name, slot.ID)
				return nil
			})
		},
	})

	var output string
	load := &cobra.Command{
		Use:   "load <slot>",
		Short: "Write the document stored in a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store *sqlite.Store) error {
				slot, err := store.GetSlot(cmd.Context(), args[0])
				if err != nil {
					return opts.userError(err)
				}
				path := output
				if path == "" {
					path = domain.FileName(slot.SessionName, slot.UpdatedAt)
				}
				if path == "-" {
					_, err = cmd.OutOrStdout().Write(slot.Document)
					return err
				}
				if err := os.WriteFile(path, slot.Document, 0o644); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			})
		},
	}
	load.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <session>_<date>.json)")
	slots.AddCommand(load)

	slots.AddCommand(&cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store *sqlite.Store) error {
				if err := store.DeleteSlot(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
					return opts.userError(err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})
	return slots
}
