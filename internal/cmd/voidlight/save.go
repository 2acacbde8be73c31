package voidlight

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

func newSaveCmd(opts *options) *cobra.Command {
	save := &cobra.Command{Use: "save", Short: "Inspect and convert save files"}

	save.AddCommand(&cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return opts.userError(err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), summarize(doc))
			return nil
		},
	})

	var output, format string
	convert := &cobra.Command{
		Use:   "convert <file>",
		Short: "Rewrite a save, including legacy ones, as a current full or quick save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			purpose, err := parsePurpose(format)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := convertDocument(data, purpose)
			if err != nil {
				return opts.userError(err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	convert.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	convert.Flags().StringVar(&format, "format", "full", "full or quick")
	save.AddCommand(convert)
	return save
}

func parsePurpose(format string) (domain.Purpose, error) {
	switch format {
	case "full":
		return domain.FullSave, nil
	case "quick":
		return domain.QuickSave, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want full or quick)", format)
	}
}

func readDocument(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.ParseDocument(data)
}

// convertDocument loads data into a session, which migrates legacy fields,
// and snapshots it for purpose.
func convertDocument(data []byte, purpose domain.Purpose) ([]byte, error) {
	session, err := domain.NewSession()
	if err != nil {
		return nil, err
	}
	if err := session.Load(data); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(session.Snapshot(purpose), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
