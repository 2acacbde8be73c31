package voidlight

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

func newTemplatesCmd(opts *options) *cobra.Command {
	templates := &cobra.Command{Use: "templates", Short: "Bundled campaign templates"}

	templates.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range cat.Templates() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Description)
			}
			return w.Flush()
		},
	})

	templates.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show the rosters of one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			t, err := cat.Template(args[0])
			if err != nil {
				return opts.userError(err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(t.Name))
			if t.Description != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render(t.Description))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), summarize(t.Document))
			return nil
		},
	})
	return templates
}

func newBestiaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bestiary [filter]",
		Short: "Search the bestiary, e.g. 'tier >= 3 AND hp > 5'",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			entries, err := cat.SearchMonsters(query)
			if err != nil {
				return opts.userError(err)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no monsters")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TIER\tNAME\tTYPE\tHP\tEVASION")
			for _, e := range entries {
				m := e.Monster
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", e.Tier, m.Name, m.Type, m.MaxHP, m.Evasion)
			}
			return w.Flush()
		},
	}
}

// summarize renders roster, scene and clock counts of doc.
func summarize(doc domain.Document) string {
	lines := []string{
		field("session", doc.SessionName),
		field("fear", fmt.Sprintf("%d/%d", doc.FearTokens, domain.MaxFear)),
	}
	for _, k := range domain.Kinds {
		roster := doc.Roster(k)
		names := make([]string, len(roster))
		for i, c := range roster {
			names[i] = c.Name
		}
		lines = append(lines, field(string(k)+"s", fmt.Sprintf("%d %s", len(roster), strings.Join(names, ", "))))
	}
	lines = append(lines,
		field("scenes", len(doc.Scenes)),
		field("clocks", len(doc.Clocks)),
	)
	return strings.Join(lines, "\n")
}
