package voidlight

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/louisbranch/voidlight/internal/core/dice"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

func newRollCmd() *cobra.Command {
	roll := &cobra.Command{Use: "roll", Short: "Roll dice"}

	var modifier, difficulty int
	var advantage, disadvantage bool
	mode := func() domain.AdvantageMode {
		switch {
		case advantage && !disadvantage:
			return domain.AdvantageAdvantage
		case disadvantage && !advantage:
			return domain.AdvantageDisadvantage
		default:
			return domain.AdvantageNormal
		}
	}

	duality := &cobra.Command{
		Use:   "duality",
		Short: "Roll the hope and fear d12s against a difficulty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource()
			if err != nil {
				return err
			}
			r := domain.RollDuality(src, modifier, mode(), difficulty)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderDuality(r))
			return nil
		},
	}
	duality.Flags().IntVar(&modifier, "modifier", 0, "flat modifier")
	duality.Flags().IntVar(&difficulty, "difficulty", 10, "difficulty to beat")
	duality.Flags().BoolVar(&advantage, "advantage", false, "add a d6")
	duality.Flags().BoolVar(&disadvantage, "disadvantage", false, "subtract a d6")

	d20 := &cobra.Command{
		Use:   "d20",
		Short: "Roll a d20 check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource()
			if err != nil {
				return err
			}
			r := domain.RollD20(src, modifier, mode())
			line := field("d20", joinInts(r.Rolls)) + "  " + field("kept", r.Roll) + "  " + field("total", hotStyle.Render(fmt.Sprint(r.Total)))
			switch {
			case r.Nat20():
				line += "  " + hopeStyle.Render("natural 20")
			case r.Nat1():
				line += "  " + fearStyle.Render("natural 1")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	d20.Flags().IntVar(&modifier, "modifier", 0, "flat modifier")
	d20.Flags().BoolVar(&advantage, "advantage", false, "keep the higher of two")
	d20.Flags().BoolVar(&disadvantage, "disadvantage", false, "keep the lower of two")

	damage := &cobra.Command{
		Use:   "damage <dice>",
		Short: "Roll damage such as 2d6+1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := dice.ParseExpression(args[0])
			if err != nil {
				return err
			}
			src, err := newSource()
			if err != nil {
				return err
			}
			r, err := domain.RollDamage(src, expr, modifier)
			if err != nil {
				return err
			}
			line := field(r.Dice, joinInts(r.Rolls)) + "  " + field("modifier", fmt.Sprintf("%+d", r.Modifier)) + "  " + field("total", hotStyle.Render(fmt.Sprint(r.Total)))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	damage.Flags().IntVar(&modifier, "modifier", 0, "added to the expression's own modifier")

	var seed int64
	pool := &cobra.Command{
		Use:   "pool <dice>...",
		Short: "Roll several dice groups such as 2d6 1d8 together",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := make([]dice.Spec, 0, len(args))
			bonus := 0
			for _, arg := range args {
				expr, err := dice.ParseExpression(arg)
				if err != nil {
					return err
				}
				specs = append(specs, expr.Spec())
				bonus += expr.Modifier
			}
			var (
				r   dice.Result
				err error
			)
			if cmd.Flags().Changed("seed") {
				r, err = dice.RollDice(dice.Request{Dice: specs, Seed: seed})
			} else {
				var src dice.Source
				if src, err = newSource(); err != nil {
					return err
				}
				r, err = dice.RollWithSource(src, specs)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderPool(r, bonus))
			return nil
		},
	}
	pool.Flags().Int64Var(&seed, "seed", 0, "seed for a repeatable roll")

	roll.AddCommand(duality, d20, damage, pool)
	return roll
}

func renderPool(r dice.Result, bonus int) string {
	lines := make([]string, 0, len(r.Rolls)+1)
	for _, roll := range r.Rolls {
		lines = append(lines, field(fmt.Sprintf("%dd%d", len(roll.Results), roll.Sides), joinInts(roll.Results)))
	}
	total := field("total", hotStyle.Render(fmt.Sprint(r.Total+bonus)))
	if bonus != 0 {
		total = field("modifier", fmt.Sprintf("%+d", bonus)) + "  " + total
	}
	return strings.Join(append(lines, total), "\n")
}

func renderDuality(r domain.DualityResult) string {
	faces := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(labelStyle.Render("Hope")+"\n"+hopeStyle.Render(fmt.Sprint(r.Hope))),
		cardStyle.Render(labelStyle.Render("Fear")+"\n"+fearStyle.Render(fmt.Sprint(r.Fear))),
	)
	lines := []string{faces}
	if r.AdvDie != 0 {
		lines = append(lines, field("d6", fmt.Sprintf("%+d", r.AdvDie)))
	}
	lines = append(lines,
		field("total", fmt.Sprintf("%d vs %d", r.Total, r.Difficulty)),
		titleStyle.Render(r.Outcome.String()),
	)
	return strings.Join(lines, "\n")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

func toText(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
