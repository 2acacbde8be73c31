package catalog

import (
	"io/fs"
	"strings"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Moves are the keeper moves grouped by severity.
type Moves struct {
	Soft        []domain.Move `yaml:"soft"`
	Hard        []domain.Move `yaml:"hard"`
	Devastating []domain.Move `yaml:"devastating"`
}

// All lists every move, soft first.
func (m Moves) All() []domain.Move {
	out := make([]domain.Move, 0, len(m.Soft)+len(m.Hard)+len(m.Devastating))
	out = append(out, m.Soft...)
	out = append(out, m.Hard...)
	return append(out, m.Devastating...)
}

func loadMoves(fsys fs.FS) (Moves, error) {
	var m Moves
	if err := readYAML(fsys, "moves.yaml", &m); err != nil {
		return Moves{}, err
	}
	tag := func(moves []domain.Move, sev domain.MoveSeverity) {
		for i := range moves {
			moves[i].Severity = sev
			if sev == domain.MoveSoft {
				moves[i].Cost = 0
			}
		}
	}
	tag(m.Soft, domain.MoveSoft)
	tag(m.Hard, domain.MoveHard)
	tag(m.Devastating, domain.MoveDevastating)
	return m, nil
}

// Moves returns the keeper moves.
func (c *Catalog) Moves() Moves {
	return Moves{
		Soft:        append([]domain.Move(nil), c.moves.Soft...),
		Hard:        append([]domain.Move(nil), c.moves.Hard...),
		Devastating: append([]domain.Move(nil), c.moves.Devastating...),
	}
}

// Move finds a keeper move by name, ignoring case.
func (c *Catalog) Move(name string) (domain.Move, error) {
	all := c.moves.All()
	names := make([]string, len(all))
	for i, m := range all {
		if strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			return m, nil
		}
		names[i] = m.Name
	}
	return domain.Move{}, apperrors.WithMetadata(apperrors.CodeMoveNotFound, "move not found", map[string]string{
		"Name":       name,
		"Suggestion": Suggest(name, names),
	})
}
