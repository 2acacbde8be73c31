package domain

// MoveSeverity groups keeper moves by how hard they hit.
type MoveSeverity string

const (
	MoveSoft        MoveSeverity = "soft"
	MoveHard        MoveSeverity = "hard"
	MoveDevastating MoveSeverity = "devastating"
)

// Move is a keeper move.
type Move struct {
	Name     string       `json:"name" yaml:"name"`
	Severity MoveSeverity `json:"severity" yaml:"-"`
	Cost     int          `json:"cost,omitempty" yaml:"cost"`
	Desc     string       `json:"desc" yaml:"desc"`
}

// ExecuteMove pays for a keeper move. Soft moves are free; other moves
// spend their cost in Fear or fail without changing anything.
func (s *Session) ExecuteMove(m Move) error {
	if m.Severity == MoveSoft || m.Cost <= 0 {
		return nil
	}
	if !s.SpendFear(m.Cost) {
		return insufficientFear(s.doc.FearTokens, m.Cost)
	}
	return nil
}
