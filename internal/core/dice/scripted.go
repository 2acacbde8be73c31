package dice

// Scripted replays fixed die faces. A face outside [1, n] is clamped to the
// die; once the script runs out every draw is a 1.
type Scripted struct {
	faces []int
	next  int
}

// NewScripted returns a source that yields faces in order.
func NewScripted(faces ...int) *Scripted {
	return &Scripted{faces: append([]int(nil), faces...)}
}

// Intn implements Source.
func (s *Scripted) Intn(n int) int {
	if s.next >= len(s.faces) {
		return 0
	}
	face := s.faces[s.next]
	s.next++
	switch {
	case face < 1:
		return 0
	case face > n:
		return n - 1
	default:
		return face - 1
	}
}

// Push appends more faces to the script.
func (s *Scripted) Push(faces ...int) {
	s.faces = append(s.faces, faces...)
}

// Remaining reports how many scripted faces are unused.
func (s *Scripted) Remaining() int {
	return len(s.faces) - s.next
}
