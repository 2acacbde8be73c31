package domain

import (
	"strconv"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
)

// Clocks returns a copy of the clock list.
func (s *Session) Clocks() []Clock {
	return append([]Clock{}, s.doc.Clocks...)
}

func (s *Session) clock(id ID) (*Clock, error) {
	for i := range s.doc.Clocks {
		if s.doc.Clocks[i].ID == id {
			return &s.doc.Clocks[i], nil
		}
	}
	return nil, clockNotFound(id)
}

// AddClock creates an empty clock.
func (s *Session) AddClock(name string, segments int, hidden bool) (Clock, error) {
	name, err := requireName(name)
	if err != nil {
		return Clock{}, err
	}
	if segments < 1 {
		return Clock{}, apperrors.WithMetadata(apperrors.CodeInvalidSegments, "segments must be positive", map[string]string{
			"Segments": strconv.Itoa(segments),
		})
	}
	ids := make([]ID, len(s.doc.Clocks))
	for i, c := range s.doc.Clocks {
		ids[i] = c.ID
	}
	c := Clock{ID: nextID(ids), Name: name, Segments: segments, Hidden: hidden}
	s.doc.Clocks = append(s.doc.Clocks, c)
	return c, nil
}

// AdjustClock ticks a clock by delta, clamped to its segments.
func (s *Session) AdjustClock(id ID, delta int) (Clock, error) {
	c, err := s.clock(id)
	if err != nil {
		return Clock{}, err
	}
	c.Adjust(delta)
	return *c, nil
}

// ResetClock empties a clock.
func (s *Session) ResetClock(id ID) error {
	c, err := s.clock(id)
	if err != nil {
		return err
	}
	c.Reset()
	return nil
}

// ToggleClockHidden flips whether players see a clock.
func (s *Session) ToggleClockHidden(id ID) error {
	c, err := s.clock(id)
	if err != nil {
		return err
	}
	c.Hidden = !c.Hidden
	return nil
}

// DeleteClock removes a clock.
func (s *Session) DeleteClock(id ID) error {
	for i, c := range s.doc.Clocks {
		if c.ID == id {
			s.doc.Clocks = append(s.doc.Clocks[:i:i], s.doc.Clocks[i+1:]...)
			return nil
		}
	}
	return clockNotFound(id)
}
