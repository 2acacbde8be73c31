package domain

import (
	"testing"
	"time"

	"github.com/louisbranch/voidlight/internal/core/dice"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func newTestSession(t *testing.T, faces ...int) (*Session, *dice.Scripted) {
	t.Helper()
	src := dice.NewScripted(faces...)
	s, err := NewSession(WithSource(src), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, src
}

func mustAdd(t *testing.T, s *Session, k Kind, name string) Character {
	t.Helper()
	in := DefaultCharacterInput()
	in.Name = name
	c, err := s.AddCharacter(k, in)
	if err != nil {
		t.Fatalf("add %s %q: %v", k, name, err)
	}
	return c
}

func mustAlly(t *testing.T, s *Session, name string) Character {
	t.Helper()
	in := DefaultCharacterInput()
	in.Name = name
	in.IsAlly = true
	c, err := s.AddCharacter(KindNPC, in)
	if err != nil {
		t.Fatalf("add ally %q: %v", name, err)
	}
	return c
}
