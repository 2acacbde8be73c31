package domain

import (
	"testing"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
)

func TestFearStaysInRange(t *testing.T) {
	s, _ := newTestSession(t)
	deltas := []int{5, 9, -3, 20, -40, 1, 12, -1}
	for _, d := range deltas {
		s.AdjustFear(d)
		if f := s.Fear(); f < 0 || f > MaxFear {
			t.Fatalf("after adjust %d fear = %d", d, f)
		}
		s.SpendFear(4)
		if f := s.Fear(); f < 0 || f > MaxFear {
			t.Fatalf("after spend fear = %d", f)
		}
	}
}

func TestSpendFear(t *testing.T) {
	s, _ := newTestSession(t)
	s.AdjustFear(3)

	if s.SpendFear(5) {
		t.Fatal("spend 5 of 3 should fail")
	}
	if s.Fear() != 3 {
		t.Fatalf("fear = %d, want 3", s.Fear())
	}
	if s.SpendFear(-1) {
		t.Fatal("negative spend should fail")
	}
	if !s.SpendFear(3) || s.Fear() != 0 {
		t.Fatalf("spend 3 of 3: fear = %d", s.Fear())
	}
}

func TestAdjustHopeCaps(t *testing.T) {
	s, _ := newTestSession(t)
	player := mustAdd(t, s, KindPlayer, "Marcus")
	ally := mustAlly(t, s, "Zara")
	foe := mustAdd(t, s, KindNPC, "Korren")

	tests := []struct {
		name  string
		kind  Kind
		id    ID
		delta int
		want  int
	}{
		{name: "player cap", kind: KindPlayer, id: player.ID, delta: 50, want: MaxPlayerHope},
		{name: "player floor", kind: KindPlayer, id: player.ID, delta: -50, want: 0},
		{name: "ally cap", kind: KindNPC, id: ally.ID, delta: 50, want: MaxAllyHope},
		{name: "ally floor", kind: KindNPC, id: ally.ID, delta: -50, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AdjustHope(tt.kind, tt.id, tt.delta); err != nil {
				t.Fatalf("adjust hope: %v", err)
			}
			c, _ := s.Character(tt.kind, tt.id)
			if c.Hope != tt.want {
				t.Fatalf("hope = %d, want %d", c.Hope, tt.want)
			}
		})
	}

	if err := s.AdjustHope(KindNPC, foe.ID, 1); apperrors.CodeOf(err) != apperrors.CodeInvalidAction {
		t.Fatalf("adversary hope err = %v", err)
	}
}

func TestSetSpotlight(t *testing.T) {
	t.Run("player is free", func(t *testing.T) {
		s, _ := newTestSession(t)
		p := mustAdd(t, s, KindPlayer, "Flash")
		if err := s.SetSpotlight(KindPlayer, p.ID); err != nil {
			t.Fatalf("spotlight: %v", err)
		}
		if focus, ok := s.Spotlight(); !ok || focus.ID != p.ID {
			t.Fatalf("spotlight = %+v, %v", focus, ok)
		}
	})

	t.Run("ally pays hope", func(t *testing.T) {
		s, _ := newTestSession(t)
		a := mustAlly(t, s, "Rook")
		if err := s.SetSpotlight(KindNPC, a.ID); err != nil {
			t.Fatalf("spotlight: %v", err)
		}
		c, _ := s.Character(KindNPC, a.ID)
		if c.Hope != StartingHope-1 {
			t.Fatalf("hope = %d, want %d", c.Hope, StartingHope-1)
		}
		_ = s.AdjustHope(KindNPC, a.ID, -10)
		s.ClearSpotlight()
		err := s.SetSpotlight(KindNPC, a.ID)
		if apperrors.CodeOf(err) != apperrors.CodeInsufficientHope {
			t.Fatalf("err = %v, want insufficient hope", err)
		}
		if _, ok := s.Spotlight(); ok {
			t.Fatal("spotlight should stay clear")
		}
	})

	t.Run("adversary costs fear", func(t *testing.T) {
		s, _ := newTestSession(t)
		p := mustAdd(t, s, KindPlayer, "Shadow")
		m := mustAdd(t, s, KindMonster, "Hunger Weaver")
		if err := s.SetSpotlight(KindPlayer, p.ID); err != nil {
			t.Fatalf("spotlight: %v", err)
		}

		err := s.SetSpotlight(KindMonster, m.ID)
		if apperrors.CodeOf(err) != apperrors.CodeInsufficientFear {
			t.Fatalf("err = %v, want insufficient fear", err)
		}
		if focus, _ := s.Spotlight(); focus.Kind != KindPlayer {
			t.Fatalf("spotlight moved to %+v", focus)
		}

		s.AdjustFear(1)
		if err := s.SetSpotlight(KindMonster, m.ID); err != nil {
			t.Fatalf("spotlight: %v", err)
		}
		if s.Fear() != 0 {
			t.Fatalf("fear = %d, want 0", s.Fear())
		}
	})

	t.Run("unknown character", func(t *testing.T) {
		s, _ := newTestSession(t)
		if err := s.SetSpotlight(KindPlayer, 42); apperrors.CodeOf(err) != apperrors.CodeCharacterNotFound {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestSpotlightOnDeletedCharacterIsAbsent(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustAdd(t, s, KindPlayer, "Whisper")
	if err := s.SetSpotlight(KindPlayer, p.ID); err != nil {
		t.Fatalf("spotlight: %v", err)
	}
	s.doc.Players = nil
	if _, ok := s.Spotlight(); ok {
		t.Fatal("dangling spotlight should resolve to absent")
	}
}
