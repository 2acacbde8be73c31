package domain

// MaxFear is the ceiling of the keeper's Fear pool.
const MaxFear = 12

// Fear is the keeper's current Fear.
func (s *Session) Fear() int {
	return s.doc.FearTokens
}

// SpendFear removes n Fear. It reports false and changes nothing when the
// pool holds fewer than n or n is negative.
func (s *Session) SpendFear(n int) bool {
	if n < 0 || s.doc.FearTokens < n {
		return false
	}
	s.doc.FearTokens -= n
	return true
}

// AdjustFear adds delta and clamps to [0, MaxFear].
func (s *Session) AdjustFear(delta int) {
	s.doc.FearTokens = clamp(s.doc.FearTokens+delta, 0, MaxFear)
}

// AdjustHope adds delta to a character's Hope, clamped to its role cap.
func (s *Session) AdjustHope(k Kind, id ID, delta int) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	role := RoleOf(k, *c)
	if !role.HasHope() {
		return invalidAction(role.String() + " has no hope")
	}
	c.Hope = clamp(c.Hope+delta, 0, role.HopeCap())
	return nil
}

// gainHope gives the spotlight one Hope when it is a player or an ally.
func (s *Session) gainHope() {
	focus, ok := s.Spotlight()
	if !ok {
		return
	}
	c, err := s.character(focus.Kind, focus.ID)
	if err != nil {
		return
	}
	role := RoleOf(focus.Kind, *c)
	if role.HasHope() {
		c.Hope = min(c.Hope+1, role.HopeCap())
	}
}

// Spotlight returns the focused character. A focus on a character that no
// longer exists reports false.
func (s *Session) Spotlight() (Focus, bool) {
	if s.spotlight == nil {
		return Focus{}, false
	}
	if _, err := s.character(s.spotlight.Kind, s.spotlight.ID); err != nil {
		return Focus{}, false
	}
	return *s.spotlight, true
}

// SetSpotlight moves the spotlight. Players take it for free, allies pay
// one of their own Hope and adversaries cost the keeper one Fear. When the
// cost cannot be paid the spotlight stays where it was.
func (s *Session) SetSpotlight(k Kind, id ID) error {
	c, err := s.character(k, id)
	if err != nil {
		return err
	}
	switch RoleOf(k, *c) {
	case RolePlayer:
	case RoleAlly:
		if c.Hope < 1 {
			return insufficientHope(c.Hope, 1)
		}
		c.Hope--
	default:
		if !s.SpendFear(1) {
			return insufficientFear(s.doc.FearTokens, 1)
		}
	}
	s.spotlight = &Focus{Kind: k, ID: id}
	return nil
}

// ClearSpotlight removes the focus.
func (s *Session) ClearSpotlight() {
	s.spotlight = nil
}
