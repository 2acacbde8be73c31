package domain

import (
	"github.com/louisbranch/voidlight/internal/core/dice"
)

// DiceRoller returns a copy of the roller panel state.
func (s *Session) DiceRoller() DiceRoller {
	return s.doc.DiceRoller.clone()
}

// SetDifficulty sets the duality difficulty, never below one.
func (s *Session) SetDifficulty(difficulty int) {
	s.doc.DiceRoller.Difficulty = max(difficulty, 1)
}

// AdjustModifier changes the roller modifier by delta.
func (s *Session) AdjustModifier(delta int) {
	s.doc.DiceRoller.Modifier += delta
}

// ToggleAdvantage switches to mode, or back to normal when mode is already
// active.
func (s *Session) ToggleAdvantage(mode AdvantageMode) {
	mode = ParseAdvantageMode(string(mode))
	if s.doc.DiceRoller.Advantage == mode {
		s.doc.DiceRoller.Advantage = AdvantageNormal
		return
	}
	s.doc.DiceRoller.Advantage = mode
}

// RollDuality rolls the hope and fear dice with the roller settings. Fear
// outcomes give the keeper one Fear; Hope outcomes give the spotlight one
// Hope when it is a player or an ally.
func (s *Session) RollDuality() RollRecord {
	dr := s.doc.DiceRoller
	result := RollDuality(s.src, dr.Modifier, dr.Advantage, dr.Difficulty)
	if result.Outcome.GainsFear() {
		s.AdjustFear(1)
	}
	if result.Outcome.GainsHope() {
		s.gainHope()
	}
	record := dualityRecord(result, s.stamp())
	s.doc.DiceRoller.push(record)
	return record.clone()
}

// RollD20 rolls a d20 check with the roller settings.
func (s *Session) RollD20() RollRecord {
	dr := s.doc.DiceRoller
	record := d20Record(RollD20(s.src, dr.Modifier, dr.Advantage), s.stamp())
	s.doc.DiceRoller.push(record)
	return record.clone()
}

// RollDamage rolls expr plus the roller modifier.
func (s *Session) RollDamage(expr dice.Expression) (RollRecord, error) {
	roll, err := RollDamage(s.src, expr, s.doc.DiceRoller.Modifier)
	if err != nil {
		return RollRecord{}, err
	}
	record := damageRecord(roll, s.stamp())
	s.doc.DiceRoller.push(record)
	return record.clone(), nil
}
