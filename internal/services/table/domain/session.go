package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/voidlight/internal/core/dice"
)

// Session is the aggregate root of one table.
type Session struct {
	doc       Document
	spotlight *Focus
	baseline  Document
	src       dice.Source
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithSource sets the random source every roll draws from.
func WithSource(src dice.Source) Option {
	return func(s *Session) {
		s.src = src
	}
}

// WithClock sets the clock used for roll and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession returns a blank session whose reset baseline is also blank.
// Without WithSource the dice are seeded from crypto/rand.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		src, err := dice.NewSource()
		if err != nil {
			return nil, fmt.Errorf("seed dice: %w", err)
		}
		s.src = src
	}
	s.ResetTo(BlankDocument())
	return s, nil
}

// Load parses data and replaces the session with it. A decode failure
// leaves the session unchanged.
func (s *Session) Load(data []byte) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	s.LoadDocument(doc)
	return nil
}

// LoadDocument replaces every field of the session with doc and clears the
// spotlight. The reset baseline is kept.
func (s *Session) LoadDocument(doc Document) {
	s.doc = doc.Normalize()
	s.spotlight = nil
}

// ResetTo loads doc and remembers it as the reset baseline.
func (s *Session) ResetTo(doc Document) {
	s.LoadDocument(doc)
	s.baseline = s.doc.Clone()
}

// Reset reloads the baseline.
func (s *Session) Reset() {
	s.LoadDocument(s.baseline)
}

// Baseline returns a copy of the document Reset reloads.
func (s *Session) Baseline() Document {
	return s.baseline.Clone()
}

// Document returns a deep copy of the live state without snapshot metadata.
func (s *Session) Document() Document {
	return s.doc.Clone()
}

// Snapshot returns a deep copy stamped for purpose.
func (s *Session) Snapshot(purpose Purpose) Document {
	doc := s.doc.Clone()
	stamp := s.now().UTC().Format(time.RFC3339)
	switch purpose {
	case FullSave:
		doc.Version = DocumentVersion
		doc.Timestamp = stamp
		doc.SpotlightFocus = json.RawMessage("null")
		if focus, ok := s.Spotlight(); ok {
			raw, err := json.Marshal(focus)
			if err == nil {
				doc.SpotlightFocus = raw
			}
		}
	default:
		doc.DiceRoller.Results = nil
		doc.DiceRoller.RollHistory = []RollRecord{}
		doc.SavedAt = stamp
	}
	return doc
}

// FileName is the download name for a save taken now.
func (s *Session) FileName() string {
	return FileName(s.doc.SessionName, s.now())
}

// Name is the session name.
func (s *Session) Name() string {
	return s.doc.SessionName
}

// Rename sets the session name.
func (s *Session) Rename(name string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	s.doc.SessionName = name
	return nil
}

// SetNotes replaces the session notes.
func (s *Session) SetNotes(notes string) {
	s.doc.Notes = notes
}

// ClearNotes empties the session notes.
func (s *Session) ClearNotes() {
	s.doc.Notes = ""
}

func (s *Session) stamp() string {
	return s.now().Format("15:04:05")
}
