package id

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func decodeID(t *testing.T, id string) []byte {
	t.Helper()
	decoded, err := encoding.DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if len(decoded) != 16 {
		t.Fatalf("expected 16 decoded bytes, got %d", len(decoded))
	}
	return decoded
}

func TestNewIDFormat(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if strings.Contains(id, "=") {
		t.Fatal("expected no padding")
	}
	if len(id) != 26 {
		t.Fatalf("expected 26-character id, got %d", len(id))
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			t.Fatalf("unexpected character %q in id", r)
		}
	}
	decodeID(t, id)
}

func TestNewIDIsVersion4(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	decoded := decodeID(t, id)
	parsed, err := uuid.FromBytes(decoded)
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected version 4, got %d", parsed.Version())
	}
	if parsed.Variant() != uuid.RFC4122 {
		t.Fatalf("expected RFC4122 variant, got %v", parsed.Variant())
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDError(t *testing.T) {
	orig := newRandom
	newRandom = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }
	t.Cleanup(func() { newRandom = orig })

	if _, err := NewID(); err == nil || !strings.Contains(err.Error(), "entropy exhausted") {
		t.Fatalf("expected wrapped entropy error, got %v", err)
	}
}
