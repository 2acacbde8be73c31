package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/voidlight/internal/services/table/domain"
	"github.com/louisbranch/voidlight/internal/services/table/storage"
)

// gatedStore holds its first SaveSlot call until release is closed.
type gatedStore struct {
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	calls  int
	writes [][]byte
}

func newGatedStore() *gatedStore {
	return &gatedStore{entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedStore) SaveSlot(_ context.Context, name, sessionName string, document []byte) (storage.Slot, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()
	if first {
		close(s.entered)
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, document)
	return storage.Slot{Name: name, SessionName: sessionName, Document: document}, nil
}

func (s *gatedStore) GetSlot(context.Context, string) (storage.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.writes) == 0 {
		return storage.Slot{}, errors.New("empty")
	}
	return storage.Slot{Document: s.writes[len(s.writes)-1]}, nil
}

func (s *gatedStore) ListSlots(context.Context) ([]storage.SlotSummary, error) { return nil, nil }

func (s *gatedStore) DeleteSlot(context.Context, string) error { return nil }

func (s *gatedStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func fearIn(t *testing.T, doc []byte) int {
	t.Helper()
	var saved struct {
		FearTokens int `json:"fearTokens"`
	}
	if err := json.Unmarshal(doc, &saved); err != nil {
		t.Fatalf("decode autosave: %v", err)
	}
	return saved.FearTokens
}

func TestAutosaveKeepsNewestState(t *testing.T) {
	store := newGatedStore()
	c := newTestController(t, nil, WithStore(store), WithAutosave("autosave"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := c.Dispatch(context.Background(), Action{Type: "fear.adjust", Delta: 1}); err != nil {
			t.Errorf("first dispatch: %v", err)
		}
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		if _, err := c.Dispatch(context.Background(), Action{Type: "fear.adjust", Delta: 1}); err != nil {
			t.Errorf("second dispatch: %v", err)
		}
	}()
	// The session stays usable while the first write is held.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, version := c.View(domain.KeeperView); version == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("second action did not apply while a save was in flight")
		}
		time.Sleep(time.Millisecond)
	}
	close(store.release)
	wg.Wait()

	slot, err := store.GetSlot(context.Background(), "autosave")
	if err != nil {
		t.Fatalf("get autosave: %v", err)
	}
	if fear := fearIn(t, slot.Document); fear != 2 {
		t.Fatalf("autosaved fear = %d, want 2", fear)
	}
}

func TestAutosaveSkipsOlderVersion(t *testing.T) {
	store := newGatedStore()
	close(store.release)
	c := newTestController(t, nil, WithStore(store), WithAutosave("autosave"))
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 3})
	mustDispatch(t, c, Action{Type: "fear.adjust", Delta: 1})

	c.autosave(context.Background(), "autosave", "", []byte(`{"fearTokens":3}`), 1)
	if got := store.count(); got != 2 {
		t.Fatalf("writes = %d, want 2", got)
	}
	slot, _ := store.GetSlot(context.Background(), "autosave")
	if fear := fearIn(t, slot.Document); fear != 4 {
		t.Fatalf("autosaved fear = %d, want 4", fear)
	}
}

func TestPanickingActionReleasesSession(t *testing.T) {
	c := newTestController(t, nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		_, _ = c.apply(context.Background(), "broken", true, func(*domain.Session) (any, error) {
			panic("boom")
		})
	}()

	done := make(chan error, 1)
	go func() {
		_, err := c.Dispatch(context.Background(), Action{Type: "fear.adjust", Delta: 1})
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("dispatch after panic: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session lock still held after panic")
	}
	if view, _ := c.View(domain.KeeperView); view.Fear != 1 {
		t.Fatalf("fear = %d, want 1", view.Fear)
	}
}
