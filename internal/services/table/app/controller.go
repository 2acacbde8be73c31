package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	platformotel "github.com/louisbranch/voidlight/internal/platform/otel"
	"github.com/louisbranch/voidlight/internal/platform/timeouts"
	"github.com/louisbranch/voidlight/internal/services/table/catalog"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
	"github.com/louisbranch/voidlight/internal/services/table/storage"
)

var tracer = platformotel.Tracer("table/app")

// Change is published after every action that mutated the session.
type Change struct {
	Version uint64
	Action  string
	Keeper  domain.View
	Player  domain.View
}

// Controller owns the one session every adapter acts on. Actions run under
// a mutex in dispatch order; autosave and change delivery run after it is
// released.
type Controller struct {
	mu      sync.Mutex
	session *domain.Session
	catalog *catalog.Catalog
	store   storage.SlotStore
	slot    string
	version uint64

	saveMu sync.Mutex
	saved  map[string]uint64

	subMu       sync.Mutex
	nextSub     int
	subscribers map[int]func(Change)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithStore enables save slots backed by store.
func WithStore(store storage.SlotStore) ControllerOption {
	return func(c *Controller) { c.store = store }
}

// WithAutosave sets the slot written after every mutating action.
func WithAutosave(slot string) ControllerOption {
	return func(c *Controller) { c.slot = strings.TrimSpace(slot) }
}

// NewController wraps session. The catalog serves templates, the bestiary,
// environments and keeper moves.
func NewController(session *domain.Session, cat *catalog.Catalog, opts ...ControllerOption) (*Controller, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	c := &Controller{
		session:     session,
		catalog:     cat,
		saved:       make(map[string]uint64),
		subscribers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Catalog returns the reference data the controller serves.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Subscribe registers fn for every change. The returned func unregisters it.
func (c *Controller) Subscribe(fn func(Change)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

// View projects the session for mode together with its version.
func (c *Controller) View(mode domain.Mode) (domain.View, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Project(mode), c.version
}

// Version counts the mutating actions applied so far.
func (c *Controller) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Result is the outcome of one dispatched action.
type Result struct {
	Action  string `json:"action"`
	Version uint64 `json:"version"`
	Value   any    `json:"value,omitempty"`
}

// Dispatch applies one action. A failed action leaves the session as it
// was and publishes nothing.
func (c *Controller) Dispatch(ctx context.Context, a Action) (res Result, err error) {
	ctx, span := tracer.Start(ctx, "table.action")
	span.SetAttributes(attribute.String("voidlight.action", a.Type))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if strings.HasPrefix(a.Type, "slot.") {
		return c.dispatchSlot(ctx, a)
	}
	h, ok := handlers[a.Type]
	if !ok {
		return Result{}, apperrors.WithMetadata(apperrors.CodeInvalidAction, "unknown action", map[string]string{
			"Reason": fmt.Sprintf("unknown action %q", a.Type),
		})
	}
	return c.apply(ctx, a.Type, h.mutates, func(s *domain.Session) (any, error) {
		return h.run(c.catalog, s, a)
	})
}

// apply runs fn under the session lock. When it mutates, the version is
// bumped and the change is saved and published after unlocking.
func (c *Controller) apply(ctx context.Context, action string, mutates bool, fn func(*domain.Session) (any, error)) (Result, error) {
	out, err := c.locked(mutates, fn)
	if err != nil {
		return Result{}, err
	}
	if !mutates {
		return Result{Action: action, Version: out.version, Value: out.value}, nil
	}
	if out.doc != nil {
		c.autosave(ctx, out.slot, out.name, out.doc, out.version)
	}
	c.publish(Change{
		Version: out.version,
		Action:  action,
		Keeper:  out.keeper,
		Player:  out.player,
	})
	return Result{Action: action, Version: out.version, Value: out.value}, nil
}

// applied is what one action leaves for work done outside the lock.
type applied struct {
	value   any
	version uint64
	keeper  domain.View
	player  domain.View
	slot    string
	name    string
	doc     []byte
}

// locked runs fn and captures the resulting change while holding the
// session lock. The lock is released even if fn panics.
func (c *Controller) locked(mutates bool, fn func(*domain.Session) (any, error)) (applied, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, err := fn(c.session)
	if err != nil {
		return applied{}, err
	}
	if !mutates {
		return applied{value: value, version: c.version}, nil
	}
	c.version++
	out := applied{
		value:   value,
		version: c.version,
		keeper:  c.session.Project(domain.KeeperView),
		player:  c.session.Project(domain.PlayerView),
		slot:    c.slot,
		name:    c.session.Name(),
	}
	if out.slot != "" && c.store != nil {
		doc, err := json.Marshal(c.session.Snapshot(domain.FullSave))
		if err != nil {
			log.Printf("autosave encode: %v", err)
		} else {
			out.doc = doc
		}
	}
	return out, nil
}

// autosave writes doc to slot unless a newer version already reached it.
// Writes are serialized so the slot never ends on an older state.
func (c *Controller) autosave(ctx context.Context, slot, name string, doc []byte, version uint64) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if version <= c.saved[slot] {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Autosave)
	defer cancel()
	if _, err := c.store.SaveSlot(ctx, slot, name, doc); err != nil {
		log.Printf("autosave %s: %v", slot, err)
		return
	}
	c.saved[slot] = version
}

func (c *Controller) publish(change Change) {
	c.subMu.Lock()
	fns := make([]func(Change), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

// Export produces a download for section, or the full save when section
// is "full".
func (c *Controller) Export(section string) (domain.Export, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(section) == "full" {
		data, err := json.MarshalIndent(c.session.Snapshot(domain.FullSave), "", "  ")
		if err != nil {
			return domain.Export{}, err
		}
		return domain.Export{FileName: c.session.FileName(), Data: data}, nil
	}
	sec, err := domain.ParseSection(section)
	if err != nil {
		return domain.Export{}, err
	}
	return c.session.ExportSection(sec)
}

// Import merges or loads an uploaded file after confirm approves it.
func (c *Controller) Import(ctx context.Context, data []byte, confirm domain.Confirm) (domain.ImportResult, error) {
	res, err := c.apply(ctx, "import", true, func(s *domain.Session) (any, error) {
		return s.Import(data, confirm)
	})
	if err != nil {
		return domain.ImportResult{}, err
	}
	return res.Value.(domain.ImportResult), nil
}
