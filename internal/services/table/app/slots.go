package app

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
	"github.com/louisbranch/voidlight/internal/services/table/storage"
)

// SlotInfo is a save slot as reported to clients.
type SlotInfo struct {
	Name        string `json:"name"`
	SessionName string `json:"sessionName"`
	Size        int    `json:"size"`
	UpdatedAt   string `json:"updatedAt"`
	Active      bool   `json:"active"`
}

func (c *Controller) dispatchSlot(ctx context.Context, a Action) (Result, error) {
	if c.store == nil {
		return Result{}, apperrors.WithMetadata(apperrors.CodeInvalidAction, "no slot store", map[string]string{
			"Reason": "save slots are not configured",
		})
	}
	switch a.Type {
	case "slot.list":
		slots, err := c.ListSlots(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Action: a.Type, Version: c.Version(), Value: slots}, nil
	case "slot.save":
		if err := c.SaveSlot(ctx, a.Slot); err != nil {
			return Result{}, err
		}
		return Result{Action: a.Type, Version: c.Version()}, nil
	case "slot.load":
		return c.LoadSlot(ctx, a.Slot)
	case "slot.delete":
		if err := c.store.DeleteSlot(ctx, a.Slot); err != nil {
			return Result{}, err
		}
		c.withLock(func() {
			if c.slot == strings.TrimSpace(a.Slot) {
				c.slot = ""
			}
		})
		return Result{Action: a.Type, Version: c.Version()}, nil
	case "slot.activate":
		c.withLock(func() { c.slot = strings.TrimSpace(a.Slot) })
		return Result{Action: a.Type, Version: c.Version(), Value: strings.TrimSpace(a.Slot)}, nil
	default:
		return Result{}, apperrors.WithMetadata(apperrors.CodeInvalidAction, "unknown slot action", map[string]string{
			"Reason": "unknown action " + a.Type,
		})
	}
}

// ListSlots lists the stored saves, marking the autosave target.
func (c *Controller) ListSlots(ctx context.Context) ([]SlotInfo, error) {
	if c.store == nil {
		return nil, nil
	}
	summaries, err := c.store.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	var active string
	c.withLock(func() { active = c.slot })
	out := make([]SlotInfo, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, slotInfo(s, active))
	}
	return out, nil
}

func slotInfo(s storage.SlotSummary, active string) SlotInfo {
	return SlotInfo{
		Name:        s.Name,
		SessionName: s.SessionName,
		Size:        s.Size,
		UpdatedAt:   s.UpdatedAt.Format("2006-01-02 15:04"),
		Active:      s.Name == active,
	}
}

// SaveSlot writes the full save to slot.
func (c *Controller) SaveSlot(ctx context.Context, slot string) error {
	var (
		doc     []byte
		name    string
		version uint64
		err     error
	)
	c.withLock(func() {
		doc, err = json.Marshal(c.session.Snapshot(domain.FullSave))
		name = c.session.Name()
		version = c.version
	})
	if err != nil {
		return err
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if _, err := c.store.SaveSlot(ctx, slot, name, doc); err != nil {
		return err
	}
	if version > c.saved[slot] {
		c.saved[slot] = version
	}
	return nil
}

func (c *Controller) withLock(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// LoadSlot replaces the session with the document stored in slot.
func (c *Controller) LoadSlot(ctx context.Context, slot string) (Result, error) {
	stored, err := c.store.GetSlot(ctx, slot)
	if err != nil {
		return Result{}, err
	}
	return c.apply(ctx, "slot.load", true, func(s *domain.Session) (any, error) {
		return nil, s.Load(stored.Document)
	})
}
