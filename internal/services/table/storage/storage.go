// Package storage defines persistence for named save slots.
package storage

import (
	"context"
	"time"
)

// Slot is a named full-save document.
type Slot struct {
	ID          string
	Name        string
	SessionName string
	Document    []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SlotSummary describes a slot without its document.
type SlotSummary struct {
	ID          string
	Name        string
	SessionName string
	Size        int
	UpdatedAt   time.Time
}

// SlotStore persists save slots. Saving to an existing name replaces its
// document and keeps its id.
type SlotStore interface {
	SaveSlot(ctx context.Context, name, sessionName string, document []byte) (Slot, error)
	GetSlot(ctx context.Context, name string) (Slot, error)
	ListSlots(ctx context.Context) ([]SlotSummary, error)
	DeleteSlot(ctx context.Context, name string) error
}

// Store is a slot store that owns a resource.
type Store interface {
	SlotStore
	Close() error
}
