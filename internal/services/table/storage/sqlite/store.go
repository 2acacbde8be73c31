package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/platform/id"
	platformotel "github.com/louisbranch/voidlight/internal/platform/otel"
	"github.com/louisbranch/voidlight/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/voidlight/internal/services/table/storage"
	"github.com/louisbranch/voidlight/internal/services/table/storage/sqlite/migrations"
)

var tracer = platformotel.Tracer("table/storage/sqlite")

// Store is a SQLite-backed slot store.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
	newID func() (string, error)
}

// Open opens a SQLite store at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		sqlDB: sqlDB,
		now:   func() time.Time { return time.Now().UTC() },
		newID: id.NewID,
	}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func slotName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.New(apperrors.CodeNameRequired, "slot name is required")
	}
	return name, nil
}

func notFound(name string) error {
	return apperrors.WithMetadata(apperrors.CodeSaveNotFound, "save slot not found", map[string]string{"Slot": name})
}

func startSpan(ctx context.Context, op, slot string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "sqlite."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("db.system", "sqlite"))
	if slot != "" {
		span.SetAttributes(attribute.String("voidlight.slot", slot))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// SaveSlot writes document under name, replacing any previous save with
// that name.
func (s *Store) SaveSlot(ctx context.Context, name, sessionName string, document []byte) (slot storage.Slot, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.Slot{}, err
	}
	if name, err = slotName(name); err != nil {
		return storage.Slot{}, err
	}
	if len(document) == 0 {
		return storage.Slot{}, fmt.Errorf("document is required")
	}
	ctx, span := startSpan(ctx, "SaveSlot", name)
	defer func() { endSpan(span, err) }()

	newID, err := s.newID()
	if err != nil {
		return storage.Slot{}, err
	}
	now := s.now().UnixMilli()
	if _, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO save_slots (id, name, session_name, document, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    session_name = excluded.session_name,
    document = excluded.document,
    updated_at = excluded.updated_at`,
		newID, name, sessionName, string(document), now, now,
	); err != nil {
		return storage.Slot{}, fmt.Errorf("save slot %s: %w", name, err)
	}
	return s.get(ctx, name)
}

// GetSlot loads the slot stored under name.
func (s *Store) GetSlot(ctx context.Context, name string) (slot storage.Slot, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.Slot{}, err
	}
	if name, err = slotName(name); err != nil {
		return storage.Slot{}, err
	}
	ctx, span := startSpan(ctx, "GetSlot", name)
	defer func() { endSpan(span, err) }()
	return s.get(ctx, name)
}

func (s *Store) get(ctx context.Context, name string) (storage.Slot, error) {
	var (
		slot               storage.Slot
		document           string
		createdAt, updated int64
	)
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, name, session_name, document, created_at, updated_at FROM save_slots WHERE name = ?", name)
	if err := row.Scan(&slot.ID, &slot.Name, &slot.SessionName, &document, &createdAt, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Slot{}, notFound(name)
		}
		return storage.Slot{}, fmt.Errorf("get slot %s: %w", name, err)
	}
	slot.Document = []byte(document)
	slot.CreatedAt = time.UnixMilli(createdAt).UTC()
	slot.UpdatedAt = time.UnixMilli(updated).UTC()
	return slot, nil
}

// ListSlots lists slots, most recently saved first.
func (s *Store) ListSlots(ctx context.Context) (list []storage.SlotSummary, err error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "ListSlots", "")
	defer func() { endSpan(span, err) }()

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT id, name, session_name, length(document), updated_at FROM save_slots ORDER BY updated_at DESC, name")
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			summary storage.SlotSummary
			updated int64
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.SessionName, &summary.Size, &updated); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		summary.UpdatedAt = time.UnixMilli(updated).UTC()
		list = append(list, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	span.SetAttributes(attribute.Int("voidlight.slot_count", len(list)))
	return list, nil
}

// DeleteSlot removes the slot stored under name.
func (s *Store) DeleteSlot(ctx context.Context, name string) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if name, err = slotName(name); err != nil {
		return err
	}
	ctx, span := startSpan(ctx, "DeleteSlot", name)
	defer func() { endSpan(span, err) }()

	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM save_slots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", name, err)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
