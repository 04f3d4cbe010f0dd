package ledger

import (
	"context"
	"errors"

	"kakeibo/internal/core"
)

// SortOrder selects the date ordering of a store query.
type SortOrder int

const (
	DateAsc SortOrder = iota
	DateDesc
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// EntryStore is the persistence port the ledger depends on. Implementations
// must be read-after-write consistent for a single caller; no transactional
// or concurrency contract beyond that is assumed.
type EntryStore interface {
	// CreateEntry persists a new entry, assigning its ID and timestamps.
	// The referenced category is resolved and embedded when CategoryID is
	// set and known to the store.
	CreateEntry(ctx context.Context, e core.NewEntry) (core.Entry, error)

	// FindEntries returns entries matching the filter in the given date
	// order, skipping skip rows. A limit of 0 means no limit.
	FindEntries(ctx context.Context, filter core.EntryFilter, order SortOrder, skip, limit int) ([]core.Entry, error)

	// CountEntries returns the number of entries matching the filter.
	CountEntries(ctx context.Context, filter core.EntryFilter) (int, error)

	// GetEntry returns a single entry by ID, or ErrNotFound.
	GetEntry(ctx context.Context, id int64) (core.Entry, error)

	// FirstUser returns the provisioned user, or ErrNotFound when none
	// exists yet.
	FirstUser(ctx context.Context) (core.User, error)
}

// EventPublisher publishes entry lifecycle events for the export pipeline.
// Publishing is best-effort: the ledger logs failures and never fails the
// originating request over them.
type EventPublisher interface {
	PublishEntryCreated(ctx context.Context, id int64) error
}
