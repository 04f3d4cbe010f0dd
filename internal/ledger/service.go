package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/core"
)

// Service implements entry ingestion, listing and monthly aggregation on
// top of an EntryStore.
type Service struct {
	store  EntryStore
	events EventPublisher
}

// NewService creates a ledger service. events may be nil when no export
// pipeline is configured.
func NewService(store EntryStore, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// CreateEntry validates the raw input, persists the entry and announces it
// to the export pipeline. A publish failure is logged and swallowed; the
// entry is already durable at that point.
func (s *Service) CreateEntry(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	ne, err := in.Validate()
	if err != nil {
		return core.Entry{}, err
	}

	entry, err := s.store.CreateEntry(ctx, ne)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishEntryCreated(ctx, entry.ID); err != nil {
			slog.WarnContext(ctx, "Failed to publish entry created event",
				"entry_id", entry.ID,
				"error", err)
		}
	}

	return entry, nil
}

// ListParams carries the raw query-string values of a list request.
// Validation and parsing happen inside ListEntries so the transport layer
// stays a thin mapping.
type ListParams struct {
	UserID     string
	Type       string
	CategoryID string
	YearMonth  string
	Page       string
	Limit      string
}

// EntryPage is one page of entries plus its pagination envelope.
type EntryPage struct {
	Entries    []core.Entry  `json:"entries"`
	Pagination core.PageInfo `json:"pagination"`
}

// ListEntries returns a date-descending page of the user's entries,
// optionally narrowed by type, category and month.
func (s *Service) ListEntries(ctx context.Context, p ListParams) (EntryPage, error) {
	userID, err := core.ParseUserID(p.UserID)
	if err != nil {
		return EntryPage{}, err
	}
	typ, err := core.ParseEntryType(p.Type)
	if err != nil {
		return EntryPage{}, err
	}
	categoryID, err := core.ParseCategoryID(p.CategoryID)
	if err != nil {
		return EntryPage{}, err
	}
	page, limit, err := core.ParsePagination(p.Page, p.Limit)
	if err != nil {
		return EntryPage{}, err
	}

	filter := core.EntryFilter{
		UserID:     userID,
		Type:       typ,
		CategoryID: categoryID,
	}
	if p.YearMonth != "" {
		year, month, err := core.ValidateYearMonth(p.YearMonth)
		if err != nil {
			return EntryPage{}, err
		}
		r := core.MonthRange(year, month)
		filter.Range = &r
	}

	skip := (page - 1) * limit
	entries, err := s.store.FindEntries(ctx, filter, DateDesc, skip, limit)
	if err != nil {
		return EntryPage{}, fmt.Errorf("find entries: %w", err)
	}
	total, err := s.store.CountEntries(ctx, filter)
	if err != nil {
		return EntryPage{}, fmt.Errorf("count entries: %w", err)
	}

	if entries == nil {
		entries = []core.Entry{}
	}
	return EntryPage{
		Entries:    entries,
		Pagination: core.NewPageInfo(page, limit, total),
	}, nil
}

// MonthSummary aggregates one calendar month of the user's entries.
func (s *Service) MonthSummary(ctx context.Context, userIDRaw, yearMonth string) (core.MonthSummary, error) {
	userID, err := core.ParseUserID(userIDRaw)
	if err != nil {
		return core.MonthSummary{}, err
	}
	if yearMonth == "" {
		return core.MonthSummary{}, core.ErrYearMonthRequired
	}
	year, month, err := core.ValidateYearMonth(yearMonth)
	if err != nil {
		return core.MonthSummary{}, err
	}

	r := core.MonthRange(year, month)
	entries, err := s.store.FindEntries(ctx, core.EntryFilter{UserID: userID, Range: &r}, DateAsc, 0, 0)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("find month entries: %w", err)
	}

	return core.Summarize(yearMonth, entries), nil
}
