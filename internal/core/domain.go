package core

import (
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

type (
	EntryType string

	// Category is a named grouping for expense entries. Categories are
	// read-only from the ledger's point of view; they are provisioned via
	// migrations (or seeds for the in-memory store).
	Category struct {
		ID    int64   `json:"id"`
		Name  string  `json:"name"`
		Color *string `json:"color"`
		Order *int64  `json:"order"`
	}

	// Entry is a single ledger line as returned by a store, with the
	// referenced category embedded when one is set.
	Entry struct {
		ID         int64     `json:"id"`
		Date       time.Time `json:"date"`
		Type       EntryType `json:"type"`
		Amount     int64     `json:"amount"`
		Note       *string   `json:"note"`
		CategoryID *int64    `json:"categoryId"`
		UserID     int64     `json:"userId"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
		Category   *Category `json:"category"`
	}

	// NewEntry carries validated, normalized input for entry creation.
	// ID and timestamps are assigned by the store.
	NewEntry struct {
		Date       time.Time
		Type       EntryType
		Amount     int64
		Note       *string
		CategoryID *int64
		UserID     int64
	}

	User struct {
		ID           int64
		PasscodeHash string
	}

	// DateRange is an inclusive [From, To] interval.
	DateRange struct {
		From time.Time
		To   time.Time
	}

	// EntryFilter is the tagged filter structure every store query goes
	// through. Zero values mean "no constraint" for the optional fields;
	// UserID is always required.
	EntryFilter struct {
		UserID     int64
		Type       EntryType
		CategoryID int64
		Range      *DateRange
	}

	// PageInfo is the pagination metadata returned alongside entry lists.
	PageInfo struct {
		CurrentPage int  `json:"currentPage"`
		TotalPages  int  `json:"totalPages"`
		TotalCount  int  `json:"totalCount"`
		Limit       int  `json:"limit"`
		HasNextPage bool `json:"hasNextPage"`
		HasPrevPage bool `json:"hasPrevPage"`
	}
)

// IsValid reports whether t is one of the two supported entry types.
func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// NewPageInfo computes pagination metadata for the given page/limit and
// total match count. totalPages is ceil(totalCount/limit).
func NewPageInfo(page, limit, totalCount int) PageInfo {
	totalPages := (totalCount + limit - 1) / limit
	return PageInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// MonthRange returns the full calendar range of the given month:
// [first day 00:00:00.000, last day 23:59:59.999] in UTC. The last day is
// computed as day 0 of the following month, so 28/29/30/31-day months and
// leap years fall out of standard date arithmetic.
func MonthRange(year, month int) DateRange {
	return DateRange{
		From: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.Month(month)+1, 0, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}
}

// Contains reports whether t falls inside the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
