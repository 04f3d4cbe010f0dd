// Package memory provides an in-memory EntryStore. It backs tests and the
// memory data backend, and mirrors the seed data the sqlite migrations
// provision.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func seedCategories() map[int64]core.Category {
	seed := []core.Category{
		{ID: 1, Name: "食費", Color: strPtr("#ef4444"), Order: i64Ptr(1)},
		{ID: 2, Name: "日用品", Color: strPtr("#f97316"), Order: i64Ptr(2)},
		{ID: 3, Name: "交通費", Color: strPtr("#eab308"), Order: i64Ptr(3)},
		{ID: 4, Name: "娯楽", Color: strPtr("#22c55e"), Order: i64Ptr(4)},
		{ID: 5, Name: "医療費", Color: strPtr("#3b82f6"), Order: i64Ptr(5)},
		{ID: 6, Name: "水道光熱費", Color: strPtr("#a855f7"), Order: i64Ptr(6)},
	}
	m := make(map[int64]core.Category, len(seed))
	for _, c := range seed {
		m[c.ID] = c
	}
	return m
}

// Store is a mutex-guarded in-memory implementation of ledger.EntryStore.
type Store struct {
	mu          sync.Mutex
	entries     []core.Entry
	categories  map[int64]core.Category
	users       []core.User
	nextEntryID int64
	nextUserID  int64
	now         func() time.Time
}

var _ ledger.EntryStore = (*Store)(nil)

// NewStore creates an empty store pre-seeded with the default categories.
func NewStore() *Store {
	return &Store{
		categories:  seedCategories(),
		nextEntryID: 1,
		nextUserID:  1,
		now:         time.Now,
	}
}

// SeedUser adds a user with the given passcode hash and returns it.
func (s *Store) SeedUser(passcodeHash string) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := core.User{ID: s.nextUserID, PasscodeHash: passcodeHash}
	s.nextUserID++
	s.users = append(s.users, u)
	return u
}

// SetClock overrides the timestamp source. Tests use this to get
// deterministic createdAt/updatedAt values.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateEntry(_ context.Context, e core.NewEntry) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := core.Entry{
		ID:         s.nextEntryID,
		Date:       e.Date,
		Type:       e.Type,
		Amount:     e.Amount,
		Note:       e.Note,
		CategoryID: e.CategoryID,
		UserID:     e.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.nextEntryID++
	if e.CategoryID != nil {
		if c, ok := s.categories[*e.CategoryID]; ok {
			entry.Category = &c
		}
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *Store) FindEntries(_ context.Context, filter core.EntryFilter, order ledger.SortOrder, skip, limit int) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []core.Entry
	for _, e := range s.entries {
		if matches(e, filter) {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if order == ledger.DateDesc {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.ID > b.ID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})

	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]core.Entry, len(matched))
	copy(out, matched)
	return out, nil
}

func (s *Store) CountEntries(_ context.Context, filter core.EntryFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if matches(e, filter) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetEntry(_ context.Context, id int64) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Entry{}, ledger.ErrNotFound
}

func (s *Store) FirstUser(_ context.Context) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		return core.User{}, ledger.ErrNotFound
	}
	return s.users[0], nil
}

func matches(e core.Entry, f core.EntryFilter) bool {
	if e.UserID != f.UserID {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.CategoryID != 0 {
		if e.CategoryID == nil || *e.CategoryID != f.CategoryID {
			return false
		}
	}
	if f.Range != nil && !f.Range.Contains(e.Date) {
		return false
	}
	return true
}
