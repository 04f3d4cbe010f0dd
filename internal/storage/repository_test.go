package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "kakeibo.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seed(t *testing.T, repo *SQLiteRepository, userID int64, day string, typ core.EntryType, amount int64, categoryID int64) core.Entry {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("parse %q: %v", day, err)
	}
	ne := core.NewEntry{Date: date.UTC(), Type: typ, Amount: amount, UserID: userID}
	if categoryID != 0 {
		ne.CategoryID = &categoryID
	}
	entry, err := repo.CreateEntry(context.Background(), ne)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return entry
}

func TestCreateAndGetEntry(t *testing.T) {
	repo := newTestRepo(t)

	note := "スーパーで買い物"
	catID := int64(1)
	created, err := repo.CreateEntry(context.Background(), core.NewEntry{
		Date:       time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Type:       core.Expense,
		Amount:     1500,
		Note:       &note,
		CategoryID: &catID,
		UserID:     1,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	got, err := repo.GetEntry(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.Amount != 1500 || got.Type != core.Expense {
		t.Errorf("entry = %+v, want 1500 expense", got)
	}
	if got.Note == nil || *got.Note != note {
		t.Errorf("note = %v, want %q", got.Note, note)
	}
	if !got.Date.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2024-06-15", got.Date)
	}
	if got.Category == nil || got.Category.Name != "食費" {
		t.Errorf("category = %+v, want seeded 食費", got.Category)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestGetEntryNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetEntry(context.Background(), 999); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFindEntriesFilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, 1, "2024-06-01", core.Expense, 500, 1)
	seed(t, repo, 1, "2024-06-15", core.Income, 250000, 0)
	seed(t, repo, 1, "2024-07-01", core.Expense, 800, 2)
	seed(t, repo, 2, "2024-06-05", core.Expense, 300, 0)

	all, err := repo.FindEntries(context.Background(), core.EntryFilter{UserID: 1}, ledger.DateDesc, 0, 0)
	if err != nil {
		t.Fatalf("FindEntries: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date) {
			t.Errorf("entries not date-descending at %d", i)
		}
	}

	june := core.MonthRange(2024, 6)
	expenses, err := repo.FindEntries(context.Background(),
		core.EntryFilter{UserID: 1, Type: core.Expense, Range: &june}, ledger.DateAsc, 0, 0)
	if err != nil {
		t.Fatalf("FindEntries filtered: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Amount != 500 {
		t.Errorf("filtered = %+v, want single 500 expense", expenses)
	}

	byCat, err := repo.FindEntries(context.Background(),
		core.EntryFilter{UserID: 1, CategoryID: 2}, ledger.DateDesc, 0, 0)
	if err != nil {
		t.Fatalf("FindEntries by category: %v", err)
	}
	if len(byCat) != 1 || byCat[0].Amount != 800 {
		t.Errorf("by category = %+v, want single 800 expense", byCat)
	}
}

func TestFindEntriesSkipLimit(t *testing.T) {
	repo := newTestRepo(t)
	for d := 1; d <= 5; d++ {
		seed(t, repo, 1, time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), core.Expense, int64(d), 0)
	}

	page, err := repo.FindEntries(context.Background(), core.EntryFilter{UserID: 1}, ledger.DateDesc, 2, 2)
	if err != nil {
		t.Fatalf("FindEntries: %v", err)
	}
	if len(page) != 2 || page[0].Amount != 3 || page[1].Amount != 2 {
		t.Errorf("page = %+v, want amounts 3, 2", page)
	}

	n, err := repo.CountEntries(context.Background(), core.EntryFilter{UserID: 1})
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if n != 5 {
		t.Errorf("count = %d, want 5", n)
	}
}

func TestUpsertUserAndFirstUser(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.FirstUser(context.Background()); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("empty users error = %v, want ErrNotFound", err)
	}

	created, err := repo.UpsertUser(context.Background(), "hash-a")
	if err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	got, err := repo.FirstUser(context.Background())
	if err != nil {
		t.Fatalf("FirstUser: %v", err)
	}
	if got.ID != created.ID || got.PasscodeHash != "hash-a" {
		t.Errorf("user = %+v, want %+v", got, created)
	}

	updated, err := repo.UpsertUser(context.Background(), "hash-b")
	if err != nil {
		t.Fatalf("UpsertUser update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("upsert created a second user: %d != %d", updated.ID, created.ID)
	}
	got, err = repo.FirstUser(context.Background())
	if err != nil {
		t.Fatalf("FirstUser after update: %v", err)
	}
	if got.PasscodeHash != "hash-b" {
		t.Errorf("hash = %q, want hash-b", got.PasscodeHash)
	}
}
