// Package storage implements the entry store on SQLite via modernc.org/sqlite,
// with the schema managed by embedded golang-migrate migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"

	_ "modernc.org/sqlite"
)

// Dates and timestamps are stored as fixed-width UTC strings so that
// lexicographic comparison in SQL matches chronological order.
const timeFormat = "2006-01-02T15:04:05.000Z"

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.EntryStore = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.NewEntry) (core.Entry, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (date, type, amount, note, category_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date.UTC().Format(timeFormat),
		string(e.Type),
		e.Amount,
		nullString(e.Note),
		nullInt64(e.CategoryID),
		e.UserID,
		now.Format(timeFormat),
		now.Format(timeFormat),
	)
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry insert id: %w", err)
	}
	return r.GetEntry(ctx, id)
}

const entryColumns = `e.id, e.date, e.type, e.amount, e.note, e.category_id, e.user_id,
	e.created_at, e.updated_at, c.id, c.name, c.color, c.sort_order`

const entryFrom = ` FROM entries e LEFT JOIN categories c ON c.id = e.category_id`

// buildFilter renders the filter as a WHERE clause. The user constraint is
// always present; the rest are appended in filter order.
func buildFilter(f core.EntryFilter) (string, []any) {
	clauses := []string{"e.user_id = ?"}
	args := []any{f.UserID}

	if f.Type != "" {
		clauses = append(clauses, "e.type = ?")
		args = append(args, string(f.Type))
	}
	if f.CategoryID != 0 {
		clauses = append(clauses, "e.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Range != nil {
		clauses = append(clauses, "e.date >= ?", "e.date <= ?")
		args = append(args,
			f.Range.From.UTC().Format(timeFormat),
			f.Range.To.UTC().Format(timeFormat))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *SQLiteRepository) FindEntries(ctx context.Context, filter core.EntryFilter, order ledger.SortOrder, skip, limit int) ([]core.Entry, error) {
	where, args := buildFilter(filter)

	orderBy := " ORDER BY e.date ASC, e.id ASC"
	if order == ledger.DateDesc {
		orderBy = " ORDER BY e.date DESC, e.id DESC"
	}

	query := "SELECT " + entryColumns + entryFrom + where + orderBy
	if limit > 0 || skip > 0 {
		// SQLite requires LIMIT before OFFSET; -1 means unlimited.
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteRepository) CountEntries(ctx context.Context, filter core.EntryFilter) (int, error) {
	where, args := buildFilter(filter)

	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+entryFrom+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+entryFrom+" WHERE e.id = ?", id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

func (r *SQLiteRepository) FirstUser(ctx context.Context) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, passcode_hash FROM users ORDER BY id LIMIT 1").
		Scan(&u.ID, &u.PasscodeHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("first user: %w", err)
	}
	return u, nil
}

// UpsertUser sets the provisioned user's passcode hash, creating the user
// on first run. Used by the provisioning command.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, passcodeHash string) (core.User, error) {
	existing, err := r.FirstUser(ctx)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		res, err := r.db.ExecContext(ctx,
			"INSERT INTO users (passcode_hash) VALUES (?)", passcodeHash)
		if err != nil {
			return core.User{}, fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return core.User{}, fmt.Errorf("user insert id: %w", err)
		}
		return core.User{ID: id, PasscodeHash: passcodeHash}, nil
	case err != nil:
		return core.User{}, err
	default:
		_, err := r.db.ExecContext(ctx,
			"UPDATE users SET passcode_hash = ? WHERE id = ?", passcodeHash, existing.ID)
		if err != nil {
			return core.User{}, fmt.Errorf("update user: %w", err)
		}
		existing.PasscodeHash = passcodeHash
		return existing, nil
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (core.Entry, error) {
	var (
		e          core.Entry
		dateRaw    string
		createdRaw string
		updatedRaw string
		note       sql.NullString
		categoryID sql.NullInt64
		catID      sql.NullInt64
		catName    sql.NullString
		catColor   sql.NullString
		catOrder   sql.NullInt64
	)
	err := row.Scan(&e.ID, &dateRaw, &e.Type, &e.Amount, &note, &categoryID, &e.UserID,
		&createdRaw, &updatedRaw, &catID, &catName, &catColor, &catOrder)
	if err != nil {
		return core.Entry{}, err
	}

	if e.Date, err = time.Parse(timeFormat, dateRaw); err != nil {
		return core.Entry{}, fmt.Errorf("parse date %q: %w", dateRaw, err)
	}
	if e.CreatedAt, err = time.Parse(timeFormat, createdRaw); err != nil {
		return core.Entry{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	if e.UpdatedAt, err = time.Parse(timeFormat, updatedRaw); err != nil {
		return core.Entry{}, fmt.Errorf("parse updated_at %q: %w", updatedRaw, err)
	}

	if note.Valid {
		e.Note = &note.String
	}
	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if catID.Valid {
		cat := core.Category{ID: catID.Int64, Name: catName.String}
		if catColor.Valid {
			cat.Color = &catColor.String
		}
		if catOrder.Valid {
			cat.Order = &catOrder.Int64
		}
		e.Category = &cat
	}
	return e, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
