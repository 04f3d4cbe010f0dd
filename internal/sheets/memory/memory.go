// Package memory is an in-process EntryAppender used in tests and local
// runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"kakeibo/internal/core"
	"kakeibo/internal/sheets"
)

type Appender struct {
	mu   sync.Mutex
	rows []core.Entry
	err  error
}

var _ sheets.EntryAppender = (*Appender)(nil)

func NewAppender() *Appender {
	return &Appender{}
}

// Fail makes every subsequent append return err.
func (a *Appender) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *Appender) AppendEntry(_ context.Context, e core.Entry) (sheets.RowRef, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.err != nil {
		return "", a.err
	}
	a.rows = append(a.rows, e)
	return sheets.RowRef(fmt.Sprintf("Entries!A%d", len(a.rows))), nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() []core.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]core.Entry, len(a.rows))
	copy(out, a.rows)
	return out
}
