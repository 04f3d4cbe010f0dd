// Package sheets defines the export port the worker writes entries through.
package sheets

import (
	"context"

	"kakeibo/internal/core"
)

// RowRef identifies where an appended entry landed, e.g. "Entries!A42".
type RowRef string

// EntryAppender appends ledger entries to an external spreadsheet. The
// export is append-only; corrections happen in the ledger, not the sheet.
type EntryAppender interface {
	AppendEntry(ctx context.Context, e core.Entry) (RowRef, error)
}
