// Package worker consumes entry sync messages and appends the referenced
// entries to the configured spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/ledger"
	"kakeibo/internal/sheets"
)

type ExportWorker struct {
	store    ledger.EntryStore
	appender sheets.EntryAppender
}

func NewExportWorker(store ledger.EntryStore, appender sheets.EntryAppender) *ExportWorker {
	return &ExportWorker{store: store, appender: appender}
}

// HandleSyncMessage loads the announced entry and appends it to the sheet.
// A message for an entry that no longer exists is dropped; requeueing it
// would loop forever.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	entry, err := w.store.GetEntry(ctx, msg.ID)
	if errors.Is(err, ledger.ErrNotFound) {
		slog.WarnContext(ctx, "Entry in sync message not found, dropping",
			"entry_id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load entry %d: %w", msg.ID, err)
	}

	ref, err := w.appender.AppendEntry(ctx, entry)
	if err != nil {
		return fmt.Errorf("append entry %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Exported entry",
		"entry_id", entry.ID,
		"row", ref,
		"amount", entry.Amount)
	return nil
}
