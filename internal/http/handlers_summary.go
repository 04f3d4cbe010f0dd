package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"kakeibo/internal/core"
)

const msgSummaryFailed = "集計データの取得に失敗しました"

func summaryKey(userID int64, yearMonth string) string {
	return fmt.Sprintf("%d:%s", userID, yearMonth)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userRaw := q.Get("userId")
	yearMonth := q.Get("yearMonth")

	// Only requests that already validated once can hit the cache, so a
	// cached response never bypasses a validation error.
	var key string
	if userID, err := core.ParseUserID(userRaw); err == nil {
		key = summaryKey(userID, yearMonth)
		if cached, ok := s.summaryCache.Get(key); ok {
			writeData(w, http.StatusOK, cached)
			return
		}
	}

	summary, err := s.ledger.MonthSummary(r.Context(), userRaw, yearMonth)
	if core.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build month summary", "error", err)
		writeError(w, http.StatusInternalServerError, msgSummaryFailed)
		return
	}

	if key != "" {
		s.summaryCache.Set(key, summary)
	}
	writeData(w, http.StatusOK, summary)
}

// invalidateSummary drops the cached summary of the month the entry
// belongs to.
func (s *Server) invalidateSummary(userID int64, date time.Time) {
	s.summaryCache.Delete(summaryKey(userID, date.UTC().Format("2006-01")))
}
