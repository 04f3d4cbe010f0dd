package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
)

const (
	msgCreateFailed = "エントリーの作成に失敗しました"
	msgListFailed   = "エントリーの取得に失敗しました"
)

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var in core.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		// a malformed body is reported like any other creation failure
		slog.ErrorContext(r.Context(), "Failed to decode entry body", "error", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	entry, err := s.ledger.CreateEntry(r.Context(), in)
	if core.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create entry", "error", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	s.invalidateSummary(entry.UserID, entry.Date)
	writeData(w, http.StatusOK, entry)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.ledger.ListEntries(r.Context(), ledger.ListParams{
		UserID:     q.Get("userId"),
		Type:       q.Get("type"),
		CategoryID: q.Get("categoryId"),
		YearMonth:  q.Get("yearMonth"),
		Page:       q.Get("page"),
		Limit:      q.Get("limit"),
	})
	if core.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list entries", "error", err)
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeData(w, http.StatusOK, page)
}
