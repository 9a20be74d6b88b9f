package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"centavo/internal/domain/entry"
	"centavo/internal/shared/middleware"
)

// EntryHandler serves an account's income and expense entries.
type EntryHandler struct {
	entries *entry.Service
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(entries *entry.Service) *EntryHandler {
	return &EntryHandler{entries: entries}
}

type CreateEntryRequest struct {
	CategoryID  *int64    `json:"categoryId"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	EntryDate   time.Time `json:"entryDate"`
}

// HandleEntries handles an account's entry collection (GET list,
// POST create).
func (h *EntryHandler) HandleEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListEntries(w, r, userID, accountID)
	case http.MethodPost:
		h.handleCreateEntry(w, r, userID, accountID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EntryHandler) handleListEntries(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	entries, err := h.entries.ListEntries(r.Context(), userID, accountID)
	if err != nil {
		writeEntryError(w, err, userID, accountID)
		return
	}

	if entries == nil {
		entries = []*entry.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *EntryHandler) handleCreateEntry(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EntryDate.IsZero() {
		http.Error(w, "Entry date is required", http.StatusBadRequest)
		return
	}

	e, err := h.entries.CreateEntry(r.Context(), userID, entry.CreateParams{
		AccountID:   accountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		EntryDate:   req.EntryDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, entry.ErrInvalidType):
			http.Error(w, "Entry type must be income or expense", http.StatusBadRequest)
		case errors.Is(err, entry.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("Error creating entry in account %d for user %d: %v", accountID, userID, err)
			http.Error(w, "Failed to create entry", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(e)
}

func writeEntryError(w http.ResponseWriter, err error, userID, accountID int64) {
	if errors.Is(err, entry.ErrForbidden) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	log.Printf("Entry error in account %d for user %d: %v", accountID, userID, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
