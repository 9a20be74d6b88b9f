package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"centavo/internal/domain/account"
	"centavo/internal/shared/middleware"
)

// AccountHandler serves account CRUD and membership management.
type AccountHandler struct {
	accounts *account.Service
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type CreateAccountRequest struct {
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	Description  string `json:"description"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID int64 `json:"userId"`
}

// HandleAccounts handles the account collection (GET list, POST create).
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListAccounts(w, r, userID)
	case http.MethodPost:
		h.handleCreateAccount(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleListAccounts(w http.ResponseWriter, r *http.Request, userID int64) {
	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	if accounts == nil {
		accounts = []*account.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *AccountHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.CurrencyCode == "" {
		http.Error(w, "Name and currency are required", http.StatusBadRequest)
		return
	}

	acc, err := h.accounts.CreateAccount(r.Context(), userID, account.CreateParams{
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		Description:  req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrDuplicateName):
			http.Error(w, "Account with this name already exists", http.StatusConflict)
		case errors.Is(err, account.ErrInvalidCurrency):
			http.Error(w, "Invalid currency code", http.StatusBadRequest)
		default:
			log.Printf("Error creating account for user %d: %v", userID, err)
			http.Error(w, "Failed to create account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(acc)
}

// HandleAccountByID handles operations on a specific account
// (GET, PATCH and DELETE).
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
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
		h.handleGetAccount(w, r, userID, accountID)
	case http.MethodPatch:
		h.handleUpdateAccount(w, r, userID, accountID)
	case http.MethodDelete:
		h.handleDeleteAccount(w, r, userID, accountID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleGetAccount(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	acc, err := h.accounts.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		writeAccountError(w, err, userID, accountID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

func (h *AccountHandler) handleUpdateAccount(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.accounts.UpdateAccount(r.Context(), userID, accountID, account.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeAccountError(w, err, userID, accountID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

func (h *AccountHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	if err := h.accounts.DeleteAccount(r.Context(), userID, accountID); err != nil {
		writeAccountError(w, err, userID, accountID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMembers handles an account's member collection (GET list,
// POST add).
func (h *AccountHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
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
		h.handleListMembers(w, r, userID, accountID)
	case http.MethodPost:
		h.handleAddMember(w, r, userID, accountID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleListMembers(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	members, err := h.accounts.ListMembers(r.Context(), userID, accountID)
	if err != nil {
		writeAccountError(w, err, userID, accountID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

func (h *AccountHandler) handleAddMember(w http.ResponseWriter, r *http.Request, userID, accountID int64) {
	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "Valid user ID is required", http.StatusBadRequest)
		return
	}

	membership, err := h.accounts.AddMember(r.Context(), userID, accountID, req.UserID)
	if err != nil {
		writeAccountError(w, err, userID, accountID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(membership)
}

// HandleRemoveMember removes a member from an account. Removing the
// owner responds 404: no removable membership exists.
func (h *AccountHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	removed, err := h.accounts.RemoveMember(r.Context(), userID, accountID, memberID)
	if err != nil {
		writeAccountError(w, err, userID, accountID)
		return
	}
	if !removed {
		http.Error(w, "No removable membership found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeAccountError(w http.ResponseWriter, err error, userID, accountID int64) {
	switch {
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	default:
		log.Printf("Account %d error for user %d: %v", accountID, userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID extracts a positive int64 path parameter, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid "+name+" path parameter", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
