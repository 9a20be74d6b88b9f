package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"centavo/internal/domain/budget"
	"centavo/internal/shared/middleware"
)

// BudgetHandler serves budgets, shares, categories and transactions.
type BudgetHandler struct {
	budgets *budget.Service
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(budgets *budget.Service) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

type CreateBudgetRequest struct {
	Name string `json:"name"`
}

type ShareBudgetRequest struct {
	UserID   int64 `json:"userId"`
	CanWrite bool  `json:"canWrite"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateTransactionRequest struct {
	Amount float64 `json:"amount"`
	Note   *string `json:"note"`
}

// HandleBudgets handles the budget collection (GET list, POST create).
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListBudgets(w, r, userID)
	case http.MethodPost:
		h.handleCreateBudget(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleListBudgets(w http.ResponseWriter, r *http.Request, userID int64) {
	budgets, err := h.budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing budgets for user %d: %v", userID, err)
		http.Error(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}

	if budgets == nil {
		budgets = []*budget.Budget{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

func (h *BudgetHandler) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Budget name is required", http.StatusBadRequest)
		return
	}

	b, err := h.budgets.CreateBudget(r.Context(), userID, req.Name)
	if err != nil {
		log.Printf("Error creating budget for user %d: %v", userID, err)
		http.Error(w, "Failed to create budget", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

// HandleBudgetByID handles operations on a specific budget (DELETE).
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	budgetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.budgets.DeleteBudget(r.Context(), userID, budgetID); err != nil {
		writeBudgetError(w, err, userID, budgetID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleShare grants another user access to a budget. The ownership
// check runs here before the service call.
func (h *BudgetHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	budgetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ShareBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "Valid user ID is required", http.StatusBadRequest)
		return
	}

	isOwner, err := h.budgets.IsOwner(r.Context(), userID, budgetID)
	if err != nil {
		log.Printf("Error checking budget %d ownership for user %d: %v", budgetID, userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !isOwner {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	share, err := h.budgets.ShareBudget(r.Context(), budgetID, req.UserID, req.CanWrite)
	if err != nil {
		writeBudgetError(w, err, userID, budgetID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(share)
}

// HandleCategories handles a budget's category collection (GET list,
// POST create).
func (h *BudgetHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	budgetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListCategories(w, r, userID, budgetID)
	case http.MethodPost:
		h.handleCreateCategory(w, r, userID, budgetID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleListCategories(w http.ResponseWriter, r *http.Request, userID, budgetID int64) {
	categories, err := h.budgets.ListCategories(r.Context(), userID, budgetID)
	if err != nil {
		writeBudgetError(w, err, userID, budgetID)
		return
	}

	if categories == nil {
		categories = []*budget.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *BudgetHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request, userID, budgetID int64) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Category name is required", http.StatusBadRequest)
		return
	}

	c, err := h.budgets.CreateCategory(r.Context(), userID, budgetID, req.Name)
	if err != nil {
		writeBudgetError(w, err, userID, budgetID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// HandleTransactions handles a category's transaction collection
// (GET list, POST create).
func (h *BudgetHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r, userID, categoryID)
	case http.MethodPost:
		h.handleCreateTransaction(w, r, userID, categoryID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleListTransactions(w http.ResponseWriter, r *http.Request, userID, categoryID int64) {
	transactions, err := h.budgets.ListTransactions(r.Context(), userID, categoryID)
	if err != nil {
		writeBudgetError(w, err, userID, categoryID)
		return
	}

	if transactions == nil {
		transactions = []*budget.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

func (h *BudgetHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID, categoryID int64) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.budgets.CreateTransaction(r.Context(), userID, budget.CreateTransactionParams{
		CategoryID: categoryID,
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		writeBudgetError(w, err, userID, categoryID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

func writeBudgetError(w http.ResponseWriter, err error, userID, resourceID int64) {
	switch {
	case errors.Is(err, budget.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, budget.ErrBudgetNotFound):
		http.Error(w, "Budget not found", http.StatusNotFound)
	case errors.Is(err, budget.ErrCategoryNotFound):
		http.Error(w, "Category not found", http.StatusNotFound)
	default:
		log.Printf("Budget error on resource %d for user %d: %v", resourceID, userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
