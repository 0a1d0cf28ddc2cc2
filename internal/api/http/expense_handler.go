package http

import (
	"net/http"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/service"
)

type ExpenseHandler struct {
	expenseSvc service.ExpenseService
}

func NewExpenseHandler(expenseSvc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

type createExpenseRequest struct {
	AmountCents int32  `json:"amount_cents"`
	VendorName  string `json:"vendor_name"`
	Category    string `json:"category"`
	ReceiptURL  string `json:"receipt_url"`
	Notes       string `json:"notes"`
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req createExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	detail, err := h.expenseSvc.CreateExpense(r.Context(), userID, propertyID, service.CreateExpenseRequest{
		AmountCents: req.AmountCents,
		VendorName:  req.VendorName,
		Category:    req.Category,
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := h.expenseSvc.GetExpense(r.Context(), userID, expenseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	expenses, total, err := h.expenseSvc.ListExpenses(r.Context(), userID, propertyID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expenses":  expenses,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ExpenseHandler) CastApproval(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req castVoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	detail, err := h.expenseSvc.CastApproval(r.Context(), userID, expenseID, req.OwnershipID, domain.VoteChoice(req.Choice), req.Rationale)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ExpenseHandler) MarkReimbursed(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		writeError(w, err)
		return
	}
	expense, err := h.expenseSvc.MarkReimbursed(r.Context(), userID, expenseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
}
