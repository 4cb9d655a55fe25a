package interfaces

import (
	"context"
	"fmt"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
	"net/http"
)

type CategoryServiceInterface interface {
	AddOrUpdateCategory(ctx context.Context, userID, categoryName string, originalValue decimal.Decimal) (domain.UpsertOutcome, error)
	DeleteCategory(ctx context.Context, userID, categoryName string) (int64, error)
	GetAllCategories(ctx context.Context, userID string) ([]domain.BudgetCategory, error)
	GetCategoryDetails(ctx context.Context, userID, categoryName string) (*domain.BudgetCategory, error)
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addCategoryRequest
	if err := decodeRequestBody(w, r, &req); err != nil {
		writeDecodeError(w, h.respondError, err)
		return
	}
	if req.OriginalValue == nil {
		h.respondError(w, http.StatusBadRequest, "Original value is required")
		return
	}

	outcome, err := h.service.AddOrUpdateCategory(r.Context(), userID, req.CategoryName, *req.OriginalValue)
	if err != nil {
		writeServiceError(w, r, h.respondError, err, "Failed to add/update budget category")
		return
	}

	status := http.StatusOK
	message := fmt.Sprintf("Budget category '%s' updated successfully.", req.CategoryName)
	if outcome == domain.OutcomeCreated {
		status = http.StatusCreated
		message = fmt.Sprintf("Budget category '%s' added successfully.", req.CategoryName)
	}
	h.respondJSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data": map[string]interface{}{
			"category": req.CategoryName,
			"outcome":  outcome.String(),
		},
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categoryName := r.PathValue("categoryName")
	deleted, err := h.service.DeleteCategory(r.Context(), userID, categoryName)
	if err != nil {
		writeServiceError(w, r, h.respondError, err, "Failed to delete budget category")
		return
	}
	if deleted == 0 {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("Budget category '%s' not found for user.", categoryName))
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("Budget category '%s' deleted successfully.", categoryName),
	})
}

func (h *CategoryHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.GetAllCategories(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.respondError, err, "Failed to retrieve budget categories")
		return
	}

	h.respondJSON(w, http.StatusOK, NewBudgetCategoryItems(categories))
}

func (h *CategoryHandler) GetCategoryDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	category, err := h.service.GetCategoryDetails(r.Context(), userID, r.PathValue("categoryName"))
	if err != nil {
		writeServiceError(w, r, h.respondError, err, "Failed to retrieve category details")
		return
	}

	h.respondJSON(w, http.StatusOK, NewBudgetCategoryItem(*category))
}
