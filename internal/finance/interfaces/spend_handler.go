package interfaces

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
	"log"
	"net/http"
)

type LedgerServiceInterface interface {
	RecordSpend(ctx context.Context, userID, categoryName string, amountSpent decimal.Decimal, description, date string) (decimal.Decimal, error)
}

type SpendHandler struct {
	service      LedgerServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewSpendHandler(
	service LedgerServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *SpendHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &SpendHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *SpendHandler) RecordSpend(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req recordSpendRequest
	if err := decodeRequestBody(w, r, &req); err != nil {
		writeDecodeError(w, h.respondError, err)
		return
	}
	if req.AmountSpent == nil {
		h.respondError(w, http.StatusBadRequest, "Amount spent is required")
		return
	}

	newTotal, err := h.service.RecordSpend(r.Context(), userID, req.CategoryName, *req.AmountSpent, req.Description, req.Date)
	if err != nil {
		writeServiceError(w, r, h.respondError, err, "Failed to record spending")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("Spend recorded for '%s'. New spent total: %s", req.CategoryName, newTotal.String()),
		"data": map[string]interface{}{
			"category":         req.CategoryName,
			"spentAmountSoFar": json.Number(newTotal.String()),
		},
	})
}
