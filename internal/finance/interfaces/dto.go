package interfaces

import (
	"encoding/json"
	"errors"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
	"net/http"
)

const maxRequestBodyBytes = 64 << 10

var errRequestBodyTooLarge = errors.New("request body too large")

// decodeRequestBody reads at most maxRequestBodyBytes of JSON from the request into dst.
func decodeRequestBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errRequestBodyTooLarge
		}
		return err
	}
	return nil
}

// writeDecodeError answers 413 for an oversized body and 400 for anything else.
func writeDecodeError(w http.ResponseWriter, respondError respondErrorFunc, err error) {
	if errors.Is(err, errRequestBodyTooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	respondError(w, http.StatusBadRequest, "Invalid request body")
}

type addCategoryRequest struct {
	CategoryName  string           `json:"categoryName"`
	OriginalValue *decimal.Decimal `json:"originalValue"`
}

type recordSpendRequest struct {
	CategoryName string           `json:"categoryName"`
	AmountSpent  *decimal.Decimal `json:"amountSpent"`
	Description  string           `json:"description"`
	Date         string           `json:"date,omitempty"`
}

// BudgetCategoryItem is the API shape of a category; amounts are bare JSON numbers.
type BudgetCategoryItem struct {
	Category           string                    `json:"category"`
	OriginalValue      json.Number               `json:"originalValue"`
	SpentAmountSoFar   json.Number               `json:"spentAmountSoFar"`
	TransactionHistory domain.TransactionHistory `json:"transactionHistory"`
}

func NewBudgetCategoryItem(category domain.BudgetCategory) BudgetCategoryItem {
	history := category.TransactionHistory
	if history == nil {
		history = domain.TransactionHistory{}
	}
	return BudgetCategoryItem{
		Category:           category.Name,
		OriginalValue:      json.Number(category.OriginalValue.String()),
		SpentAmountSoFar:   json.Number(category.SpentAmountSoFar.String()),
		TransactionHistory: history,
	}
}

func NewBudgetCategoryItems(categories []domain.BudgetCategory) []BudgetCategoryItem {
	items := make([]BudgetCategoryItem, 0, len(categories))
	for _, category := range categories {
		items = append(items, NewBudgetCategoryItem(category))
	}
	return items
}
