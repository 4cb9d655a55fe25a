package domain

import (
	"encoding/json"
	"github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout           = "2006-01-02"
	maxDescriptionLength = 200

	// amounts fit NUMERIC(23,8)
	maxAmountIntegerDigits = 15
	maxAmountScale         = 8
	// exponents below this are rejected before any rescaling happens
	minAmountExponent = -64
)

type TransactionEntry struct {
	Amount      decimal.Decimal
	Description string
}

type transactionEntryJSON struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
}

// MarshalJSON writes the amount as a bare JSON number with full decimal precision.
func (e TransactionEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionEntryJSON{
		Amount:      json.Number(e.Amount.String()),
		Description: e.Description,
	})
}

func (e *TransactionEntry) UnmarshalJSON(data []byte) error {
	var raw transactionEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount := decimal.Zero
	if raw.Amount != "" {
		parsed, err := decimal.NewFromString(raw.Amount.String())
		if err != nil {
			return err
		}
		amount = parsed
	}
	e.Amount = amount
	e.Description = raw.Description
	return nil
}

// TransactionHistory maps a YYYY-MM-DD date to the spends recorded that day, in insertion order.
type TransactionHistory map[string][]TransactionEntry

// MarshalJSON never emits null: an empty history is {} and an empty bucket is [].
func (h TransactionHistory) MarshalJSON() ([]byte, error) {
	out := make(map[string][]TransactionEntry, len(h))
	for date, entries := range h {
		if entries == nil {
			entries = []TransactionEntry{}
		}
		out[date] = entries
	}
	return json.Marshal(out)
}

func (h TransactionHistory) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entries := range h {
		for _, entry := range entries {
			total = total.Add(entry.Amount)
		}
	}
	return total
}

func (h TransactionHistory) Count() int {
	count := 0
	for _, entries := range h {
		count += len(entries)
	}
	return count
}

// Dates returns the bucket keys in ascending order.
func (h TransactionHistory) Dates() []string {
	dates := make([]string, 0, len(h))
	for date := range h {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func (h TransactionHistory) Clone() TransactionHistory {
	clone := make(TransactionHistory, len(h))
	for date, entries := range h {
		clone[date] = append([]TransactionEntry(nil), entries...)
	}
	return clone
}

func ValidateSpend(amount decimal.Decimal, description string) error {
	var validationErrors = &errors.ValidationErrors{}
	if !amount.IsPositive() {
		validationErrors.Add(errors.ErrNonPositiveAmount)
	} else if !AmountInRange(amount) {
		validationErrors.Add(errors.ErrAmountOutOfRange)
	}
	if strings.TrimSpace(description) == "" {
		validationErrors.Add(errors.ErrDescriptionRequired)
	} else if utf8.RuneCountInString(description) > maxDescriptionLength {
		validationErrors.Add(errors.ErrDescriptionTooLong)
	}
	return validationErrors.Err()
}

// AmountInRange reports whether d has at most 15 integer digits and 8 significant decimal places.
// It only looks at digit count and exponent, so huge exponents are rejected without expanding them.
func AmountInRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if int64(d.NumDigits())+exp > maxAmountIntegerDigits {
		return false
	}
	if exp < minAmountExponent {
		return false
	}
	if exp < -maxAmountScale {
		// 1.5000000000 is fine, 1.000000001 is not
		return d.Equal(d.Truncate(maxAmountScale))
	}
	return true
}

func ValidateDateKey(date string) error {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil || parsed.Format(DateLayout) != date {
		return errors.ErrInvalidTransactionDate
	}
	return nil
}

// DateKey formats t as a history bucket key in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
