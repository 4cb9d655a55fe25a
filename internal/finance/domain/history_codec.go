package domain

import (
	"encoding/json"
	"github.com/pkg/errors"
	"strings"
)

const emptyHistory = "{}"

// EncodeHistory serializes a history into the text stored in the transaction_history column.
func EncodeHistory(h TransactionHistory) (string, error) {
	if len(h) == 0 {
		return emptyHistory, nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return "", errors.Wrap(err, "encode transaction history")
	}
	return string(data), nil
}

// DecodeHistory parses the stored text form; blank, null and {} all yield an empty, non-nil history.
func DecodeHistory(s string) (TransactionHistory, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "null" || trimmed == emptyHistory {
		return TransactionHistory{}, nil
	}
	var history TransactionHistory
	if err := json.Unmarshal([]byte(trimmed), &history); err != nil {
		return nil, errors.Wrap(err, "decode transaction history")
	}
	if history == nil {
		return TransactionHistory{}, nil
	}
	for date, entries := range history {
		if entries == nil {
			history[date] = []TransactionEntry{}
		}
	}
	return history, nil
}
