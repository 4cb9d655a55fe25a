package interfaces

import (
	"errors"
	"github.com/rs/zerolog"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"net/http"
)

type respondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

// writeServiceError turns a service error into 400, 404 or 500. Anything unclassified is logged
// and answered with the generic fallback message.
func writeServiceError(w http.ResponseWriter, r *http.Request, respondError respondErrorFunc, err error, fallback string) {
	switch {
	case financeErrors.IsValidationErrors(err):
		var validationErrors *financeErrors.ValidationErrors
		errors.As(err, &validationErrors)
		errorMessages := make([]string, len(validationErrors.Errors))
		for i, vErr := range validationErrors.Errors {
			errorMessages[i] = vErr.Error()
		}
		respondError(w, http.StatusBadRequest, "Validation errors occurred", errorMessages)
	case financeErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsNotFoundError(err):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
