package interfaces

import (
	"context"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	UserIDHeader            = "X-User-ID"
)

// UserMiddleware puts the acting user in the request context: the X-User-ID header when
// present, otherwise defaultUserID.
func UserMiddleware(defaultUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID == "" {
				userID = defaultUserID
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// ValidatePathParamsMiddleware rejects requests whose named path parameters are empty.
func ValidatePathParamsMiddleware(
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	next http.Handler,
	params ...string,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			if strings.TrimSpace(r.PathValue(param)) == "" {
				respondError(w, http.StatusBadRequest, financeErrors.ErrCategoryNameMissingPath.Error())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware answers preflight requests and sets the CORS headers the browser frontend needs.
func CORSMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+UserIDHeader)
			if allowedOrigin != "*" {
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
