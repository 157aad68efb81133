package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/campushub/campushub/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

var errNoUserInContext = errors.New("no authenticated user in context")

// RequireAuth validates the session cookie and attaches the user id to the
// request context. Requests without a valid token get 401.
func (a *API) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil || cookie.Value == "" {
			utils.RespondError(w, nil, "Not Authorized. Login Again", http.StatusUnauthorized)
			return
		}

		userID, err := utils.GetUserIDFromToken(cookie.Value, []byte(a.cfg.JWTSecret))
		if err != nil {
			utils.RespondError(w, nil, "Not Authorized. Login Again", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext returns the authenticated user id set by RequireAuth.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", errNoUserInContext
	}
	return userID, nil
}
