package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iRyanRib/genem/internal/models"
)

// contextKey keeps context values set here from colliding with other
// packages.
type contextKey string

const userIDKey contextKey = "user_id"

// Middleware validates the Bearer token and puts the authenticated user id
// into the request context for UserID to read back.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Missing or invalid authorization header"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid token claims"})
			return
		}
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid token subject"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID pulls the authenticated user id set by Middleware.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
