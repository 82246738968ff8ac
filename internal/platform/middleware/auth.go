package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"agora/pkg/requestcontext"
)

// AdminClaims are the JWT claims moderator tokens must carry. Region and
// city define the jurisdiction the moderator may act in.
type AdminClaims struct {
	AdminID int64  `json:"admin_id"`
	Region  string `json:"region"`
	City    string `json:"city"`
	jwt.RegisteredClaims
}

// RequireAdmin validates the bearer token on moderator endpoints and injects
// the moderator's identity and jurisdiction into the request context.
func RequireAdmin(signingKey []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims := &AdminClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return signingKey, nil
			})
			if err != nil || !parsed.Valid {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w)
				return
			}

			ctx = requestcontext.WithAdminClaims(ctx, requestcontext.Admin{
				ID:     claims.AdminID,
				Region: claims.Region,
				City:   claims.City,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
}
