package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"agora/pkg/requestcontext"
)

// RequestID assigns every request a UUID (or adopts the caller-supplied
// X-Request-ID) and stores it in the context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
