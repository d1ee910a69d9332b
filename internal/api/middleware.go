package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"catalog-service/internal/service"
)

// RecoverEnvelope converts an unhandled panic into the uniform error envelope
// instead of leaking the fault to the client. The real cause only reaches the
// log.
func RecoverEnvelope(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("unhandled panic", slog.Any("panic", rec), slog.String("path", r.URL.Path))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(
						service.FailResult("an unexpected error occurred", service.StatusUnexpectedError))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
