package handler

import (
	"log/slog"
	"net/http"

	"github.com/vortex/ooxml-audit/internal/middleware"
	"github.com/vortex/ooxml-audit/internal/service"
)

// NewRouter builds the HTTP mux with all routes and middleware.
func NewRouter(logger *slog.Logger, svc service.AuditService, maxBodyBytes int64) http.Handler {
	mux := http.NewServeMux()

	v := NewValidateHandler(svc)

	// Health endpoints
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("GET /ready", Health)

	// Conformance-validation endpoint
	mux.HandleFunc("POST /api/v1/documents/validate", v.Validate)

	// Apply middleware chain (outermost first)
	var h http.Handler = mux
	h = middleware.MaxBodySize(maxBodyBytes)(h)
	h = middleware.CORS(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)

	return h
}
