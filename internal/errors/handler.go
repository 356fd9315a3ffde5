package errors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"crashlens/internal/infrastructure"
)

// ErrorHandler centralizes error responses: every error is logged with
// request context and rendered as a structured APIError.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError logs err and writes its APIError representation. Errors that
// are not APIErrors render as 500 without leaking internals.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := infrastructure.GetTraceID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ErrInternalServer
	}
	// Shallow copy so the shared predefined values stay immutable.
	resp := *apiErr
	resp.TraceID = reqID
	render.Render(w, r, &resp)
}
