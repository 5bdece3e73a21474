// Package respond writes JSON responses and maps domain errors onto HTTP.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/hackeurope/platform/internal/platform/errors"
	errori18n "github.com/hackeurope/platform/internal/platform/errors/i18n"
	otelplatform "github.com/hackeurope/platform/internal/platform/otel"
	"github.com/hackeurope/platform/internal/services/shared/i18nhttp"
)

// ErrorBody is the wire shape for every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code and a localized message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes a domain error mapped to its HTTP status with a message
// localized for the request. Non-domain errors become a generic internal
// failure; the original error is logged, never surfaced.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		domainErr = apperrors.Wrap(apperrors.CodeUnknown, "internal error", err)
	}

	status := domainErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError && log != nil {
		fields := []zap.Field{
			zap.String("code", string(domainErr.Code)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		if traceID := otelplatform.TraceID(r.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		log.Error("request failed", fields...)
	}

	msg := errori18n.GetCatalog(i18nhttp.Locale(r)).Format(string(domainErr.Code), domainErr.Metadata)
	JSON(w, status, ErrorBody{Error: ErrorDetail{Code: string(domainErr.Code), Message: msg}})
}
