package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	common "github.com/padel-api/padel-api/pkg/domain"
)

type errorBody struct {
	Error string           `json:"error"`
	Kind  common.ErrorKind `json:"kind"`
}

// statusFor maps the domain error taxonomy onto HTTP status codes. This is the
// only place the API layer interprets error kinds.
func statusFor(kind common.ErrorKind) int {
	switch kind {
	case common.KindInvalidInput, common.KindWrongStatus, common.KindAlreadyRecorded,
		common.KindInvalidRoster, common.KindInvalidScore:
		return http.StatusBadRequest
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindAuthorization:
		return http.StatusForbidden
	case common.KindConflict:
		return http.StatusConflict
	case common.KindDeadlineExceeded:
		return http.StatusGatewayTimeout
	case common.KindTransientStore, common.KindCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	kind := common.KindOf(err)
	status := statusFor(kind)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "kind", kind, "error", err)
		message = "internal error"
	}
	writeJSON(w, status, errorBody{Error: message, Kind: kind})
}
