package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
)

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// internalFailure is pre-encoded so a failed encode still yields a body.
var internalFailure = []byte(`{"success":false,"message":"internal error","error":{"kind":"internal","message":"internal error"}}` + "\n")

// writeJSON encodes before touching the response; an encode failure is
// reported as a 500.
func writeJSON(w http.ResponseWriter, status int, body envelope) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logging.Error(context.Background(), "encode response", slog.Any("err", errs.Loggable(errs.Wrap(err, "encode response"))))
		buf.Reset()
		buf.Write(internalFailure)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError maps the error kind to a status code. Internal failures are
// logged with their chain and reported without detail.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logging.Warn(ctx, "request aborted", slog.String("reason", err.Error()))
		} else {
			logging.Error(ctx, "request failed", slog.Any("err", errs.Loggable(err)))
		}
		message = "internal error"
	}

	writeJSON(w, status, envelope{
		Success: false,
		Message: message,
		Error:   &errorDetail{Kind: string(kind), Message: message},
	})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalidInput, errs.KindUnknownChild, errs.KindLimitExceeded:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict, errs.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
