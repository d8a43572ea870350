package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/community-service/internal/pkg/context"
)

type SuccessBody struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorBody struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

const CodeRateLimited = "rate_limited"

func Data(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	render.Status(r, status)
	render.JSON(w, r, SuccessBody{Success: true, Message: message, Data: data})
}

func OK(w http.ResponseWriter, r *http.Request, data any) {
	Data(w, r, http.StatusOK, "", data)
}

func Created(w http.ResponseWriter, r *http.Request, message string, data any) {
	Data(w, r, http.StatusCreated, message, data)
}

func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string, meta map[string]string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorBody{
		Message: message,
		Error: ErrorPayload{
			Code:      code,
			Meta:      meta,
			RequestID: RequestID(r),
		},
	})
}

// Err maps domain errors to their status; anything else is logged and
// reported as a generic 500.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var ae *domain.AppError
	if errors.As(err, &ae) {
		Fail(w, r, statusFromCode(ae.Code), string(ae.Code), ae.Message, ae.Meta)
		return
	}
	if errors.Is(err, domain.ErrVersionConflict) {
		Fail(w, r, http.StatusConflict, string(domain.CodeConflict), "concurrent update, please retry", nil)
		return
	}

	zlog.Error().Err(err).Str("request_id", RequestID(r)).Str("path", r.URL.Path).Msg("unhandled error")
	Fail(w, r, http.StatusInternalServerError, "internal_error", "internal error", nil)
}

func statusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeBusinessRule:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RequestID(r *http.Request) string {
	if id := appCtx.GetRequestID(r.Context()); id != "" {
		return id
	}
	if v := r.Header.Get("X-Request-Id"); v != "" {
		return v
	}
	return r.Header.Get("X-Request-ID")
}
