package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/validate"
)

type Clock interface{ Now() time.Time }

// pathID reads a uuid path param. Malformed ids are reported as missing
// resources rather than bad requests.
func pathID(w http.ResponseWriter, r *http.Request, param, what string) (string, bool) {
	id := chi.URLParam(r, param)
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrNotFound(what+" not found"))
		return "", false
	}
	return id, true
}

// bind decodes and validates a JSON body into dst.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := validate.DecodeJSON(r, dst); err != nil {
		response.Err(w, r, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.Err(w, r, err)
		return false
	}
	return true
}
