package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/contact"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/response"
)

type ContactHandler struct {
	svc *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactReq
	if !bind(w, r, &req) {
		return
	}
	m, err := h.svc.Submit(r.Context(), contact.SubmitCmd{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, "message received", map[string]string{"id": m.ID})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), middleware.Role(r), domain.ContactStatus(r.URL.Query().Get("status")))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.NewList(dto.ToContactResps(items)))
}

func (h *ContactHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "message_id", "message")
	if !ok {
		return
	}
	var req dto.ContactUpdateReq
	if !bind(w, r, &req) {
		return
	}
	m, err := h.svc.Resolve(r.Context(), middleware.Role(r), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "message resolved", dto.ToContactResp(m))
}
