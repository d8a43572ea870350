package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/registration"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/response"
)

type RegistrationHandler struct {
	reg *registration.Service
}

func NewRegistrationHandler(reg *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{reg: reg}
}

func (h *RegistrationHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	adm, err := h.reg.Eligibility(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.AdmissionResp{Allowed: adm.Allowed, Reason: adm.Reason})
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	var req dto.RegisterReq
	if r.ContentLength != 0 && !bind(w, r, &req) {
		return
	}
	p, err := h.reg.Register(r.Context(), registration.RegisterCmd{
		EventID: id,
		UserID:  middleware.UserID(r),
		Form:    req.Form(),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, "registered", dto.ToParticipantResp(p, nil))
}

func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	if _, err := h.reg.Unregister(r.Context(), id, middleware.UserID(r)); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "unregistered", nil)
}

func (h *RegistrationHandler) AdminRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	var req dto.AdminRegisterReq
	if !bind(w, r, &req) {
		return
	}
	p, err := h.reg.AdminRegister(r.Context(), registration.AdminRegisterCmd{
		ActorID:   middleware.UserID(r),
		ActorRole: middleware.Role(r),
		EventID:   id,
		UserID:    req.UserID,
		Form:      req.Form(),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, "participant added", dto.ToParticipantResp(p, nil))
}

func (h *RegistrationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	pid, ok := pathID(w, r, "participant_id", "participant")
	if !ok {
		return
	}
	var req dto.StatusReq
	if !bind(w, r, &req) {
		return
	}
	p, err := h.reg.SetParticipantStatus(r.Context(), registration.StatusCmd{
		ActorID:       middleware.UserID(r),
		ActorRole:     middleware.Role(r),
		EventID:       id,
		ParticipantID: pid,
		Status:        domain.ParticipantStatus(req.Status),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "status updated", dto.ToParticipantResp(p, nil))
}

func (h *RegistrationHandler) Participants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	status := domain.ParticipantStatus(r.URL.Query().Get("status"))
	views, err := h.reg.ListParticipants(r.Context(), id, middleware.UserID(r), middleware.Role(r), status)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.NewList(dto.ToParticipantResps(views)))
}
