package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/account"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/registration"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/response"
)

type UsersHandler struct {
	acct *account.Service
	reg  *registration.Service
}

func NewUsersHandler(acct *account.Service, reg *registration.Service) *UsersHandler {
	return &UsersHandler{acct: acct, reg: reg}
}

func (h *UsersHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupReq
	if !bind(w, r, &req) {
		return
	}
	u, err := h.acct.Signup(r.Context(), account.SignupCmd{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, "account created", dto.ToUserResp(u))
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.acct.Me(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.ToUserResp(u))
}

func (h *UsersHandler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	refs, err := h.acct.MyRegistrations(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.NewList(dto.ToRegisteredEventResps(refs)))
}

func (h *UsersHandler) RequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	if err := h.acct.RequestEmailVerification(r.Context(), middleware.UserID(r)); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusAccepted, "verification email requested", nil)
}

func (h *UsersHandler) ConfirmEmailVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenReq
	if !bind(w, r, &req) {
		return
	}
	if err := h.acct.ConfirmEmailVerification(r.Context(), req.Token); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "email verified", nil)
}

// RequestPasswordReset always answers 202 so callers cannot probe which emails exist.
func (h *UsersHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequestReq
	if !bind(w, r, &req) {
		return
	}
	if err := h.acct.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusAccepted, "if the account exists, a reset email is on its way", nil)
}

func (h *UsersHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetConfirmReq
	if !bind(w, r, &req) {
		return
	}
	if err := h.acct.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "password updated", nil)
}

func (h *UsersHandler) RebuildRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user_id", "user")
	if !ok {
		return
	}
	refs, err := h.reg.RebuildIndex(r.Context(), middleware.Role(r), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "registrations rebuilt", dto.NewList(dto.ToRegisteredEventResps(refs)))
}
