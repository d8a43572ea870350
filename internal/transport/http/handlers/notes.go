package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/note"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/response"
)

type NotesHandler struct {
	notes *note.Service
}

func NewNotesHandler(notes *note.Service) *NotesHandler {
	return &NotesHandler{notes: notes}
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.notes.List(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.NewList(dto.ToNoteResps(items)))
}

func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "note_id", "note")
	if !ok {
		return
	}
	n, err := h.notes.Get(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.ToNoteResp(n))
}

func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNoteReq
	if !bind(w, r, &req) {
		return
	}
	n, err := h.notes.Create(r.Context(), note.CreateCmd{
		AuthorID: middleware.UserID(r),
		Title:    req.Title,
		Content:  req.Content,
		Subject:  req.Subject,
		Tags:     req.Tags,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, "note created", dto.ToNoteResp(n))
}

func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "note_id", "note")
	if !ok {
		return
	}
	if err := h.notes.Delete(r.Context(), id, middleware.UserID(r), middleware.Role(r)); err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "note deleted", nil)
}

func (h *NotesHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "note_id", "note")
	if !ok {
		return
	}
	var req dto.RateReq
	if !bind(w, r, &req) {
		return
	}
	n, err := h.notes.Rate(r.Context(), id, middleware.UserID(r), req.Rating)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "rating recorded", dto.ToNoteResp(n))
}
