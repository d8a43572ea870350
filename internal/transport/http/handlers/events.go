package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/registration"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/response"
)

type EventsHandler struct {
	events *event.Service
	reg    *registration.Service
	clock  Clock
}

func NewEventsHandler(events *event.Service, reg *registration.Service, clock Clock) *EventsHandler {
	return &EventsHandler{events: events, reg: reg, clock: clock}
}

func (h *EventsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.ListPublished(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.NewList(dto.ToEventResps(items, h.clock.Now())))
}

// Get presents one event; the roster is only included for its organizer and admins.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	view, err := h.reg.Present(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.ToEventDetailResp(view, h.clock.Now()))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventReq
	if !bind(w, r, &req) {
		return
	}
	e, err := h.events.Create(r.Context(), event.CreateCmd{
		ActorID:   middleware.UserID(r),
		ActorRole: middleware.Role(r),
		Draft:     req.Draft(),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, "event created", dto.ToEventResp(e, h.clock.Now()))
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	var req dto.UpdateEventReq
	if !bind(w, r, &req) {
		return
	}
	cmd := event.UpdateCmd{
		ActorID:         middleware.UserID(r),
		ActorRole:       middleware.Role(r),
		EventID:         id,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Location:        req.Location,
		Tags:            req.Tags,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Deadline:        req.RegistrationDeadline,
		MaxParticipants: req.MaxParticipants,
	}
	if req.TeamSize != nil {
		cmd.TeamSize = &domain.TeamSize{Min: req.TeamSize.Min, Max: req.TeamSize.Max}
	}
	e, err := h.events.Update(r.Context(), cmd)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "event updated", dto.ToEventResp(e, h.clock.Now()))
}

func (h *EventsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	e, err := h.events.Publish(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "event published", dto.ToEventResp(e, h.clock.Now()))
}

func (h *EventsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "event_id", "event")
	if !ok {
		return
	}
	e, err := h.events.Cancel(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, r, http.StatusOK, "event cancelled", dto.ToEventResp(e, h.clock.Now()))
}

func (h *EventsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.events.ListMine(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, dto.NewList(dto.ToEventResps(items, h.clock.Now())))
}
