package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/registration"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

func ToEventResp(e *domain.Event, now time.Time) EventResp {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EventResp{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Location:    e.Location,
		Tags:        tags,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Registration: RegistrationResp{
			Deadline:            e.Registration.Deadline,
			MaxParticipants:     e.Registration.MaxParticipants,
			CurrentParticipants: e.Registration.CurrentParticipants,
			TeamSize:            TeamSizeResp{Min: e.Registration.TeamSize.Min, Max: e.Registration.TeamSize.Max},
			Open:                e.Status.AcceptsRegistrations() && now.Before(e.Registration.Deadline),
		},
		Status:           string(e.Status),
		Views:            e.Views,
		ParticipantCount: len(e.Participants),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToEventResps(es []*domain.Event, now time.Time) []EventResp {
	out := make([]EventResp, 0, len(es))
	for _, e := range es {
		out = append(out, ToEventResp(e, now))
	}
	return out
}

func ToEventDetailResp(v *registration.EventView, now time.Time) EventDetailResp {
	out := EventDetailResp{EventResp: ToEventResp(v.Event, now)}
	out.ParticipantCount = v.ParticipantCount
	if v.Privileged() {
		ps := ToParticipantResps(v.Participants)
		out.Participants = &ps
	}
	return out
}

func ToParticipantResp(p domain.Participant, prof *domain.Profile) ParticipantResp {
	out := ParticipantResp{
		ID:           p.ID,
		UserID:       p.UserID,
		RegisteredAt: p.RegisteredAt,
		Status:       string(p.Status),
		TeamName:     p.TeamName,
		TeamMembers:  p.TeamMembers,
		Phone:        p.Phone,
		Notes:        p.Notes,
	}
	if prof != nil {
		out.User = &ProfileResp{ID: prof.ID, Name: prof.Name, Email: prof.Email, Avatar: prof.Avatar, Bio: prof.Bio}
	}
	return out
}

func ToParticipantResps(vs []registration.ParticipantView) []ParticipantResp {
	out := make([]ParticipantResp, 0, len(vs))
	for _, v := range vs {
		out = append(out, ToParticipantResp(v.Participant, v.Profile))
	}
	return out
}

func ToRegisteredEventResps(refs []domain.RegisteredEvent) []RegisteredEventResp {
	out := make([]RegisteredEventResp, 0, len(refs))
	for _, r := range refs {
		out = append(out, RegisteredEventResp{EventID: r.EventID, Status: string(r.Status)})
	}
	return out
}

func ToUserResp(u *domain.User) UserResp {
	return UserResp{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Avatar:        u.Avatar,
		Bio:           u.Bio,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func ToNoteResp(n *domain.Note) NoteResp {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResp{
		ID:          n.ID,
		AuthorID:    n.AuthorID,
		Title:       n.Title,
		Content:     n.Content,
		Subject:     n.Subject,
		Tags:        tags,
		Rating:      n.Rating,
		RatingCount: n.RatingCount,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func ToNoteResps(ns []*domain.Note) []NoteResp {
	out := make([]NoteResp, 0, len(ns))
	for _, n := range ns {
		out = append(out, ToNoteResp(n))
	}
	return out
}

func ToContactResp(m *domain.ContactMessage) ContactResp {
	return ContactResp{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Subject:    m.Subject,
		Message:    m.Message,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
		ResolvedAt: m.ResolvedAt,
	}
}

func ToContactResps(ms []*domain.ContactMessage) []ContactResp {
	out := make([]ContactResp, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToContactResp(m))
	}
	return out
}

func (r CreateEventReq) Draft() domain.EventDraft {
	d := domain.EventDraft{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Location:        r.Location,
		Tags:            r.Tags,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Deadline:        r.RegistrationDeadline,
		MaxParticipants: r.MaxParticipants,
	}
	if r.TeamSize != nil {
		d.TeamSize = domain.TeamSize{Min: r.TeamSize.Min, Max: r.TeamSize.Max}
	}
	return d
}

func (r RegisterReq) Form() domain.RegistrationForm {
	return domain.RegistrationForm{
		TeamName:    r.TeamName,
		TeamMembers: r.TeamMembers,
		Phone:       r.Phone,
		Notes:       r.Notes,
	}
}
