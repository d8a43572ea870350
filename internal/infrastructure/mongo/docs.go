package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type teamSizeDoc struct {
	Min int `bson:"min"`
	Max int `bson:"max"`
}

type registrationDoc struct {
	Deadline            time.Time   `bson:"deadline"`
	MaxParticipants     *int        `bson:"max_participants,omitempty"`
	CurrentParticipants int         `bson:"current_participants"`
	TeamSize            teamSizeDoc `bson:"team_size"`
}

type participantDoc struct {
	ID           string    `bson:"id"`
	UserID       string    `bson:"user_id"`
	RegisteredAt time.Time `bson:"registered_at"`
	Status       string    `bson:"status"`
	TeamName     string    `bson:"team_name,omitempty"`
	TeamMembers  []string  `bson:"team_members,omitempty"`
	Phone        string    `bson:"phone,omitempty"`
	Notes        string    `bson:"notes,omitempty"`
}

type eventDoc struct {
	ID           string           `bson:"_id"`
	OrganizerID  string           `bson:"organizer_id"`
	Title        string           `bson:"title"`
	Description  string           `bson:"description"`
	Category     string           `bson:"category"`
	Location     string           `bson:"location"`
	Tags         []string         `bson:"tags"`
	StartDate    time.Time        `bson:"start_date"`
	EndDate      time.Time        `bson:"end_date"`
	Registration registrationDoc  `bson:"registration"`
	Participants []participantDoc `bson:"participants"`
	Status       string           `bson:"status"`
	Views        int64            `bson:"views"`
	Version      int64            `bson:"version"`
	CreatedAt    time.Time        `bson:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at"`
}

func toEventDoc(e *domain.Event) eventDoc {
	ps := make([]participantDoc, 0, len(e.Participants))
	for _, p := range e.Participants {
		ps = append(ps, participantDoc{
			ID:           p.ID,
			UserID:       p.UserID,
			RegisteredAt: p.RegisteredAt,
			Status:       string(p.Status),
			TeamName:     p.TeamName,
			TeamMembers:  p.TeamMembers,
			Phone:        p.Phone,
			Notes:        p.Notes,
		})
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return eventDoc{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Location:    e.Location,
		Tags:        tags,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Registration: registrationDoc{
			Deadline:            e.Registration.Deadline,
			MaxParticipants:     e.Registration.MaxParticipants,
			CurrentParticipants: e.Registration.CurrentParticipants,
			TeamSize:            teamSizeDoc{Min: e.Registration.TeamSize.Min, Max: e.Registration.TeamSize.Max},
		},
		Participants: ps,
		Status:       string(e.Status),
		Views:        e.Views,
		Version:      e.Version,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// setFields is the $set body of a versioned save. views is left out so that
// concurrent $inc from readers is never overwritten.
func (d eventDoc) setFields() bson.M {
	return bson.M{
		"title":        d.Title,
		"description":  d.Description,
		"category":     d.Category,
		"location":     d.Location,
		"tags":         d.Tags,
		"start_date":   d.StartDate,
		"end_date":     d.EndDate,
		"registration": d.Registration,
		"participants": d.Participants,
		"status":       d.Status,
		"version":      d.Version,
		"updated_at":   d.UpdatedAt,
	}
}

func (d eventDoc) toDomain() *domain.Event {
	ps := make([]domain.Participant, 0, len(d.Participants))
	for _, p := range d.Participants {
		ps = append(ps, domain.Participant{
			ID:           p.ID,
			UserID:       p.UserID,
			RegisteredAt: p.RegisteredAt.UTC(),
			Status:       domain.ParticipantStatus(p.Status),
			TeamName:     p.TeamName,
			TeamMembers:  p.TeamMembers,
			Phone:        p.Phone,
			Notes:        p.Notes,
		})
	}
	return &domain.Event{
		ID:          d.ID,
		OrganizerID: d.OrganizerID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Tags:        d.Tags,
		StartDate:   d.StartDate.UTC(),
		EndDate:     d.EndDate.UTC(),
		Registration: domain.Registration{
			Deadline:            d.Registration.Deadline.UTC(),
			MaxParticipants:     d.Registration.MaxParticipants,
			CurrentParticipants: d.Registration.CurrentParticipants,
			TeamSize:            domain.TeamSize{Min: d.Registration.TeamSize.Min, Max: d.Registration.TeamSize.Max},
		},
		Participants: ps,
		Status:       domain.EventStatus(d.Status),
		Views:        d.Views,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type registeredEventDoc struct {
	EventID string `bson:"event_id"`
	Status  string `bson:"status"`
}

type userDoc struct {
	ID               string               `bson:"_id"`
	Name             string               `bson:"name"`
	Email            string               `bson:"email"`
	Avatar           string               `bson:"avatar,omitempty"`
	Bio              string               `bson:"bio,omitempty"`
	Role             string               `bson:"role"`
	PasswordHash     string               `bson:"password_hash"`
	EmailVerified    bool                 `bson:"email_verified"`
	RegisteredEvents []registeredEventDoc `bson:"registered_events"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

func toRegisteredEventDocs(refs []domain.RegisteredEvent) []registeredEventDoc {
	out := make([]registeredEventDoc, 0, len(refs))
	for _, r := range refs {
		out = append(out, registeredEventDoc{EventID: r.EventID, Status: string(r.Status)})
	}
	return out
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Avatar:           u.Avatar,
		Bio:              u.Bio,
		Role:             string(u.Role),
		PasswordHash:     u.PasswordHash,
		EmailVerified:    u.EmailVerified,
		RegisteredEvents: toRegisteredEventDocs(u.RegisteredEvents),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	refs := make([]domain.RegisteredEvent, 0, len(d.RegisteredEvents))
	for _, r := range d.RegisteredEvents {
		refs = append(refs, domain.RegisteredEvent{EventID: r.EventID, Status: domain.ParticipantStatus(r.Status)})
	}
	return &domain.User{
		ID:               d.ID,
		Name:             d.Name,
		Email:            d.Email,
		Avatar:           d.Avatar,
		Bio:              d.Bio,
		Role:             domain.Role(d.Role),
		PasswordHash:     d.PasswordHash,
		EmailVerified:    d.EmailVerified,
		RegisteredEvents: refs,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

type ratingDoc struct {
	UserID  string    `bson:"user_id"`
	Value   int       `bson:"value"`
	RatedAt time.Time `bson:"rated_at"`
}

type noteDoc struct {
	ID          string      `bson:"_id"`
	AuthorID    string      `bson:"author_id"`
	Title       string      `bson:"title"`
	Content     string      `bson:"content"`
	Subject     string      `bson:"subject"`
	Tags        []string    `bson:"tags"`
	Ratings     []ratingDoc `bson:"ratings"`
	Rating      float64     `bson:"rating"`
	RatingCount int         `bson:"rating_count"`
	Version     int64       `bson:"version"`
	CreatedAt   time.Time   `bson:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at"`
}

func toNoteDoc(n *domain.Note) noteDoc {
	rs := make([]ratingDoc, 0, len(n.Ratings))
	for _, r := range n.Ratings {
		rs = append(rs, ratingDoc{UserID: r.UserID, Value: r.Value, RatedAt: r.RatedAt})
	}
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteDoc{
		ID:          n.ID,
		AuthorID:    n.AuthorID,
		Title:       n.Title,
		Content:     n.Content,
		Subject:     n.Subject,
		Tags:        tags,
		Ratings:     rs,
		Rating:      n.Rating,
		RatingCount: n.RatingCount,
		Version:     n.Version,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (d noteDoc) toDomain() *domain.Note {
	rs := make([]domain.Rating, 0, len(d.Ratings))
	for _, r := range d.Ratings {
		rs = append(rs, domain.Rating{UserID: r.UserID, Value: r.Value, RatedAt: r.RatedAt.UTC()})
	}
	return &domain.Note{
		ID:          d.ID,
		AuthorID:    d.AuthorID,
		Title:       d.Title,
		Content:     d.Content,
		Subject:     d.Subject,
		Tags:        d.Tags,
		Ratings:     rs,
		Rating:      d.Rating,
		RatingCount: d.RatingCount,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type mirrorOpDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	EventID     string    `bson:"event_id"`
	Reason      string    `bson:"reason"`
	Status      string    `bson:"status"`
	Attempts    int       `bson:"attempts"`
	NextRetryAt time.Time `bson:"next_retry_at"`
	LastError   string    `bson:"last_error,omitempty"`
	RequestID   string    `bson:"request_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toMirrorOpDoc(op *domain.MirrorOp) mirrorOpDoc {
	return mirrorOpDoc{
		ID:          op.ID,
		UserID:      op.UserID,
		EventID:     op.EventID,
		Reason:      string(op.Reason),
		Status:      string(op.Status),
		Attempts:    op.Attempts,
		NextRetryAt: op.NextRetryAt,
		LastError:   op.LastError,
		RequestID:   op.RequestID,
		CreatedAt:   op.CreatedAt,
		UpdatedAt:   op.UpdatedAt,
	}
}

func (d mirrorOpDoc) toDomain() *domain.MirrorOp {
	return &domain.MirrorOp{
		ID:          d.ID,
		UserID:      d.UserID,
		EventID:     d.EventID,
		Reason:      domain.MirrorReason(d.Reason),
		Status:      domain.OutboxStatus(d.Status),
		Attempts:    d.Attempts,
		NextRetryAt: d.NextRetryAt.UTC(),
		LastError:   d.LastError,
		RequestID:   d.RequestID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
