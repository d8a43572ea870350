package dto

import "time"

type TeamSizeResp struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type RegistrationResp struct {
	Deadline            time.Time    `json:"deadline"`
	MaxParticipants     *int         `json:"max_participants,omitempty"`
	CurrentParticipants int          `json:"current_participants"`
	TeamSize            TeamSizeResp `json:"team_size"`
	Open                bool         `json:"open"`
}

type EventResp struct {
	ID               string           `json:"id"`
	OrganizerID      string           `json:"organizer_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Location         string           `json:"location,omitempty"`
	Tags             []string         `json:"tags"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	Registration     RegistrationResp `json:"registration"`
	Status           string           `json:"status"`
	Views            int64            `json:"views"`
	ParticipantCount int              `json:"participant_count"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type ProfileResp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

type ParticipantResp struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	User         *ProfileResp `json:"user,omitempty"`
	RegisteredAt time.Time    `json:"registered_at"`
	Status       string       `json:"status"`
	TeamName     string       `json:"team_name,omitempty"`
	TeamMembers  []string     `json:"team_members,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// EventDetailResp carries the roster only for privileged viewers. A nil
// pointer drops the key; a pointer to an empty slice renders [].
type EventDetailResp struct {
	EventResp
	Participants *[]ParticipantResp `json:"participants,omitempty"`
}

type AdmissionResp struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type RegisteredEventResp struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

type UserResp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Avatar        string    `json:"avatar,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type NoteResp struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Subject     string    `json:"subject"`
	Tags        []string  `json:"tags"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ContactResp struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type ListResp[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func NewList[T any](items []T) ListResp[T] {
	if items == nil {
		items = []T{}
	}
	return ListResp[T]{Items: items, Count: len(items)}
}
