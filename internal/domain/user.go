package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RegisteredEvent is one entry of a user's registration index. The index is
// derived from event participant lists and can be rebuilt at any time.
type RegisteredEvent struct {
	EventID string
	Status  ParticipantStatus
}

type User struct {
	ID            string
	Name          string
	Email         string
	Avatar        string
	Bio           string
	Role          Role
	PasswordHash  string
	EmailVerified bool

	RegisteredEvents []RegisteredEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public part of a user shown to event organizers.
type Profile struct {
	ID     string
	Name   string
	Email  string
	Avatar string
	Bio    string
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Bio: u.Bio}
}

func NewUser(name, email, passwordHash string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || len(name) > 100 {
		return nil, ErrValidationMeta("invalid user", map[string]string{"name": "required, <= 100 chars"})
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrValidationMeta("invalid user", map[string]string{"email": "must be a valid email"})
	}
	if passwordHash == "" {
		return nil, ErrValidation("password hash is required")
	}
	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         RoleUser,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IndexFromEvents derives the registration index for userID from events.
func IndexFromEvents(userID string, events []*Event) []RegisteredEvent {
	out := make([]RegisteredEvent, 0, len(events))
	for _, e := range events {
		if p := e.ParticipantByUser(userID); p != nil {
			out = append(out, RegisteredEvent{EventID: e.ID, Status: p.Status})
		}
	}
	return out
}
