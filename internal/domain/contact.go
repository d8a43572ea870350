package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactResolved ContactStatus = "resolved"
)

type ContactMessage struct {
	ID         string
	Name       string
	Email      string
	Subject    string
	Message    string
	Status     ContactStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

func NewContactMessage(name, email, subject, message string, now time.Time) (*ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)

	meta := map[string]string{}
	if name == "" || len(name) > 100 {
		meta["name"] = "required, <= 100 chars"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		meta["email"] = "must be a valid email"
	}
	if subject == "" || len(subject) > 200 {
		meta["subject"] = "required, <= 200 chars"
	}
	if message == "" || len(message) > 5000 {
		meta["message"] = "required, <= 5000 chars"
	}
	if len(meta) > 0 {
		return nil, ErrValidationMeta("invalid contact message", meta)
	}
	return &ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		Status:    ContactNew,
		CreatedAt: now.UTC(),
	}, nil
}

func (m *ContactMessage) Resolve(now time.Time) error {
	if m.Status == ContactResolved {
		return ErrBusinessRule("message already resolved")
	}
	t := now.UTC()
	m.Status = ContactResolved
	m.ResolvedAt = &t
	return nil
}
