package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ReasonDeadlinePassed    = "Registration deadline has passed"
	ReasonAlreadyRegistered = "User is already registered for this event"
	ReasonNotRegistered     = "User is not registered for this event"
	ReasonRegistrationShut  = "Registration is not open for this event"
)

// Participant is owned by its Event and never referenced on its own.
type Participant struct {
	ID           string
	UserID       string
	RegisteredAt time.Time
	Status       ParticipantStatus

	TeamName    string
	TeamMembers []string
	Phone       string
	Notes       string
}

// RegistrationForm carries the free-form fields captured at sign-up.
type RegistrationForm struct {
	TeamName    string
	TeamMembers []string
	Phone       string
	Notes       string
}

type Admission struct {
	Allowed bool
	Reason  string
}

// CanRegister evaluates the admission rules in order; the first failing rule wins.
// Capacity is intentionally not part of admission.
func (e *Event) CanRegister(userID string, now time.Time) Admission {
	if !now.Before(e.Registration.Deadline) {
		return Admission{Reason: ReasonDeadlinePassed}
	}
	if e.ParticipantByUser(userID) != nil {
		return Admission{Reason: ReasonAlreadyRegistered}
	}
	return Admission{Allowed: true}
}

func (e *Event) ParticipantByUser(userID string) *Participant {
	for i := range e.Participants {
		if e.Participants[i].UserID == userID {
			return &e.Participants[i]
		}
	}
	return nil
}

func (e *Event) ParticipantByID(participantID string) *Participant {
	for i := range e.Participants {
		if e.Participants[i].ID == participantID {
			return &e.Participants[i]
		}
	}
	return nil
}

// AddParticipant appends a participant and bumps the counter. Admission is the
// caller's job.
func (e *Event) AddParticipant(userID string, status ParticipantStatus, form RegistrationForm, now time.Time) Participant {
	p := Participant{
		ID:           uuid.NewString(),
		UserID:       userID,
		RegisteredAt: now.UTC(),
		Status:       status,
		TeamName:     strings.TrimSpace(form.TeamName),
		TeamMembers:  form.TeamMembers,
		Phone:        strings.TrimSpace(form.Phone),
		Notes:        strings.TrimSpace(form.Notes),
	}
	e.Participants = append(e.Participants, p)
	e.Registration.CurrentParticipants++
	e.UpdatedAt = now.UTC()
	return p
}

// RemoveParticipant drops every entry for userID and decrements the counter, never below zero.
func (e *Event) RemoveParticipant(userID string, now time.Time) error {
	kept := e.Participants[:0]
	removed := false
	for _, p := range e.Participants {
		if p.UserID == userID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return ErrBusinessRule(ReasonNotRegistered)
	}
	e.Participants = kept
	if e.Registration.CurrentParticipants > 0 {
		e.Registration.CurrentParticipants--
	}
	e.UpdatedAt = now.UTC()
	return nil
}

// SetParticipantStatus overwrites the status of one participant. Any status may
// move to any other status.
func (e *Event) SetParticipantStatus(participantID string, status ParticipantStatus, now time.Time) (Participant, error) {
	if !status.Valid() {
		return Participant{}, ErrBusinessRule("Invalid status. Must be one of: registered, confirmed, attended, cancelled")
	}
	p := e.ParticipantByID(participantID)
	if p == nil {
		return Participant{}, ErrNotFound("participant not found")
	}
	p.Status = status
	e.UpdatedAt = now.UTC()
	return *p, nil
}
