package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TeamSize struct {
	Min int
	Max int
}

type Registration struct {
	Deadline            time.Time
	MaxParticipants     *int // informational only, never enforced
	CurrentParticipants int
	TeamSize            TeamSize
}

type Event struct {
	ID          string
	OrganizerID string
	Title       string
	Description string
	Category    string
	Location    string
	Tags        []string
	StartDate   time.Time
	EndDate     time.Time

	Registration Registration
	Participants []Participant

	Status EventStatus
	Views  int64

	// Version is bumped by every successful save and guards concurrent writers.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventDraft struct {
	Title           string
	Description     string
	Category        string
	Location        string
	Tags            []string
	StartDate       time.Time
	EndDate         time.Time
	Deadline        time.Time
	MaxParticipants *int
	TeamSize        TeamSize
}

func NewDraft(organizerID string, d EventDraft, now time.Time) (*Event, error) {
	organizerID = strings.TrimSpace(organizerID)
	if organizerID == "" {
		return nil, ErrValidation("organizer_id is required")
	}

	e := &Event{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		Status:      StatusDraft,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := e.apply(d); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Event) apply(d EventDraft) error {
	title := strings.TrimSpace(d.Title)
	description := strings.TrimSpace(d.Description)
	category := strings.TrimSpace(d.Category)
	location := strings.TrimSpace(d.Location)

	if title == "" || len(title) > 200 {
		return ErrValidationMeta("invalid event", map[string]string{"title": "required, <= 200 chars"})
	}
	if description == "" || len(description) > 5000 {
		return ErrValidationMeta("invalid event", map[string]string{"description": "required, <= 5000 chars"})
	}
	if category == "" || len(category) > 80 {
		return ErrValidationMeta("invalid event", map[string]string{"category": "required, <= 80 chars"})
	}
	if len(location) > 200 {
		return ErrValidationMeta("invalid event", map[string]string{"location": "<= 200 chars"})
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() || !d.EndDate.After(d.StartDate) {
		return ErrValidationMeta("invalid event", map[string]string{"end_date": "must be after start_date"})
	}
	if d.Deadline.IsZero() || d.Deadline.After(d.StartDate) {
		return ErrValidationMeta("invalid event", map[string]string{"registration_deadline": "required, not after start_date"})
	}
	if d.MaxParticipants != nil && *d.MaxParticipants < 1 {
		return ErrValidationMeta("invalid event", map[string]string{"max_participants": "must be >= 1"})
	}
	ts := d.TeamSize
	if ts.Min == 0 && ts.Max == 0 {
		ts = TeamSize{Min: 1, Max: 1}
	}
	if ts.Min < 1 || ts.Max < ts.Min {
		return ErrValidationMeta("invalid event", map[string]string{"team_size": "min >= 1 and max >= min"})
	}

	e.Title = title
	e.Description = description
	e.Category = category
	e.Location = location
	e.Tags = normalizeTags(d.Tags)
	e.StartDate = d.StartDate.UTC()
	e.EndDate = d.EndDate.UTC()
	e.Registration.Deadline = d.Deadline.UTC()
	e.Registration.MaxParticipants = d.MaxParticipants
	e.Registration.TeamSize = ts
	return nil
}

// Draft returns the editable fields of e, used to apply partial updates.
func (e *Event) Draft() EventDraft {
	return EventDraft{
		Title:           e.Title,
		Description:     e.Description,
		Category:        e.Category,
		Location:        e.Location,
		Tags:            append([]string(nil), e.Tags...),
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		Deadline:        e.Registration.Deadline,
		MaxParticipants: e.Registration.MaxParticipants,
		TeamSize:        e.Registration.TeamSize,
	}
}

func (e *Event) ApplyUpdate(d EventDraft, now time.Time) error {
	if e.Status == StatusCancelled || e.Status == StatusCompleted {
		return ErrBusinessRule("event can no longer be edited")
	}
	if err := e.apply(d); err != nil {
		return err
	}
	e.UpdatedAt = now.UTC()
	return nil
}

func (e *Event) Publish(now time.Time) error {
	if e.Status != StatusDraft {
		return ErrBusinessRule("only draft events can be published")
	}
	if !e.EndDate.After(now) {
		return ErrBusinessRule("cannot publish an event that has already ended")
	}
	e.Status = StatusPublished
	e.UpdatedAt = now.UTC()
	return nil
}

func (e *Event) Cancel(now time.Time) error {
	if e.Status == StatusCancelled {
		return ErrBusinessRule("event already cancelled")
	}
	if e.Status == StatusCompleted {
		return ErrBusinessRule("cannot cancel a completed event")
	}
	e.Status = StatusCancelled
	e.UpdatedAt = now.UTC()
	return nil
}

func (e *Event) IsOrganizer(userID string) bool {
	return userID != "" && userID == e.OrganizerID
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
