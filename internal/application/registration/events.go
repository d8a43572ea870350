package registration

import "time"

const (
	RKRegistrationCreated   = "registration.created"
	RKRegistrationCancelled = "registration.cancelled"
	RKStatusChanged         = "registration.status_changed"
)

// RegistrationEvent is the broker payload for every roster change.
type RegistrationEvent struct {
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	ParticipantID string    `json:"participant_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	ActorID       string    `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	RequestID     string    `json:"request_id,omitempty"`
}
