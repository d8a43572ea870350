package domain

import (
	"time"

	"github.com/google/uuid"
)

type MirrorReason string

const (
	MirrorRegistered      MirrorReason = "registered"
	MirrorAdminRegistered MirrorReason = "admin_registered"
	MirrorUnregistered    MirrorReason = "unregistered"
	MirrorStatusChanged   MirrorReason = "status_changed"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxDone    OutboxStatus = "done"
	OutboxDead    OutboxStatus = "dead"
)

// MirrorOp asks for the registration index of UserID to be resynced with the
// participant list of EventID.
type MirrorOp struct {
	ID          string
	UserID      string
	EventID     string
	Reason      MirrorReason
	Status      OutboxStatus
	Attempts    int
	NextRetryAt time.Time
	LastError   string
	RequestID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewMirrorOp(userID, eventID string, reason MirrorReason, requestID string, due time.Time, now time.Time) *MirrorOp {
	return &MirrorOp{
		ID:          uuid.NewString(),
		UserID:      userID,
		EventID:     eventID,
		Reason:      reason,
		Status:      OutboxPending,
		NextRetryAt: due.UTC(),
		RequestID:   requestID,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
}
