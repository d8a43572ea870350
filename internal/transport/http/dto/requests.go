package dto

import "time"

type TeamSizeReq struct {
	Min int `json:"min" validate:"min=1"`
	Max int `json:"max" validate:"gtefield=Min"`
}

type CreateEventReq struct {
	Title                string       `json:"title" validate:"required,max=200"`
	Description          string       `json:"description" validate:"required,max=5000"`
	Category             string       `json:"category" validate:"required,max=80"`
	Location             string       `json:"location" validate:"max=200"`
	Tags                 []string     `json:"tags" validate:"max=20,dive,max=40"`
	StartDate            time.Time    `json:"start_date" validate:"required"`
	EndDate              time.Time    `json:"end_date" validate:"required,gtfield=StartDate"`
	RegistrationDeadline time.Time    `json:"registration_deadline" validate:"required"`
	MaxParticipants      *int         `json:"max_participants,omitempty" validate:"omitempty,min=1"`
	TeamSize             *TeamSizeReq `json:"team_size,omitempty"`
}

type UpdateEventReq struct {
	Title                *string      `json:"title,omitempty" validate:"omitempty,max=200"`
	Description          *string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category             *string      `json:"category,omitempty" validate:"omitempty,max=80"`
	Location             *string      `json:"location,omitempty" validate:"omitempty,max=200"`
	Tags                 *[]string    `json:"tags,omitempty"`
	StartDate            *time.Time   `json:"start_date,omitempty"`
	EndDate              *time.Time   `json:"end_date,omitempty"`
	RegistrationDeadline *time.Time   `json:"registration_deadline,omitempty"`
	MaxParticipants      *int         `json:"max_participants,omitempty" validate:"omitempty,min=1"`
	TeamSize             *TeamSizeReq `json:"team_size,omitempty"`
}

type RegisterReq struct {
	TeamName    string   `json:"team_name" validate:"max=100"`
	TeamMembers []string `json:"team_members" validate:"max=20,dive,max=100"`
	Phone       string   `json:"phone" validate:"max=40"`
	Notes       string   `json:"notes" validate:"max=1000"`
}

type AdminRegisterReq struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	RegisterReq
}

type StatusReq struct {
	Status string `json:"status" validate:"required"`
}

type SignupReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type TokenReq struct {
	Token string `json:"token" validate:"required"`
}

type PasswordResetRequestReq struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmReq struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type CreateNoteReq struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Subject string   `json:"subject" validate:"required,max=100"`
	Tags    []string `json:"tags" validate:"max=20,dive,max=40"`
}

type RateReq struct {
	Rating int `json:"rating" validate:"min=1,max=5"`
}

type ContactReq struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ContactUpdateReq struct {
	Status string `json:"status" validate:"required,oneof=resolved"`
}
