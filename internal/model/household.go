package model

import "time"

const DefaultHouseholdName = "My household"

type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

type Invitation struct {
	ID            string           `json:"id"`
	FromUserID    string           `json:"from_user_id"`
	FromUserName  string           `json:"from_user_name"`
	ToEmail       string           `json:"to_email"`
	HouseholdID   string           `json:"household_id"`
	HouseholdName string           `json:"household_name"`
	Status        InvitationStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	RespondedAt   *time.Time       `json:"responded_at"`
}
