package models

import "time"

// RequestStatus defines lifecycle states for game requests.
type RequestStatus string

const (
	// RequestStatusPending indicates the request is awaiting review.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved indicates the request was accepted for the queue.
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected indicates the request was denied with a reason.
	RequestStatusRejected RequestStatus = "rejected"
	// RequestStatusPlayed indicates the game was played on stream.
	RequestStatusPlayed RequestStatus = "played"
	// RequestStatusDuplicate indicates the request duplicates an earlier one.
	RequestStatusDuplicate RequestStatus = "duplicate"
)

// ValidRequestStatus reports whether s is a recognized game request status.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusPlayed, RequestStatusDuplicate:
		return true
	}
	return false
}

// GameRequest is a viewer-submitted request for a game to be played on stream.
//
// Field invariants, maintained by the moderation state machine:
// RejectionReason is non-empty iff Status is rejected; DuplicateOf is set iff
// Status is duplicate; PlayedAt is set iff Status is played.
type GameRequest struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	GameName        string        `gorm:"size:255;not null;index" json:"game_name"`
	GameLink        string        `gorm:"size:500" json:"game_link,omitempty"`
	RequesterName   string        `gorm:"size:100;not null" json:"requester_name"`
	ImagePath       string        `gorm:"size:500" json:"image_path,omitempty"`
	Status          RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedBy     uint          `gorm:"not null;index" json:"requested_by"`
	RequestedByUser *User         `gorm:"foreignKey:RequestedBy" json:"requested_by_user,omitempty"`
	DuplicateOf     *uint         `json:"duplicate_of,omitempty"`
	DuplicateOfReq  *GameRequest  `gorm:"foreignKey:DuplicateOf" json:"duplicate_of_request,omitempty"`
	RejectionReason string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	PlayedAt        *time.Time    `json:"played_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
