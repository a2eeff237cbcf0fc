package models

import "time"

// FanArtStatus defines lifecycle states for fan art submissions.
type FanArtStatus string

const (
	// FanArtStatusPending indicates the piece is awaiting review.
	FanArtStatusPending FanArtStatus = "pending"
	// FanArtStatusApproved indicates the piece is visible in the public gallery.
	FanArtStatusApproved FanArtStatus = "approved"
	// FanArtStatusRejected indicates the piece was declined.
	FanArtStatusRejected FanArtStatus = "rejected"
)

// ValidFanArtStatus reports whether s is a recognized fan art status.
func ValidFanArtStatus(s FanArtStatus) bool {
	switch s {
	case FanArtStatusPending, FanArtStatusApproved, FanArtStatusRejected:
		return true
	}
	return false
}

// FanArt is a community-submitted artwork. ApprovedBy and ApprovedAt are both
// set iff Status is approved.
type FanArt struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	ArtistName      string       `gorm:"size:100;not null" json:"artist_name"`
	ImagePath       string       `gorm:"size:500;not null" json:"image_path"`
	Description     string       `gorm:"type:text" json:"description,omitempty"`
	Status          FanArtStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SubmittedBy     uint         `gorm:"not null;index" json:"submitted_by"`
	SubmittedByUser *User        `gorm:"foreignKey:SubmittedBy" json:"submitted_by_user,omitempty"`
	ApprovedBy      *uint        `json:"approved_by,omitempty"`
	ApprovedByUser  *User        `gorm:"foreignKey:ApprovedBy" json:"approved_by_user,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
