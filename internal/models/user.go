// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is the closed set of privilege levels a user can hold.
type Role string

const (
	// RoleMember is the default role assigned at registration.
	RoleMember Role = "member"
	// RoleModerator may review and transition submissions.
	RoleModerator Role = "moderator"
	// RoleAdmin may do everything a moderator can, plus user and stream management.
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the three recognized roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleMember, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// AtLeast reports whether r carries at least the privilege of other.
// Roles form a total order: admin > moderator > member.
func (r Role) AtLeast(other Role) bool {
	rank := map[Role]int{RoleMember: 1, RoleModerator: 2, RoleAdmin: 3}
	return rank[r] >= rank[other]
}

// User represents a registered member of the BRRADS Empire community.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"not null" json:"-"`
	Email     string     `gorm:"size:255" json:"email,omitempty"`
	FullName  string     `gorm:"size:100" json:"full_name,omitempty"`
	Role      Role       `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	GameRequests []GameRequest `gorm:"foreignKey:RequestedBy;constraint:OnDelete:CASCADE" json:"-"`
	FanArt       []FanArt      `gorm:"foreignKey:SubmittedBy;constraint:OnDelete:CASCADE" json:"-"`
}
