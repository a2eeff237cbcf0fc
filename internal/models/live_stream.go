package models

import "time"

// LiveStream is a stream announcement shown on the home page. At most one
// stream has IsActive=true at any time; activation is transactional.
type LiveStream struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	YoutubeURL    string     `gorm:"size:500;not null" json:"youtube_url"`
	ThumbnailURL  string     `gorm:"size:500" json:"thumbnail_url,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	IsActive      bool       `gorm:"not null;default:false;index" json:"is_active"`
	CreatedBy     uint       `gorm:"not null;index" json:"created_by"`
	CreatedByUser *User      `gorm:"foreignKey:CreatedBy" json:"created_by_user,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SiteSetting is a simple key/value pair for site-wide configuration managed
// from the admin panel.
type SiteSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
