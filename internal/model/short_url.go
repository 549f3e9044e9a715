package model

import "time"

type ShortURL struct {
	BaseModel
	Shortcode   string       `gorm:"uniqueIndex;size:32;not null" json:"shortcode"`
	OriginalURL string       `gorm:"size:2048;not null" json:"originalUrl"`
	ExpiresAt   *time.Time   `json:"expiresAt"`
	Clicks      []ClickEvent `gorm:"foreignKey:ShortURLID" json:"clicks,omitempty"`
}

// Expired reports whether the record can no longer be resolved.
// A nil ExpiresAt means the link never expires.
func (u *ShortURL) Expired(now time.Time) bool {
	return u.ExpiresAt != nil && now.After(*u.ExpiresAt)
}
