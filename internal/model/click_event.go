package model

import "time"

// ClickEvent is one recorded visit to a short link. Rows are append-only;
// the auto-increment ID preserves arrival order per shortcode.
type ClickEvent struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	ShortURLID uint      `gorm:"index;not null" json:"-"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
	Source     string    `gorm:"size:512" json:"source"`
	Location   string    `gorm:"size:255" json:"location"`
}
