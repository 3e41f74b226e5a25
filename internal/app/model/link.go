package model

import "time"

// CodeLength is the fixed length of every generated short code.
const CodeLength = 6

// ShortLink maps a short code to its destination URL.
type ShortLink struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	ShortCode   string    `json:"shortCode" gorm:"uniqueIndex;size:16;not null"`
	OriginalURL string    `json:"originalUrl" gorm:"type:text;not null"`
	Title       string    `json:"title,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	ClickCount  int64     `json:"clickCount" gorm:"not null;default:0"`
}
