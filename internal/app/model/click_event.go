package model

import "time"

// ClickEvent is the advisory audit record of a single resolution. The
// authoritative counter lives on ShortLink.ClickCount; events only add
// visitor context and may be lost without affecting redirects.
type ClickEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	LinkCode  string    `json:"linkCode" gorm:"size:16;index;not null"`
	IP        string    `json:"ip" gorm:"size:64"`
	UserAgent string    `json:"userAgent" gorm:"size:512"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

const (
	ClickStreamName     = "LINKLITE_CLICKS"
	ClickStreamSubject  = "linklite.clicks"
	ClickConsumerName   = "click-audit"
	ClickStreamMaxBytes = 1024 * 1024 * 64 // 64MB
)
