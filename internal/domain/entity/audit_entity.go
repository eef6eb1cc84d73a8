package entity

import "time"

// AuditEntry is an append-only record of a security-relevant action.
type AuditEntry struct {
	ID        int64
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
