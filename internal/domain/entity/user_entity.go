package entity

import (
	"net/url"
	"strings"
	"time"
)

// User is the aggregate root for the credential store.
// Password holds the bcrypt hash and is never serialized by the API layer.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultAvatarURL builds a generated initials avatar for a display name.
func DefaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=6D28D9&color=fff"
}
