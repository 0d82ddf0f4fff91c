package domain

import (
	"regexp"
	"time"
)

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Usernames: 3-20 characters, leading letter, then letters/digits/underscore.
var usernameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,19}$`)

// Emails are checked loosely; the store's unique index is the final authority
// on identity, not the format.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidUsername reports whether s satisfies the account naming rules.
func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
