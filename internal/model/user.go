package model

import "time"

// User represents a registered account.
//
// Accounts are created either with email+password (PasswordHash set) or via
// GitHub OAuth (GitHubID set). Both fields may be populated if a user links
// both methods. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"github_id,omitempty"`
	Login        string    `json:"login,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
