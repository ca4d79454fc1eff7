// Package model defines the data structures used throughout the application.
package model

import "time"

// Identity represents a registered user account.
//
// Users normally register with a username and password; the password is
// stored only as a bcrypt hash. Accounts created through GitHub sign-in
// carry the GitHub numeric user ID instead and have an empty PasswordHash —
// they cannot sign in with a password.
//
// WHY GitHubID int64?
// GitHub user IDs are integers. int64 avoids overflow for large account
// numbers, and 0 doubles as "not a GitHub account" since GitHub never
// issues ID 0.
type Identity struct {
	ID           string    `json:"id"           db:"id"`
	Username     string    `json:"username"     db:"username"` // unique across all identities
	PasswordHash string    `json:"-"            db:"password_hash"`
	GitHubID     int64     `json:"-"            db:"github_id"` // 0 unless created via GitHub OAuth
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
