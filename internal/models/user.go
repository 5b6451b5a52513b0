package models

import (
	"strings"
	"time"
)

// PasswordRecord is the stored output of the credential derivation.
type PasswordRecord struct {
	Algorithm  string `json:"algorithm"`
	Iterations int    `json:"iterations"`
	Salt       string `json:"salt"`
	Hash       string `json:"hash"`
}

// User is an LMS account stored under users:{id}.
type User struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Username          string         `json:"username"`
	Password          PasswordRecord `json:"password"`
	Roles             RoleSet        `json:"roles"`
	MustResetPassword bool           `json:"mustResetPassword"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// UserIndexEntry is one row of the users:index record.
type UserIndexEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
