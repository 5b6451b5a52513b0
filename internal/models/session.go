package models

import "time"

// Session is an opaque server-side login session stored under sessions:{token}.
type Session struct {
	Token         string    `json:"token"`
	UserID        string    `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
	LastRotatedAt time.Time `json:"lastRotatedAt"`
}
