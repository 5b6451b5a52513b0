package models

import "time"

// ProgressEntry is the durable state of one user on one module.
type ProgressEntry struct {
	ViewedAt       *time.Time `json:"viewedAt,omitempty"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	PageIndex      int        `json:"pageIndex"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	LastQuizPassed *bool      `json:"lastQuizPassed,omitempty"`
	LastQuizAt     *time.Time `json:"lastQuizAt,omitempty"`
}

// Progress maps module ids to entries and is stored under progress:{userId}.
type Progress map[string]ProgressEntry

// Completed reports whether the module is completed.
func (p Progress) Completed(moduleID string) bool {
	return p[moduleID].Completed
}

// QuizAttempt holds the verification key of one in-flight quiz attempt.
// It lives under attempts:{userId}:{moduleId} with its own TTL.
type QuizAttempt struct {
	UserID    string    `json:"userId"`
	ModuleID  string    `json:"moduleId"`
	Key       []int     `json:"key"`
	StartedAt time.Time `json:"startedAt"`
}
