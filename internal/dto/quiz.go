package dto

import "github.com/noah-isme/bw-lms-api/internal/models"

// QuizQuestionView is a question with shuffled answer texts and no answer key.
type QuizQuestionView struct {
	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers"`
}

// QuizResponse is the body of GET /quiz.
type QuizResponse struct {
	ModuleID  string             `json:"moduleId"`
	Title     string             `json:"title"`
	Style     models.Style       `json:"style,omitempty"`
	Questions []QuizQuestionView `json:"questions"`
}

// QuizSubmitRequest carries the selected answer position per question.
type QuizSubmitRequest struct {
	ModuleID string `json:"moduleId" binding:"required"`
	Answers  []int  `json:"answers"`
}

// QuizSubmitResponse reports the outcome of a submission.
type QuizSubmitResponse struct {
	Passed bool `json:"passed"`
}
