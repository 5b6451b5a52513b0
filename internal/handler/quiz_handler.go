package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/service"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// QuizHandler serves shuffled quizzes and scores submissions.
type QuizHandler struct {
	quiz *service.QuizService
}

// NewQuizHandler constructs a quiz handler.
func NewQuizHandler(quiz *service.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

// Start godoc
// @Summary Start a quiz attempt
// @Description Returns the module's questions with shuffled answers. Starting again replaces the previous attempt.
// @Tags Quiz
// @Produce json
// @Param id query string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /quiz [get]
func (h *QuizHandler) Start(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := queryID(c)
	if !ok {
		return
	}
	res, err := h.quiz.Start(c.Request.Context(), user, id)
	if err != nil {
		decide(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Answers are the selected positions per question. The attempt is consumed whether or not it passes.
// @Tags Quiz
// @Accept json
// @Produce json
// @Param payload body dto.QuizSubmitRequest true "Answers"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /quiz/submit [post]
func (h *QuizHandler) Submit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.QuizSubmitRequest
	if !bindJSON(c, &req, "moduleId and answers required") {
		return
	}
	res, err := h.quiz.Submit(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
