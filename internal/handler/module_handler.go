package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/service"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// ModuleHandler exposes the learner's side of the progression state machine.
type ModuleHandler struct {
	progress *service.ProgressService
}

// NewModuleHandler constructs a module handler.
func NewModuleHandler(progress *service.ProgressService) *ModuleHandler {
	return &ModuleHandler{progress: progress}
}

// List godoc
// @Summary List visible modules
// @Description Modules visible to the caller with completion and lock flags; required-first modules come first
// @Tags Modules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /modules [get]
func (h *ModuleHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.progress.List(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Detail godoc
// @Summary Module detail
// @Tags Modules
// @Produce json
// @Param id query string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /module [get]
func (h *ModuleHandler) Detail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := queryID(c)
	if !ok {
		return
	}
	res, err := h.progress.Detail(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Access godoc
// @Summary Check module access
// @Tags Modules
// @Produce json
// @Param id query string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /module-access [get]
func (h *ModuleHandler) Access(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := queryID(c)
	if !ok {
		return
	}
	decide(c, h.progress.CanAccess(c.Request.Context(), user, id))
}

// QuizEligibility godoc
// @Summary Check quiz eligibility
// @Tags Quiz
// @Produce json
// @Param id query string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /quiz-eligibility [get]
func (h *ModuleHandler) QuizEligibility(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := queryID(c)
	if !ok {
		return
	}
	decide(c, h.progress.CheckQuizEligibility(c.Request.Context(), user, id))
}

// View godoc
// @Summary Record a module view
// @Tags Modules
// @Accept json
// @Produce json
// @Param payload body dto.ModuleRequest true "Module"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /view [post]
func (h *ModuleHandler) View(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ModuleRequest
	if !bindJSON(c, &req, "moduleId required") {
		return
	}
	_, err := h.progress.RecordView(c.Request.Context(), user, req.ModuleID)
	decide(c, err)
}

// Acknowledge godoc
// @Summary Acknowledge module content
// @Tags Modules
// @Accept json
// @Produce json
// @Param payload body dto.ModuleRequest true "Module"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /ack [post]
func (h *ModuleHandler) Acknowledge(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ModuleRequest
	if !bindJSON(c, &req, "moduleId required") {
		return
	}
	_, err := h.progress.Acknowledge(c.Request.Context(), user, req.ModuleID)
	decide(c, err)
}

// AdvancePage godoc
// @Summary Record the reached page of a paged module
// @Tags Modules
// @Accept json
// @Produce json
// @Param payload body dto.PageRequest true "Page"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /progress/page [post]
func (h *ModuleHandler) AdvancePage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.PageRequest
	if !bindJSON(c, &req, "moduleId and pageIndex required") {
		return
	}
	entry, err := h.progress.AdvancePage(c.Request.Context(), user, req.ModuleID, *req.PageIndex)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// CompleteModule godoc
// @Summary Complete a quiz-less module
// @Tags Modules
// @Accept json
// @Produce json
// @Param payload body dto.ModuleRequest true "Module"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /complete-module [post]
func (h *ModuleHandler) CompleteModule(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ModuleRequest
	if !bindJSON(c, &req, "moduleId required") {
		return
	}
	_, err := h.progress.CompleteModule(c.Request.Context(), user, req.ModuleID)
	decide(c, err)
}

// CompleteIntroduction godoc
// @Summary Complete the introduction
// @Tags Modules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /complete-intro [post]
func (h *ModuleHandler) CompleteIntroduction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	_, err := h.progress.CompleteIntroduction(c.Request.Context(), user)
	decide(c, err)
}

// Progress godoc
// @Summary Caller progress
// @Tags Modules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /progress [get]
func (h *ModuleHandler) Progress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.progress.Progress(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
