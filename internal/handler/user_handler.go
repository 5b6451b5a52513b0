package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/service"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// UserHandler handles account administration and progress reporting.
type UserHandler struct {
	users    *service.UserService
	progress *service.ProgressService
	exports  *service.ExportService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, progress *service.ProgressService, exports *service.ExportService) *UserHandler {
	return &UserHandler{users: users, progress: progress, exports: exports}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	res := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, dto.NewUserResponse(user))
	}
	response.JSON(c, http.StatusOK, res)
}

// Create godoc
// @Summary Create user
// @Description New accounts must reset their password on first login. Only IT may grant the it role.
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if !bindJSON(c, &req, "Missing required fields") {
		return
	}
	user, err := h.users.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewUserResponse(*user))
}

// Update godoc
// @Summary Update user
// @Description Blank name, empty roles and blank password keep the current values
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body dto.UpdateUserRequest true "User payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req, "invalid user payload") {
		return
	}
	id := firstNonEmpty(c.Param("id"), c.Query("id"), req.ID)
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id required"))
		return
	}
	user, err := h.users.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewUserResponse(*user))
}

// Delete godoc
// @Summary Delete user
// @Description Removes the account, its index entry, progress and quiz attempts
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	id := firstNonEmpty(c.Param("id"), c.Query("id"))
	if id == "" {
		var req dto.TargetUserRequest
		if !bindJSON(c, &req, "id required") {
			return
		}
		id = req.ID
	}
	if err := h.users.Delete(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// ResetProgress godoc
// @Summary Reset a user's progress
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.TargetUserRequest true "Target user"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reset-progress [post]
func (h *UserHandler) ResetProgress(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.TargetUserRequest
	if !bindJSON(c, &req, "id required") {
		return
	}
	if err := h.users.ResetProgress(c.Request.Context(), caller, req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Report godoc
// @Summary User progress report
// @Tags Users
// @Produce json
// @Param id query string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/progress [get]
func (h *UserHandler) Report(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Export godoc
// @Summary Download a user progress report
// @Tags Users
// @Produce text/csv
// @Produce application/pdf
// @Param id query string true "User ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/progress/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	file, err := h.exports.Render(report, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func (h *UserHandler) loadReport(c *gin.Context) (*dto.ProgressReport, bool) {
	id, ok := queryID(c)
	if !ok {
		return nil, false
	}
	target, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	report, err := h.progress.Report(c.Request.Context(), target)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return report, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
