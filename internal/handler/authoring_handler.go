package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/service"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// AuthoringHandler manages custom modules and built-in overrides.
type AuthoringHandler struct {
	catalog *service.CatalogService
}

// NewAuthoringHandler constructs an authoring handler.
func NewAuthoringHandler(catalog *service.CatalogService) *AuthoringHandler {
	return &AuthoringHandler{catalog: catalog}
}

// List godoc
// @Summary List authorable modules
// @Tags Authoring
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /it/modules [get]
func (h *AuthoringHandler) List(c *gin.Context) {
	modules, err := h.catalog.AuthoringList(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules)
}

// Get godoc
// @Summary Authoring view of a module
// @Tags Authoring
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /it/modules/{id} [get]
func (h *AuthoringHandler) Get(c *gin.Context) {
	detail, err := h.catalog.AuthoringDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Create godoc
// @Summary Create a custom module
// @Tags Authoring
// @Accept json
// @Produce json
// @Param payload body dto.ModuleInput true "Module"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /it/modules [post]
func (h *AuthoringHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var in dto.ModuleInput
	if !bindJSON(c, &in, "invalid module payload") {
		return
	}
	module, err := h.catalog.CreateCustom(c.Request.Context(), caller, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// Update godoc
// @Summary Replace a custom module or a built-in override
// @Tags Authoring
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body dto.ModuleInput true "Module"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /it/modules/{id} [put]
func (h *AuthoringHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var in dto.ModuleInput
	if !bindJSON(c, &in, "invalid module payload") {
		return
	}
	module, err := h.catalog.Update(c.Request.Context(), caller, c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module)
}

// Delete godoc
// @Summary Delete a custom module or revert a built-in override
// @Tags Authoring
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /it/modules/{id} [delete]
func (h *AuthoringHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
