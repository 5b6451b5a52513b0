package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/middleware"
	"github.com/noah-isme/bw-lms-api/internal/service"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	cookie  middleware.SessionCookie
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// Login godoc
// @Summary Authenticate user
// @Description Verify username and password, open a session and set the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req, "Missing credentials") {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, res.Session.Token, h.cookie.MaxAge)
	response.JSON(c, http.StatusOK, dto.LoginResponse{
		Token:             res.Session.Token,
		MustResetPassword: res.User.MustResetPassword,
		User:              dto.NewUserResponse(*res.User),
	})
}

// Logout godoc
// @Summary Logout current session
// @Description Delete the server-side session and expire the cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	principal := principalFromContext(c)
	if principal != nil {
		if err := h.service.Logout(c.Request.Context(), principal.Token()); err != nil {
			response.Error(c, err)
			return
		}
	}
	middleware.ClearSessionCookie(c, h.cookie)
	response.OK(c)
}

// Me godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, dto.NewUserResponse(*user))
}

// SetPassword godoc
// @Summary Replace a temporary password
// @Description Policy-checked self-service password change; clears the reset requirement
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.SetPasswordRequest true "New password"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /set-password [post]
func (h *AuthHandler) SetPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.SetPasswordRequest
	if !bindJSON(c, &req, "Password required") {
		return
	}
	if err := h.service.SetPassword(c.Request.Context(), user, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
