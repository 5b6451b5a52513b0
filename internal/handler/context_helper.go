package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/middleware"
	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/internal/service"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

func principalFromContext(c *gin.Context) *service.Principal {
	return middleware.PrincipalFrom(c)
}

// currentUser returns the authenticated user, answering 401 itself when there is none.
func currentUser(c *gin.Context) (*models.User, bool) {
	principal := principalFromContext(c)
	if principal == nil || principal.User == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return principal.User, true
}

// bindJSON binds a request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// queryID reads the required ?id= parameter.
func queryID(c *gin.Context) (string, bool) {
	id := c.Query("id")
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id required"))
		return "", false
	}
	return id, true
}

// decide answers a gating check: {ok:true}, {ok:false, reason} for gating failures, the plain error otherwise.
func decide(c *gin.Context, err error) {
	switch {
	case err == nil:
		response.OK(c)
	case errors.Is(err, appErrors.ErrForbidden):
		response.Denied(c, err)
	default:
		response.Error(c, err)
	}
}
