package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/middleware"
	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/internal/repository"
	"github.com/noah-isme/bw-lms-api/internal/service"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withUser(c *gin.Context, user *models.User) {
	c.Set(middleware.ContextPrincipalKey, &service.Principal{User: user, Session: &models.Session{Token: "t", UserID: user.ID}})
}

func newModuleHandler() *ModuleHandler {
	store := kv.NewMemoryStore()
	catalog := service.NewCatalogService(repository.NewModuleRepository(store), zap.NewNop())
	return NewModuleHandler(service.NewProgressService(catalog, repository.NewProgressRepository(store), nil, zap.NewNop()))
}

func decodeDecision(t *testing.T, w *httptest.ResponseRecorder) decisionResponse {
	t.Helper()
	var body decisionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type decisionResponse struct {
	Data struct {
		OK     bool   `json:"ok"`
		Reason string `json:"reason"`
	} `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func TestDecide(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/", nil)
	decide(c, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeDecision(t, w).Data.OK)

	c, w = newGinContext(http.MethodGet, "/", nil)
	decide(c, appErrors.Clone(appErrors.ErrForbidden, "Must open module first"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeDecision(t, w)
	assert.False(t, body.Data.OK)
	assert.Equal(t, "Must open module first", body.Data.Reason)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)

	c, w = newGinContext(http.MethodGet, "/", nil)
	decide(c, appErrors.Clone(appErrors.ErrNotFound, "module not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, decodeDecision(t, w).Data.Reason)
}

func TestModuleHandlerAccess(t *testing.T) {
	h := newModuleHandler()
	user := &models.User{ID: "u1", Roles: models.NewRoleSet(models.RoleInstructor)}

	c, w := newGinContext(http.MethodGet, "/module-access", nil)
	withUser(c, user)
	h.Access(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/module-access?id=introduction", nil)
	withUser(c, user)
	h.Access(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/module-access?id=attendance", nil)
	withUser(c, user)
	h.Access(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, service.ReasonIntroFirst, decodeDecision(t, w).Data.Reason)

	c, w = newGinContext(http.MethodGet, "/modules", nil)
	h.List(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestModuleHandlerAdvancePageValidation(t *testing.T) {
	h := newModuleHandler()
	user := &models.User{ID: "u1", Roles: models.NewRoleSet(models.RoleInstructor)}

	payload, _ := json.Marshal(map[string]string{"moduleId": "introduction"})
	c, w := newGinContext(http.MethodPost, "/progress/page", payload)
	withUser(c, user)
	h.AdvancePage(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	zero := 0
	payload, _ = json.Marshal(dto.PageRequest{ModuleID: "introduction", PageIndex: &zero})
	c, w = newGinContext(http.MethodPost, "/progress/page", payload)
	withUser(c, user)
	h.AdvancePage(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "module has no pages", decodeDecision(t, w).Error.Message)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
}
