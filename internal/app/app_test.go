package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/service"
	"github.com/noah-isme/bw-lms-api/pkg/config"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

const seedPassword = "Seed-Password-1"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t   *testing.T
	app *App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:         config.EnvDevelopment,
		APIPrefix:   "/api",
		Store:       config.StoreConfig{Driver: config.StoreMemory},
		Session:     config.SessionConfig{TTL: 7 * 24 * time.Hour, RotateAfter: 30 * time.Minute, CookieName: "bw_session", LegacyCookieName: "bw_sess"},
		Credentials: config.CredentialConfig{Iterations: 1000},
		Quiz:        config.QuizConfig{AttemptTTL: time.Hour},
		Seed:        config.SeedConfig{Enabled: true, Password: seedPassword},
		Metrics:     config.MetricsConfig{Enabled: true},
	}
	application := New(cfg, zap.NewNop(), kv.NewMemoryStore())
	require.NoError(t, application.Seed(context.Background()))
	return &testServer{t: t, app: application}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.Router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) data(env envelope, dest interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(env.Data, dest))
}

// login signs a seeded account in and replaces its temporary password.
func (s *testServer) login(username string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/login", "", dto.LoginRequest{Username: username, Password: seedPassword})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var res dto.LoginResponse
	s.data(env, &res)
	require.True(s.t, res.MustResetPassword)
	assert.Contains(s.t, rec.Header().Get("Set-Cookie"), "bw_session="+res.Token)

	rec, _ = s.do(http.MethodPost, "/api/set-password", res.Token, dto.SetPasswordRequest{Password: "Fresh-Start-2024"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return res.Token
}

func (s *testServer) post(path, token string, body interface{}) {
	s.t.Helper()
	rec, _ := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusOK, rec.Code, "%s: %s", path, rec.Body.String())
}

func (s *testServer) completeIntro(token string) {
	s.post("/api/view", token, dto.ModuleRequest{ModuleID: "introduction"})
	s.post("/api/ack", token, dto.ModuleRequest{ModuleID: "introduction"})
	s.post("/api/complete-intro", token, nil)
}

// correctPositions maps each served question back to the position of its correct answer text.
func correctPositions(t *testing.T, moduleID string, quiz dto.QuizResponse) []int {
	t.Helper()
	for _, m := range service.BuiltinModules() {
		if m.ID != moduleID {
			continue
		}
		positions := make([]int, len(quiz.Questions))
		for i, q := range m.Quiz.Questions {
			var correct string
			for _, a := range q.Answers {
				if a.ID == q.CorrectAnswerID {
					correct = a.Text
				}
			}
			positions[i] = -1
			for pos, text := range quiz.Questions[i].Answers {
				if text == correct {
					positions[i] = pos
				}
			}
			require.NotEqual(t, -1, positions[i])
		}
		return positions
	}
	require.Fail(t, "unknown module", moduleID)
	return nil
}

func (s *testServer) startQuiz(token, moduleID string) dto.QuizResponse {
	s.t.Helper()
	rec, env := s.do(http.MethodGet, "/api/quiz?id="+moduleID, token, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(s.t, strings.ToLower(rec.Body.String()), "correct")
	var quiz dto.QuizResponse
	s.data(env, &quiz)
	return quiz
}

func (s *testServer) progress(token string) dto.ProgressResponse {
	s.t.Helper()
	rec, env := s.do(http.MethodGet, "/api/progress", token, nil)
	require.Equal(s.t, http.StatusOK, rec.Code)
	var res dto.ProgressResponse
	s.data(env, &res)
	return res
}

func TestInstructorCompletesVisionQuiz(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "instructor", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	token := s.login("instructor")

	rec, env = s.do(http.MethodGet, "/api/module-access?id=vision", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var decision struct {
		OK     bool   `json:"ok"`
		Reason string `json:"reason"`
	}
	s.data(env, &decision)
	assert.False(t, decision.OK)
	assert.Equal(t, service.ReasonIntroFirst, decision.Reason)

	s.completeIntro(token)

	rec, _ = s.do(http.MethodGet, "/api/module-access?id=vision", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 33, s.progress(token).Percent)

	s.post("/api/view", token, dto.ModuleRequest{ModuleID: "vision"})
	s.post("/api/ack", token, dto.ModuleRequest{ModuleID: "vision"})

	quiz := s.startQuiz(token, "vision")
	require.Len(t, quiz.Questions, 3)

	rec, env = s.do(http.MethodPost, "/api/quiz/submit", token, dto.QuizSubmitRequest{ModuleID: "vision", Answers: correctPositions(t, "vision", quiz)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result dto.QuizSubmitResponse
	s.data(env, &result)
	assert.True(t, result.Passed)

	progress := s.progress(token)
	assert.True(t, progress.Progress["vision"].Completed)
	assert.Equal(t, 67, progress.Percent)
}

func TestFailedQuizRequiresFreshAttempt(t *testing.T) {
	s := newTestServer(t)
	token := s.login("instructor")
	s.completeIntro(token)
	s.post("/api/view", token, dto.ModuleRequest{ModuleID: "vision"})
	s.post("/api/ack", token, dto.ModuleRequest{ModuleID: "vision"})

	quiz := s.startQuiz(token, "vision")
	answers := correctPositions(t, "vision", quiz)
	wrong := append([]int(nil), answers...)
	wrong[2] = (wrong[2] + 1) % len(quiz.Questions[2].Answers)

	rec, env := s.do(http.MethodPost, "/api/quiz/submit", token, dto.QuizSubmitRequest{ModuleID: "vision", Answers: wrong})
	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.QuizSubmitResponse
	s.data(env, &result)
	assert.False(t, result.Passed)
	assert.False(t, s.progress(token).Progress["vision"].Completed)

	rec, env = s.do(http.MethodPost, "/api/quiz/submit", token, dto.QuizSubmitRequest{ModuleID: "vision", Answers: answers})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EXPIRED_ATTEMPT", env.Error.Code)

	quiz = s.startQuiz(token, "vision")
	rec, env = s.do(http.MethodPost, "/api/quiz/submit", token, dto.QuizSubmitRequest{ModuleID: "vision", Answers: correctPositions(t, "vision", quiz)})
	require.Equal(t, http.StatusOK, rec.Code)
	s.data(env, &result)
	assert.True(t, result.Passed)
}

func TestPasswordResetGate(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "cs", Password: seedPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.LoginResponse
	s.data(env, &res)

	rec, env = s.do(http.MethodGet, "/api/modules", res.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PASSWORD_RESET_REQUIRED", env.Error.Code)

	rec, _ = s.do(http.MethodGet, "/api/me", res.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/set-password", res.Token, dto.SetPasswordRequest{Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 10 characters.", env.Error.Message)

	rec, _ = s.do(http.MethodPost, "/api/logout", res.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/me", res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdministration(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin")
	it := s.login("it")
	cs := s.login("cs")

	rec, _ := s.do(http.MethodGet, "/api/admin/users", cs, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/admin/users", admin, dto.CreateUserRequest{Name: "Tech", Username: "tech", Password: "temp-pass", Roles: []string{"it"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/admin/users", admin, dto.CreateUserRequest{Name: "Casey", Username: "casey", Password: "temp-pass", Roles: []string{"cs"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var casey dto.UserResponse
	s.data(env, &casey)
	assert.True(t, casey.MustResetPassword)

	rec, _ = s.do(http.MethodPost, "/api/admin/users", admin, dto.CreateUserRequest{Name: "Dup", Username: "CASEY", Password: "temp-pass", Roles: []string{"cs"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPut, "/api/admin/users/"+casey.ID, admin, dto.UpdateUserRequest{Username: "casey", Roles: []string{"cs", "it"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = s.do(http.MethodPut, "/api/admin/users", it, dto.UpdateUserRequest{ID: casey.ID, Username: "casey", Roles: []string{"cs", "it"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/admin/progress?id="+casey.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report dto.ProgressReport
	s.data(env, &report)
	assert.Equal(t, 0, report.Percent)
	assert.NotEmpty(t, report.Modules)

	rec, _ = s.do(http.MethodGet, "/api/admin/progress/export?format=csv&id="+casey.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Module ID,Module,Status\n"))

	rec, _ = s.do(http.MethodPost, "/api/admin/reset-progress", admin, dto.TargetUserRequest{ID: casey.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/admin/users/"+casey.ID, it, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/admin/progress?id="+casey.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthoringFeedsLearnerCatalog(t *testing.T) {
	s := newTestServer(t)
	it := s.login("it")
	instructor := s.login("instructor")
	s.completeIntro(instructor)

	rec, _ := s.do(http.MethodPost, "/api/it/modules", instructor, dto.ModuleInput{Title: "Nope", Roles: []string{"instructor"}, Content: "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/it/modules", it, dto.ModuleInput{ID: "vision", Title: "Clash", Roles: []string{"instructor"}, Content: "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/it/modules", it, dto.ModuleInput{Title: "Pool Gate Checks", Roles: []string{"instructor"}, Content: "Close the gate."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(http.MethodGet, "/api/modules", instructor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.ModuleListResponse
	s.data(env, &list)
	ids := make([]string, 0, len(list.Modules))
	for _, m := range list.Modules {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"introduction", "vision", "attendance", "pool-gate-checks"}, ids)
	assert.Equal(t, 25, list.Percent)

	s.post("/api/view", instructor, dto.ModuleRequest{ModuleID: "pool-gate-checks"})
	s.post("/api/ack", instructor, dto.ModuleRequest{ModuleID: "pool-gate-checks"})
	s.post("/api/complete-module", instructor, dto.ModuleRequest{ModuleID: "pool-gate-checks"})
	assert.Equal(t, 50, s.progress(instructor).Percent)

	rec, _ = s.do(http.MethodDelete, "/api/it/modules/pool-gate-checks", it, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/it/modules/pool-gate-checks", it, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProbesAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.login("admin")

	rec, _ := s.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lms_logins_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "lms_kv_operation_duration_seconds")
}
