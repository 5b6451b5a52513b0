package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/middleware"
	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/internal/service"
)

// Handlers groups the handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	Modules   *ModuleHandler
	Quiz      *QuizHandler
	Users     *UserHandler
	Authoring *AuthoringHandler
	Metrics   *MetricsHandler
}

// RouteConfig carries the transport settings routes depend on.
type RouteConfig struct {
	APIPrefix      string
	Cookie         middleware.SessionCookie
	MetricsEnabled bool
}

// RegisterRoutes mounts probes and the API. Everything but login requires a session;
// progression, quiz and administration additionally require a current password.
func RegisterRoutes(r *gin.Engine, h Handlers, auth *service.AuthService, cfg RouteConfig, logger *zap.Logger) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if cfg.MetricsEnabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)
	api.POST("/login", h.Auth.Login)

	authed := api.Group("", middleware.Session(auth, cfg.Cookie))
	authed.POST("/logout", h.Auth.Logout)
	authed.GET("/me", h.Auth.Me)
	authed.POST("/set-password", h.Auth.SetPassword)

	learner := authed.Group("", middleware.RequirePasswordCurrent())
	learner.GET("/modules", h.Modules.List)
	learner.GET("/module", h.Modules.Detail)
	learner.GET("/module-access", h.Modules.Access)
	learner.GET("/quiz-eligibility", h.Modules.QuizEligibility)
	learner.POST("/view", h.Modules.View)
	learner.POST("/ack", h.Modules.Acknowledge)
	learner.GET("/progress", h.Modules.Progress)
	learner.POST("/progress/page", h.Modules.AdvancePage)
	learner.POST("/progress/complete", h.Modules.CompleteModule)
	learner.POST("/complete-module", h.Modules.CompleteModule)
	learner.POST("/complete-intro", h.Modules.CompleteIntroduction)
	learner.GET("/quiz", h.Quiz.Start)
	learner.POST("/quiz/submit", h.Quiz.Submit)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleIT)

	admin := learner.Group("/admin", staff)
	admin.GET("/users", h.Users.List)
	admin.POST("/users", middleware.Audit(logger, "create", "user"), h.Users.Create)
	admin.PUT("/users", middleware.Audit(logger, "update", "user"), h.Users.Update)
	admin.PUT("/users/:id", middleware.Audit(logger, "update", "user"), h.Users.Update)
	admin.DELETE("/users", middleware.Audit(logger, "delete", "user"), h.Users.Delete)
	admin.DELETE("/users/:id", middleware.Audit(logger, "delete", "user"), h.Users.Delete)
	admin.POST("/reset-progress", middleware.Audit(logger, "reset", "progress"), h.Users.ResetProgress)
	admin.GET("/progress", h.Users.Report)
	admin.GET("/progress/export", h.Users.Export)

	it := learner.Group("/it", staff)
	it.GET("/modules", h.Authoring.List)
	it.GET("/modules/:id", h.Authoring.Get)
	it.POST("/modules", middleware.Audit(logger, "create", "module"), h.Authoring.Create)
	it.PUT("/modules/:id", middleware.Audit(logger, "update", "module"), h.Authoring.Update)
	it.DELETE("/modules/:id", middleware.Audit(logger, "delete", "module"), h.Authoring.Delete)
}
