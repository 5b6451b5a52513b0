package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/bw-lms-api/api/swagger"
	"github.com/noah-isme/bw-lms-api/internal/handler"
	internalmiddleware "github.com/noah-isme/bw-lms-api/internal/middleware"
	"github.com/noah-isme/bw-lms-api/internal/repository"
	"github.com/noah-isme/bw-lms-api/internal/service"
	"github.com/noah-isme/bw-lms-api/pkg/config"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
	"github.com/noah-isme/bw-lms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/bw-lms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/bw-lms-api/pkg/middleware/requestid"
)

// App is the composed LMS server.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    kv.Store
	Metrics  *service.MetricsService
	Users    *service.UserService
	Catalog  *service.CatalogService
	Progress *service.ProgressService
	Quiz     *service.QuizService
	Auth     *service.AuthService
	Router   *gin.Engine
}

// OpenStore connects the configured key-value backend. The returned closer releases it.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (kv.Store, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		log.Warn("using in-memory store; data is lost on restart")
		return kv.NewMemoryStore(), func() error { return nil }, nil
	case config.StoreRedis:
		store, err := kv.OpenRedis(ctx, cfg.Redis, cfg.Store.ConnectTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, store.Close, nil
	case config.StorePostgres:
		store, err := kv.OpenPostgres(ctx, cfg.Database, cfg.Store.ConnectTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if swept, err := store.Sweep(ctx); err != nil {
			log.Warn("failed to sweep expired records", zap.Error(err))
		} else if swept > 0 {
			log.Info("swept expired records", zap.Int64("count", swept))
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// New wires repositories, services, handlers and the gin engine over store.
func New(cfg *config.Config, log *zap.Logger, store kv.Store) *App {
	if log == nil {
		log = zap.NewNop()
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		store = kv.Instrument(store, metrics)
	}
	validate := validator.New()

	userRepo := repository.NewUserRepository(store)
	sessionRepo := repository.NewSessionRepository(store)
	moduleRepo := repository.NewModuleRepository(store)
	progressRepo := repository.NewProgressRepository(store)

	credentials := service.NewCredentialService(cfg.Credentials.Iterations)
	sessions := service.NewSessionService(sessionRepo, log, service.SessionConfig{TTL: cfg.Session.TTL, RotateAfter: cfg.Session.RotateAfter})
	catalog := service.NewCatalogService(moduleRepo, log)
	progress := service.NewProgressService(catalog, progressRepo, metrics, log)
	quiz := service.NewQuizService(progress, progressRepo, metrics, log, cfg.Quiz.AttemptTTL)
	users := service.NewUserService(userRepo, credentials, progress, validate, log)
	auth := service.NewAuthService(users, sessions, credentials, metrics, validate, log)
	exports := service.NewExportService(log, nil, nil)

	cookie := internalmiddleware.SessionCookie{
		Name:       cfg.Session.CookieName,
		LegacyName: cfg.Session.LegacyCookieName,
		Secure:     cfg.Session.CookieSecure,
		MaxAge:     cfg.Session.TTL,
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:      handler.NewAuthHandler(auth, cookie),
		Modules:   handler.NewModuleHandler(progress),
		Quiz:      handler.NewQuizHandler(quiz),
		Users:     handler.NewUserHandler(users, progress, exports),
		Authoring: handler.NewAuthoringHandler(catalog),
		Metrics:   handler.NewMetricsHandler(metrics, store),
	}, auth, handler.RouteConfig{
		APIPrefix:      cfg.APIPrefix,
		Cookie:         cookie,
		MetricsEnabled: cfg.Metrics.Enabled,
	}, log)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &App{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Metrics:  metrics,
		Users:    users,
		Catalog:  catalog,
		Progress: progress,
		Quiz:     quiz,
		Auth:     auth,
		Router:   r,
	}
}

// Seed creates the bootstrap accounts when the directory is empty and seeding is enabled.
func (a *App) Seed(ctx context.Context) error {
	if !a.Config.Seed.Enabled {
		return nil
	}
	seeded, err := a.Users.SeedIfEmpty(ctx, a.Config.Seed.Password, service.DefaultSeedAccounts)
	if err != nil {
		return err
	}
	if seeded {
		a.Logger.Info("seeded bootstrap accounts; each must reset its password on first login")
	}
	return nil
}
