package router

import (
	"errors"
	"net/http"

	authsvc "certify-backend/internal/application/auth"
	"certify-backend/internal/application/certstore"
	"certify-backend/internal/application/issuance"
	"certify-backend/internal/application/signing"
	tplsvc "certify-backend/internal/application/templates"
	usersvc "certify-backend/internal/application/user"
	"certify-backend/internal/application/verification"
	"certify-backend/internal/config"
	"certify-backend/internal/infrastructure/database"
	"certify-backend/internal/infrastructure/metrics"
	authhandler "certify-backend/internal/interfaces/handlers/auth"
	certhandler "certify-backend/internal/interfaces/handlers/certificates"
	healthhandler "certify-backend/internal/interfaces/handlers/health"
	tplhandler "certify-backend/internal/interfaces/handlers/templates"
	userhandler "certify-backend/internal/interfaces/handlers/user"
	verifyhandler "certify-backend/internal/interfaces/handlers/verify"
	"certify-backend/internal/middleware"
	"certify-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrMissingDatabase = errors.New("DATABASE_URL is required")

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires config into the Fiber app and returns the DB and Redis handles so
// callers can check and close them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, ErrMissingDatabase
	}
	signer, err := signing.NewService([]byte(cfg.SigningSecret))
	if err != nil {
		return nil, nil, nil, err
	}
	rdb, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		rdb.Close()
		return nil, nil, nil, err
	}
	if database.IsSQLite(cfg.DatabaseURL) {
		if err := database.AutoMigrate(db); err != nil {
			rdb.Close()
			return nil, nil, nil, err
		}
		log.Info().Msg("sqlite schema migrated")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               verifyhandler.MaxUploadSize + 1<<20,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Session(rdb))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	gormStore := &certstore.GormStore{DB: db, Timeout: cfg.StoreTimeout}
	store := &certstore.CachedStore{Store: gormStore, Rdb: rdb, TTL: cfg.CertCacheTTL}
	reporter := metrics.NewPrometheusReporter()
	issuer := &issuance.Service{
		Store:       store,
		Signer:      signer,
		MaxAttempts: cfg.IssueMaxAttempts,
		Metrics:     reporter,
	}
	verifier := &verification.Service{Store: store, Signer: signer, Metrics: reporter}
	catalog := tplsvc.Default()

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		Certificates:   gormStore,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	sessionCfg := middleware.SessionConfig{
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	ah := &authhandler.Handlers{
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	th := &tplhandler.Handlers{Catalog: catalog}
	app.Get("/api/v1/templates", th.List)

	vh := &verifyhandler.Handlers{Verifier: verifier}
	app.Post("/api/v1/verify", vh.Verify)
	app.Post("/api/v1/verify/upload", vh.Upload)

	ch := &certhandler.Handlers{Issuer: issuer, Verifier: verifier, Store: gormStore, Templates: catalog}
	cg := app.Group("/api/v1/certificates")
	cg.Post("/generate", middleware.RequireAuth(), middleware.AuthorizePermission(constants.IssueCertificates), ch.Generate)
	cg.Get("/", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewCertificates), ch.List)
	cg.Get("/:id", ch.Get)

	uh := &userhandler.Handlers{Service: &usersvc.Service{DB: db, Rdb: rdb}}
	ug := app.Group("/api/v1/users", middleware.RequireAuth())
	ug.Get("/view-user", uh.ViewUser)
	ug.Get("/", middleware.AuthorizePermission(constants.ManageUsers), uh.ListUsers)
	ug.Post("/create-user", middleware.AuthorizePermission(constants.ManageUsers), uh.CreateUser)
	ug.Patch("/update-role", middleware.AuthorizePermission(constants.ManageUsers), uh.UpdateRole)

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
