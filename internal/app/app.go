package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/marianozunino/uploadpro/internal/auth"
	"github.com/marianozunino/uploadpro/internal/config"
	"github.com/marianozunino/uploadpro/internal/db"
	"github.com/marianozunino/uploadpro/internal/expiration"
	"github.com/marianozunino/uploadpro/internal/handler"
	"github.com/marianozunino/uploadpro/internal/locale"
	middie "github.com/marianozunino/uploadpro/internal/middleware"
	"github.com/marianozunino/uploadpro/internal/migration"
	"github.com/marianozunino/uploadpro/internal/session"
	"github.com/marianozunino/uploadpro/internal/settings"
	"github.com/marianozunino/uploadpro/templates"
)

// App represents the application
type App struct {
	server            *echo.Echo
	expirationManager *expiration.ExpirationManager
	sessions          *session.Manager
	store             *settings.Store
	config            *config.Config
	db                *db.DB
}

// New creates an application from the file named by CONFIG_PATH, or from the
// built-in defaults when it is unset
func New() (*App, error) {
	var cfg *config.Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates an application, migrating its database first
func NewWithConfig(cfg *config.Config) (*App, error) {
	logConfig(cfg)

	if err := setup(cfg); err != nil {
		return nil, err
	}
	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	store := settings.New(database)
	prefs := locale.NewPreferences(database, cfg.DefaultLocale)
	sessions := session.NewManager(session.Deps{
		Settings:    store,
		Catalog:     locale.Load(context.Background(), localesFS(cfg)),
		Credentials: auth.CredentialsFromConfig(cfg),
	}, cfg.SessionTTLDuration())

	expirationManager, err := expiration.NewExpirationManager(cfg, sessions)
	if err != nil {
		log.Printf("Warning: Failed to initialize expiration manager: %v", err)
		sessions.Close()
		database.Close()
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 5 * time.Minute
	e.Server.WriteTimeout = 5 * time.Minute
	e.Server.IdleTimeout = 2 * time.Minute
	e.Server.ReadHeaderTimeout = 30 * time.Second

	app := &App{
		server:            e,
		expirationManager: expirationManager,
		sessions:          sessions,
		store:             store,
		config:            cfg,
		db:                database,
	}

	h := handler.NewHandler(cfg, store, prefs)
	signer := auth.NewSigner(cfg.SessionSecret, middie.VisitorCookieTTL)

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middie.SecurityHeaders())
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: fmt.Sprintf("%dM", int(cfg.MaxRequestSize)),
		// uploads are limited by the handler against the admin's max file size
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodPost && c.Request().URL.Path == "/upload/select"
		},
	}))
	e.Use(middie.Sessions(sessions, signer, prefs, strings.HasPrefix(cfg.BaseURL, "https://")))
	e.Use(middie.Maintenance(store, h.HandleMaintenance))

	registerRoutes(e, app, h)
	return app, nil
}

// Handler exposes the HTTP handler, for serving the app in tests
func (a *App) Handler() http.Handler {
	return a.server
}

// Start starts the application
func (a *App) Start() {
	if a.expirationManager != nil {
		a.expirationManager.Start()
	}

	serverAddr := fmt.Sprintf(":%d", a.config.Port)

	go func() {
		if err := a.server.Start(serverAddr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	log.Printf("Server started on %s", serverAddr)
}

// Stop stops all application services
func (a *App) Stop() {
	if a.expirationManager != nil {
		a.expirationManager.Stop()
	}
	if a.sessions != nil {
		a.sessions.Close()
	}
}

// Shutdown gracefully shuts down the server and closes the database
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return a.db.Close()
}

// logConfig prints the configuration with its secrets masked
func logConfig(cfg *config.Config) {
	masked := *cfg
	for _, secret := range []*string{&masked.SessionSecret, &masked.UserPassword, &masked.AdminPassword} {
		if *secret != "" {
			*secret = "********"
		}
	}
	data, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return
	}
	log.Printf("Configuration:\n%s", string(data))
}

// setup ensures the database directory exists
func setup(cfg *config.Config) error {
	return os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755)
}

func migrate(database *db.DB) error {
	m, err := migration.NewManagerWithDB(database.DB)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer m.Close()
	return m.Up()
}

// localesFS prefers the configured dictionary directory over the embedded one
func localesFS(cfg *config.Config) fs.FS {
	if cfg.LocalesPath == "" {
		return locale.Embedded()
	}
	if _, err := os.Stat(cfg.LocalesPath); err != nil {
		log.Printf("Warning: Locales path %s is unusable, using built-in dictionaries: %v", cfg.LocalesPath, err)
		return locale.Embedded()
	}
	return os.DirFS(cfg.LocalesPath)
}

// registerRoutes registers all HTTP routes
func registerRoutes(e *echo.Echo, app *App, h *handler.Handler) {
	static := http.FileServer(http.FS(templates.Static()))
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", static)))

	e.GET("/favicon.ico", func(c echo.Context) error {
		if app.store.Settings().SiteIcon != "" {
			return c.Redirect(http.StatusFound, "/media/site-icon")
		}
		return c.Redirect(http.StatusFound, "/static/favicon.svg")
	})

	h.Register(e)
}
