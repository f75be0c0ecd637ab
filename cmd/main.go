package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/sbilibin2017/auth-gateway/internal/handlers"
	"github.com/sbilibin2017/auth-gateway/internal/logger"
	"github.com/sbilibin2017/auth-gateway/internal/middlewares"
	"github.com/sbilibin2017/auth-gateway/internal/password"
	"github.com/sbilibin2017/auth-gateway/internal/repositories"
	"github.com/sbilibin2017/auth-gateway/internal/secrets"
	"github.com/sbilibin2017/auth-gateway/internal/services"
	"github.com/sbilibin2017/auth-gateway/internal/sessions"
	"github.com/sbilibin2017/auth-gateway/internal/templates"
	"github.com/sbilibin2017/auth-gateway/migrations"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		secretKeyFile, sessionTTLSecond, rememberTTLSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		secretKeyFile, sessionTTLSecond, rememberTTLSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database and session configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	secretKeyFile string, sessionTTLSecond, rememberTTLSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Session config. The signing key lives in a file created on first
	// run; keep it out of any shared distribution.
	secretKeyFile = getEnv("SECRET_KEY_FILE", "instance/secret_key.txt")
	if sessionTTLSecond, err = strconv.Atoi(getEnv("SESSION_TTL_SECOND", "43200")); err != nil {
		return
	}
	if rememberTTLSecond, err = strconv.Atoi(getEnv("SESSION_REMEMBER_TTL_SECOND", "2592000")); err != nil {
		return
	}

	return
}

// run initializes the logger, database and session manager, applies
// migrations, sets up routes and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	secretKeyFile string, sessionTTLSecond, rememberTTLSecond int,
) error {
	// Initialize logger
	log, err := logger.New(logLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		log.Errorw("PostgreSQL ping failed", "error", err)
		return err
	}

	// Apply schema migrations. The unique email constraint created here
	// is what makes registration race-safe.
	if err := applyMigrations(dsn); err != nil {
		log.Errorw("failed to apply migrations", "error", err)
		return err
	}
	log.Info("Migrations applied")

	// Load or create the session-signing key
	secretKey, err := secrets.LoadOrCreateKey(secretKeyFile)
	if err != nil {
		log.Errorw("failed to load signing key", "error", err)
		return err
	}

	// Initialize session manager
	sessionManager := sessions.New(secretKey,
		time.Duration(sessionTTLSecond)*time.Second,
		time.Duration(rememberTTLSecond)*time.Second,
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db, log)
	userWriteRepo := repositories.NewUserWriteRepository(db, log)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, password.NewHasher(), log)

	// Initialize templates
	renderer, err := templates.New()
	if err != nil {
		log.Errorw("failed to parse templates", "error", err)
		return err
	}

	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(sessionManager)
	registerHandler := handlers.NewRegisterHandler(authService, renderer, log)
	loginHandler := handlers.NewLoginHandler(authService, sessionManager, renderer, log)
	dashboardHandler := handlers.NewDashboardHandler(authService, renderer, log)
	logoutHandler := handlers.NewLogoutHandler(sessionManager)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))

	r.Get("/", homeHandler)

	// Anonymous-only routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RedirectAuthenticated(sessionManager))
		r.Get("/register", registerHandler)
		r.Post("/register", registerHandler)
		r.Get("/login", loginHandler)
		r.Post("/login", loginHandler)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAuth(sessionManager))
		r.Get("/dashboard", dashboardHandler)
		r.Get("/logout", logoutHandler)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}

// applyMigrations runs the embedded migrations against the database.
func applyMigrations(dsn string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
