package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/auth"
	"github.com/VladimirTheNoob/Budget-tracker/internal/core/events"
	"github.com/VladimirTheNoob/Budget-tracker/internal/employee"
	employeepg "github.com/VladimirTheNoob/Budget-tracker/internal/employee/postgres"
	"github.com/VladimirTheNoob/Budget-tracker/internal/goal"
	goalpg "github.com/VladimirTheNoob/Budget-tracker/internal/goal/postgres"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/VladimirTheNoob/Budget-tracker/internal/notification"
	"github.com/VladimirTheNoob/Budget-tracker/internal/role"
	rolepg "github.com/VladimirTheNoob/Budget-tracker/internal/role/postgres"
	"github.com/VladimirTheNoob/Budget-tracker/internal/task"
	taskpg "github.com/VladimirTheNoob/Budget-tracker/internal/task/postgres"
	"github.com/VladimirTheNoob/Budget-tracker/internal/transport/rest"
	"github.com/VladimirTheNoob/Budget-tracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(lg)

	employeeRepo := employeepg.NewEmployeeRepository(gormDB)
	taskRepo := taskpg.NewTaskRepository(gormDB)
	roleRepo := rolepg.NewRoleRepository(gormDB)
	goalRepo := goalpg.NewGoalRepository(gormDB)

	resolver := identity.NewResolver(employeeRepo, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(employeeRepo, tokenGen)
	sessions := auth.NewSessionManager(config.Security.SessionSecret, strings.HasPrefix(config.Server.BaseURL, "https://"))
	google := auth.NewGoogleProvider(
		config.OAuth.GoogleClientID,
		config.OAuth.GoogleClientSecret,
		config.OAuth.RedirectURL,
	)

	taskService := task.NewService(taskRepo, bus, lg)
	employeeService := employee.NewService(employeeRepo, bus, lg)
	roleService := role.NewService(roleRepo, lg)
	goalService := goal.NewService(goalRepo, lg)

	notificationService := notification.NewService(&notification.LogSender{Logger: lg}, lg)
	notificationService.SubscribeBulkEvents(bus, config.Security.ProtectedAdminEmail, task.EventBulkImported, employee.EventBulkUpserted)

	authHandler := auth.NewHandler(authService, sessions, google, resolver, roleService)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: chi.NewRouter(),
		Handlers: rest.Handlers{
			Auth:         authHandler,
			Task:         task.NewHandler(taskService),
			Employee:     employee.NewHandler(employeeService),
			Role:         role.NewHandler(roleService, resolver),
			Goal:         goal.NewHandler(goalService),
			Notification: notification.NewHandler(notificationService),
		},
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
