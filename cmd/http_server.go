package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/staffdir/employee-directory/internal"
	"github.com/staffdir/employee-directory/internal/asset"
	assetPostgres "github.com/staffdir/employee-directory/internal/asset/postgres"
	"github.com/staffdir/employee-directory/internal/auth"
	authPostgres "github.com/staffdir/employee-directory/internal/auth/postgres"
	"github.com/staffdir/employee-directory/internal/employee"
	employeePostgres "github.com/staffdir/employee-directory/internal/employee/postgres"
	"github.com/staffdir/employee-directory/internal/misc"
	miscPostgres "github.com/staffdir/employee-directory/internal/misc/postgres"
	"github.com/staffdir/employee-directory/internal/transport"
	"github.com/staffdir/employee-directory/internal/transport/rest"
	"github.com/staffdir/employee-directory/pkg/logger"
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
	Config          *internal.Config
	DB              *sqlx.DB
	GormDB          *gorm.DB
	Router          *chi.Mux
	AuthHandler     *auth.Handler
	EmployeeHandler *employee.Handler
	MiscHandler     *misc.Handler
	Logger          *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.EmployeeHandler,
		deps.MiscHandler,
		deps.Config.Server.OriginList(),
		deps.Config.Server.ThrottleLimit,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	baseHandler := transport.NewBaseHandler(appLogger)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authService := auth.NewService(
		authPostgres.NewDirectoryRepository(gormDB),
		authPostgres.NewSessionRepository(gormDB),
		tokens,
		config.Security.RefreshTokenDuration,
	)
	authHandler := auth.NewHandler(authService, config.Security.SecureCookies)

	storage, err := asset.NewS3Storage(
		context.Background(),
		config.Storage.Bucket,
		config.Storage.Region,
		config.Storage.CloudFrontDomain,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	assetService := asset.NewService(
		storage,
		assetPostgres.NewAssetRepository(gormDB),
		config.Storage.Bucket,
		config.Storage.UploadFolder,
	)

	employeeService := employee.NewService(
		employeePostgres.NewEmployeeRepository(gormDB),
		assetService,
		config.Security.BCryptCost,
		appLogger,
	)
	employeeHandler := employee.NewHandler(baseHandler, employeeService)

	miscService := misc.NewService(miscPostgres.NewReferenceRepository(gormDB))
	miscHandler := misc.NewHandler(baseHandler, miscService)

	return &Dependencies{
		Config:          config,
		Logger:          appLogger,
		DB:              db,
		GormDB:          gormDB,
		Router:          chi.NewRouter(),
		AuthHandler:     authHandler,
		EmployeeHandler: employeeHandler,
		MiscHandler:     miscHandler,
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

// initGorm layers the ORM over the already-open connection pool so health
// checks and the ORM share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
