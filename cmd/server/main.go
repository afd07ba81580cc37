package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stash/internal/auth"
	"stash/internal/blob"
	"stash/internal/config"
	"stash/internal/events"
	"stash/internal/filetypes"
	"stash/internal/handler"
	"stash/internal/middleware"
	"stash/internal/repository/postgres"
	"stash/internal/service/drive"
	"stash/internal/service/provision"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create JWT verifier for identity-provider tokens
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Run schema migrations before taking traffic
	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Event bus and root provisioner: every user.created event ends in
	// exactly one root folder for that user. Delivery is synchronous, so
	// the webhook endpoint only acks after provisioning succeeded.
	bus := events.NewBus()
	provisioner := provision.NewProvisioner(folderRepo, txManager, logger)
	bus.Subscribe(provisioner.HandleUserCreated)

	// Content type registry for tree file nodes
	typeRegistry, err := filetypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize filetype registry: %v", err)
	}

	// Blob store is optional: without credentials the API still serves
	// metadata, only downloads are unavailable.
	var blobStore blob.Store
	if cfg.S3Bucket != "" && cfg.S3AccessKey != "" {
		s3Store, err := blob.NewS3Store(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("Failed to initialize blob store: %v", err)
		}
		blobStore = s3Store
	} else {
		logger.Warn("blob storage not configured, downloads disabled")
	}

	// Create services
	driveService := drive.NewDriveService(folderRepo, fileRepo, txManager, logger)
	treeService := drive.NewTreeService(driveService, folderRepo, fileRepo, typeRegistry, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(driveService, logger)
	fileHandler := handler.NewFileHandler(driveService, blobStore, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	webhookHandler := handler.NewWebhookHandler(bus, cfg.WebhookSecret, logger)

	logger.Info("services initialized")

	// API routes require a verified principal (Go 1.22+ enhanced patterns)
	api := http.NewServeMux()

	// Folder routes
	api.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	api.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	api.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	api.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	api.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Folder tree endpoint
	api.HandleFunc("GET /api/folders/{id}/tree", treeHandler.GetTree)

	// File routes
	api.HandleFunc("POST /api/files", fileHandler.CreateFile)
	api.HandleFunc("GET /api/files/unfiled", fileHandler.ListUnfiledFiles) // Must come before {id} route
	api.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	api.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)
	api.HandleFunc("GET /api/files/{id}/download", fileHandler.DownloadFile)

	authed := middleware.AuthMiddleware(jwtVerifier, logger)(api)

	// Health and webhooks sit outside the JWT-authenticated surface; the
	// webhook authenticates itself through its signature.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /webhooks/identity", webhookHandler.HandleIdentityEvent)
	mux.Handle("/api/", authed)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Routes
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}

	// ListenAndServe returns as soon as Shutdown begins; wait for the
	// drain to finish before the deferred pool teardown runs.
	<-shutdownDone
	logger.Info("server stopped")
}
