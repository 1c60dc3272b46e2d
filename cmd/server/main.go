package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ooo-portfolio/backend/internal/config"
	"github.com/ooo-portfolio/backend/internal/handler"
	"github.com/ooo-portfolio/backend/internal/logging"
	"github.com/ooo-portfolio/backend/internal/repository"
	"github.com/ooo-portfolio/backend/internal/service"
	"github.com/ooo-portfolio/backend/internal/storage"
	"github.com/ooo-portfolio/backend/internal/upload"
	"github.com/ooo-portfolio/backend/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", "json")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal("failed to initialise storage", "backend", cfg.Storage.Backend, "error", err)
	}

	projectRepo := repository.NewPgProjectRepository(pool)
	imageRepo := repository.NewPgImageRepository(pool)

	pipeline := upload.NewPipeline(store, imageRepo,
		upload.WithCallTimeout(cfg.Upload.CallTimeout),
		upload.WithOrphanCleanup(cfg.Upload.CleanupOrphans),
		upload.WithLogger(slog.Default().With("component", "upload")),
	)

	projectService := service.NewProjectService(projectRepo, imageRepo)
	imageService := service.NewImageService(projectRepo, imageRepo, pipeline)
	dashboardService := service.NewDashboardService(projectRepo, imageRepo)
	authService := service.NewAuthService(
		auth.NewPasswordClient(cfg.Auth.PasswordGrantURL, cfg.Auth.APIKey),
		cfg.Auth.AdminEmails,
	)

	sessionSecret := auth.SessionSecretBytes(cfg.Auth.SessionSecret)

	authOpts := []auth.Option{auth.WithAllowFunc(authService.IsAdmin)}
	if cfg.Auth.FirebaseCredentialsPath != "" {
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsPath)
		if err != nil {
			logging.Fatal("failed to initialise firebase auth", "error", err)
		}
		authOpts = append(authOpts, auth.WithTokenVerifier(verifier))
	}

	// 管理者エンドポイント用の認証ラッパー
	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.Auth.Required {
			return auth.RequireAuth(sessionSecret, authOpts...)(next)
		}
		return auth.DevAuth(next)
	}
	if !cfg.Auth.Required {
		slog.Warn("AUTH_REQUIRED is false, admin routes use the development identity")
	}

	loginLimiter := handler.NewRateLimiter(cfg.Auth.LoginAttemptsPerMinute)
	defer loginLimiter.Stop()

	h := handler.New(pool, cfg.Server.FrontendURL)
	authHandler := handler.NewAuthHandler(authService, handler.AuthConfig{
		SessionSecret: sessionSecret,
		SecureCookie:  cfg.Auth.SecureCookie,
	})
	projectHandler := handler.NewProjectHandler(projectService)
	imageHandler := handler.NewImageHandler(imageService, handler.UploadLimits{
		MaxFileBytes:  cfg.Upload.MaxFileBytes,
		MaxFiles:      cfg.Upload.MaxFiles,
		MaxBatchBytes: cfg.Upload.MaxBatchBytes,
	})
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	// 公開 API
	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.Get)

	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// 管理者 API
	mux.Handle("GET /api/admin/me", wrapAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/admin/dashboard", wrapAuth(http.HandlerFunc(dashboardHandler.Stats)))
	mux.Handle("POST /api/admin/projects", wrapAuth(http.HandlerFunc(projectHandler.Create)))
	mux.Handle("PUT /api/admin/projects/{id}", wrapAuth(http.HandlerFunc(projectHandler.Update)))
	mux.Handle("DELETE /api/admin/projects/{id}", wrapAuth(http.HandlerFunc(projectHandler.Delete)))
	mux.Handle("GET /api/admin/projects/{id}/images", wrapAuth(http.HandlerFunc(imageHandler.List)))
	mux.Handle("POST /api/admin/projects/{id}/images", wrapAuth(http.HandlerFunc(imageHandler.Upload)))
	mux.Handle("DELETE /api/admin/images/{id}", wrapAuth(http.HandlerFunc(imageHandler.Delete)))

	if local, ok := store.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.BaseDir()))))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"env", cfg.App.Environment,
			"storage", cfg.Storage.Backend,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
