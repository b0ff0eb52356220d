package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/todoapp/todo-api/internal/config"
	"github.com/todoapp/todo-api/internal/handler"
	"github.com/todoapp/todo-api/internal/middleware"
	"github.com/todoapp/todo-api/internal/repository"
	"github.com/todoapp/todo-api/internal/service"
	"github.com/todoapp/todo-api/internal/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		err := repository.Migrate(ctx, db)
		cancel()
		if err != nil {
			return err
		}
	}

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	txManager := repository.NewTxManager(db)
	validate := validation.New()

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.SessionTTL)
	todoService := service.NewTodoService(todoRepo, tagRepo, userRepo, txManager, validate)
	tagService := service.NewTagService(tagRepo, txManager, validate)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(slog.Default()))
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(cfg))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:   handler.NewAuthHandler(authService, handler.SessionCookie{Name: cfg.CookieName, Secure: cfg.CookieSecure}),
		Todos:  handler.NewTodoHandler(todoService),
		Tags:   handler.NewTagHandler(tagService),
		Health: handler.NewHealthHandler(db),
	}, middleware.Session(cfg.JWTSecret, cfg.CookieName))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

func corsHandler(cfg config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
