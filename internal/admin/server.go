package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeynale/menubot/core/logger"
)

// Config controls the dashboard HTTP listener.
type Config struct {
	Enabled    bool   `yaml:"enabled" envconfig:"ADMIN_ENABLED"`
	Listen     string `yaml:"listen" envconfig:"ADMIN_LISTEN"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"ADMIN_UPLOADS_DIR"`
}

// Normalize applies defaults for zero-valued fields.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = ":8081"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
}

// Server hosts the dashboard API next to the bot runtime.
type Server struct {
	srv *http.Server
}

// NewServer wires the gin engine and route table.
func NewServer(cfg Config, questions *QuestionHandler, users *UserHandler, uploads *UploadHandler) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog())

	api := engine.Group("/api")
	api.GET("/questions", questions.ListQuestions)
	api.POST("/questions", questions.SaveQuestions)
	api.DELETE("/questions/:id", questions.DeleteQuestion)
	api.GET("/users", users.ListUsers)
	api.POST("/upload", uploads.Upload)

	engine.Static("/uploads", cfg.UploadsDir)

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Listen,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start runs the listener until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	logger.Admin.Info("listening", slog.String("addr", s.srv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the listener outside of Start's context flow.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "admin", "http.request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
	}
}
