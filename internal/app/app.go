package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/zeynale/menubot/core/bootstrap"
	"github.com/zeynale/menubot/core/logger"
	tg "github.com/zeynale/menubot/core/telegram"
	"github.com/zeynale/menubot/internal/admin"
	"github.com/zeynale/menubot/internal/bot"
	"github.com/zeynale/menubot/internal/dialog"
	"github.com/zeynale/menubot/internal/repository"
	"github.com/zeynale/menubot/internal/service"
)

// App assembles the bot runtime: storage, dialog core, Telegram wiring, and
// the optional dashboard server.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	registry *tg.Registry
	handler  *bot.Handler
	adminSrv *admin.Server

	adminDone chan error
}

// Bootstrap initializes the logger, database, and migrations, then wires the
// full dependency graph.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	contentRepo := repository.NewContentRepository(res.DB)
	userRepo := repository.NewUserRepository(res.DB)
	transcriptRepo := repository.NewTranscriptRepository(res.DB)

	engine := dialog.NewEngine(contentRepo)
	renderer := dialog.NewRenderer(dialog.RenderOptions{
		Variant:    cfg.Dialog.Variant,
		UploadsDir: cfg.Dialog.UploadsDir,
	})
	ctrl := dialog.NewController(engine, renderer, contentRepo, userRepo, transcriptRepo)

	handler := bot.NewHandler(ctrl)
	registry := tg.NewRegistry()
	handler.Register(registry)

	var adminSrv *admin.Server
	if cfg.Admin.Enabled {
		contentSvc := service.NewContentService(contentRepo)
		userSvc := service.NewUserService(userRepo, transcriptRepo)
		adminSrv = admin.NewServer(cfg.Admin,
			admin.NewQuestionHandler(contentSvc),
			admin.NewUserHandler(userSvc),
			admin.NewUploadHandler(cfg.Admin.UploadsDir),
		)
	}

	return &App{
		cfg:       cfg,
		db:        res.DB,
		registry:  registry,
		handler:   handler,
		adminSrv:  adminSrv,
		adminDone: make(chan error, 1),
	}, nil
}

// TelegramRunOptions builds the shared runtime options: middleware chain,
// route table, and lifecycle hooks for the dashboard and database.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	if a.registry == nil {
		return tg.RunOptions{}, fmt.Errorf("app: not bootstrapped")
	}

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      a.handler.Routes(a.registry),
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			if a.adminSrv == nil {
				a.adminDone <- nil
				return nil
			}
			go func() {
				a.adminDone <- a.adminSrv.Start(ctx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			err := <-a.adminDone
			if err != nil {
				logger.Admin.Error("stopped with error", slog.String("err", err.Error()))
			}
			if closeErr := a.db.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
			return err
		},
	}, nil
}
