package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/activitymap"
	"github.com/goliatone/go-enrollment/api"
	"github.com/goliatone/go-enrollment/config"
	"github.com/goliatone/go-enrollment/registry"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
)

type App struct {
	config     *config.Config
	logger     *slog.Logger
	db         *bun.DB
	principals enrollment.RepositoryManager
	registry   registry.Manager
	auther     *enrollment.Auther
	srv        *fiber.App
}

func main() {
	configPath := flag.String("config", "", "path to the configuration file (yaml or toml)")
	envFile := flag.String("env", ".env", "dotenv file loaded before the configuration")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath), *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	logger.Debug("configuration loaded", "config", print.MaybePrettyJSON(redacted(cfg)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &App{config: cfg, logger: logger}

	if err := WithPersistence(ctx, app); err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer app.db.Close()

	WithHTTPServer(app)

	go func() {
		logger.Info("listening", "address", cfg.Server.Address)
		if err := app.srv.Listen(cfg.Server.Address); err != nil {
			logger.Error("server stopped", "error", err)
			cancel()
		}
	}()

	WaitExitSignal(ctx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := app.srv.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("bye")
}

// WithHTTPServer builds the auth core and mounts the API on a fiber app
func WithHTTPServer(app *App) {
	cfg := app.config
	logger := slogAdapter{logger: app.logger}

	app.auther = enrollment.NewAuthenticator(app.principals, cfg).
		WithLogger(logger).
		WithActivitySink(activitymap.LogSink(logger))

	server := api.NewServer(
		app.auther,
		app.principals,
		app.registry,
		api.WithLogger(logger),
		api.WithTokenLookup(cfg.Auth.TokenLookup, cfg.Auth.AuthScheme, cfg.Auth.ContextKey),
		api.WithRegistrar(registry.NewRegistrar(app.registry, cfg.Registration.Prefix)),
	)

	app.srv = api.NewApp(logger, fiber.Config{
		AppName:               "enrollment",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
	})

	server.Register(app.srv)
}

// WaitExitSignal blocks until the process is interrupted or ctx is done
func WaitExitSignal(ctx context.Context) os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case s := <-ch:
		return s
	case <-ctx.Done():
		return nil
	}
}

func redacted(cfg *config.Config) config.Config {
	out := *cfg
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = "****"
	}
	if out.Database.DSN != "" {
		out.Database.DSN = "****"
	}
	out.Registration.DefaultStudentPassword = "****"
	return out
}
