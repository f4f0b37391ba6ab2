package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/config"
	"github.com/goliatone/go-enrollment/registry"
	"github.com/goliatone/go-enrollment/repository"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

//go:embed data/fixtures/*.yml
var fixturesFS embed.FS

// WithPersistence opens the configured store and wires the repositories
func WithPersistence(ctx context.Context, app *App) error {
	cfg := app.config.Database

	sqldb, dialect, err := openDB(cfg)
	if err != nil {
		return err
	}

	models := append(enrollment.Models(), registry.Models()...)
	for _, model := range models {
		persistence.RegisterModel(model)
	}

	client, err := persistence.New(cfg, sqldb, dialect)
	if err != nil {
		sqldb.Close()
		return err
	}

	db := client.DB()
	if cfg.Debug {
		db.AddQueryHook(queryLogger{logger: app.logger})
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if cfg.CreateSchema {
		if err := repository.CreateSchema(ctx, db, models...); err != nil {
			db.Close()
			return err
		}
		app.logger.Info("schema ready", "tables", len(models))
	}

	if cfg.Seed {
		client.RegisterFixtures(fixturesFS).AddOptions(persistence.WithTrucateTables())
		if err := client.Seed(ctx); err != nil {
			db.Close()
			return fmt.Errorf("seed: %w", err)
		}
		app.logger.Info("fixtures loaded")
	}

	app.db = db
	app.principals = enrollment.NewRepositoryManager(db)
	app.registry = registry.NewManager(db)

	app.principals.MustValidate()
	app.registry.MustValidate()

	return nil
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, schema.Dialect, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		// sqlite serializes writers
		sqldb.SetMaxOpenConns(1)
		return sqldb, sqlitedialect.New(), nil
	case config.DriverPostgres:
		sqldb, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return sqldb, pgdialect.New(), nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// queryLogger logs statement shape and timing. Statement text is never
// logged since it carries bound values such as password hashes.
type queryLogger struct {
	logger *slog.Logger
}

var _ bun.QueryHook = queryLogger{}

func (q queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (q queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	args := []any{
		"operation", event.Operation(),
		"table", queryTable(event),
		"duration", time.Since(event.StartTime),
	}

	if event.Err != nil && event.Err != sql.ErrNoRows {
		q.logger.Warn("query failed", append(args, "error", event.Err)...)
		return
	}
	q.logger.Debug("query", args...)
}

func queryTable(event *bun.QueryEvent) string {
	if event.IQuery == nil {
		return ""
	}
	return event.IQuery.GetTableName()
}
