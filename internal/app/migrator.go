package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/pto_bot/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator обёртка над goose, миграции встроены в бинарник
type Migrator struct {
	db     *sql.DB
	ownsDB bool
	logger *zap.Logger
}

// NewPostgresMigrator создаёт мигратор поверх пула pgx
func NewPostgresMigrator(pool *pgxpool.Pool, logger *zap.Logger) (*Migrator, error) {
	if err := setupGoose("postgres", logger); err != nil {
		return nil, err
	}

	// Goose работает с *sql.DB, поэтому создаём его из пула
	return &Migrator{
		db:     stdlib.OpenDBFromPool(pool),
		ownsDB: true,
		logger: logger,
	}, nil
}

// NewSQLiteMigrator использует уже открытую базу, закрывать её будет владелец
func NewSQLiteMigrator(db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	if err := setupGoose("sqlite3", logger); err != nil {
		return nil, err
	}

	return &Migrator{
		db:     db,
		logger: logger,
	}, nil
}

func setupGoose(dialect string, logger *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(logger.Named("goose")))
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("🔄 Applying database migrations...")

	if err := goose.UpContext(ctx, mg.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	mg.logger.Info("✅ Migrations applied successfully")
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает sql.DB, созданный мигратором
func (mg *Migrator) Close() error {
	if mg.ownsDB && mg.db != nil {
		return mg.db.Close()
	}
	return nil
}
