package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/repository"
	"github.com/Freeeeeet/pto_bot/internal/repository/sqlite"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrStorageCorrupt - файл SQLite не читается
var ErrStorageCorrupt = errors.New("storage is corrupt")

const sqliteParams = "?_busy_timeout=5000&_journal_mode=WAL"

// Storage - оба хранилища бота поверх одной базы
type Storage struct {
	Driver   string
	Links    service.LinkLedger
	Channels service.ChannelStore

	close func()
}

// OpenStorage открывает Postgres для postgres:// и SQLite для всего остального,
// затем применяет миграции
func OpenStorage(ctx context.Context, dsn string, logger *zap.Logger) (*Storage, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return openPostgres(ctx, dsn, logger)
	}
	return openSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"), logger)
}

// Close закрывает соединения
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

func openPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	migrator, err := NewPostgresMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to postgres")

	return &Storage{
		Driver:   "postgres",
		Links:    repository.NewLinkRepository(pool, logger),
		Channels: repository.NewChannelCalendarRepository(pool, logger),
		close:    pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, path string, logger *zap.Logger) (*Storage, error) {
	db, err := openCheckedSQLite(ctx, path)
	if errors.Is(err, ErrStorageCorrupt) {
		logger.Error("SQLite store is corrupt, moving it aside", zap.String("path", path), zap.Error(err))

		moved, relocateErr := relocateCorrupt(path, time.Now())
		if relocateErr != nil {
			return nil, fmt.Errorf("relocate corrupt store: %w", relocateErr)
		}
		logger.Warn("Corrupt store relocated, starting with an empty one", zap.String("moved_to", moved))

		db, err = openCheckedSQLite(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	migrator, err := NewSQLiteMigrator(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrator.Run(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Opened sqlite store", zap.String("path", path))

	return &Storage{
		Driver:   "sqlite3",
		Links:    sqlite.NewLinkRepository(db, logger),
		Channels: sqlite.NewChannelCalendarRepository(db, logger),
		close:    func() { db.Close() },
	}, nil
}

// openCheckedSQLite открывает файл и прогоняет quick_check
func openCheckedSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+sqliteParams)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	var result string
	err = db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result)
	switch {
	case err != nil && isCorruption(err):
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	case err != nil:
		db.Close()
		return nil, fmt.Errorf("check sqlite: %w", err)
	case result != "ok":
		db.Close()
		return nil, fmt.Errorf("%w: quick_check: %s", ErrStorageCorrupt, result)
	}

	return db, nil
}

func isCorruption(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrCorrupt || sqliteErr.Code == sqlite3.ErrNotADB
	}
	msg := err.Error()
	return strings.Contains(msg, "file is not a database") || strings.Contains(msg, "malformed")
}

// relocateCorrupt переносит базу и её WAL файлы в <path>.corrupt-<UTC время>
func relocateCorrupt(path string, now time.Time) (string, error) {
	target := path + ".corrupt-" + now.UTC().Format("20060102T150405Z")

	if err := os.Rename(path, target); err != nil {
		return "", err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Rename(path+suffix, target+suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}

	return target, nil
}
