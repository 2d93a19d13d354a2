package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Config struct {
	Path string // e.g. "./data/bedfast.db"
	Env  string // "dev" | "prod"
}

// Open opens the SQLite database at cfg.Path, applies pending migrations and,
// in dev, seeds the demo catalogue.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*sql.DB, error) {
	if cfg.Path == "" {
		cfg.Path = "./data/bedfast.db"
	}
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	// Per-connection PRAGMAs for a single-process server: FKs on, WAL,
	// NORMAL sync, and a busy timeout so the retry helper rarely fires.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		cfg.Path,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := Migrate(ctx, conn, log); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if cfg.Env == "dev" {
		if err := SeedDev(ctx, conn, DemoProperties()); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	log.Info("database ready", zap.String("path", cfg.Path), zap.String("env", cfg.Env))
	return conn, nil
}
