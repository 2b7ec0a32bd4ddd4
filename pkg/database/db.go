package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

type Config struct {
	Driver   string
	DSN      string
	MaxConns int
	Timeout  time.Duration
	Charset  string
	TimeZone string
}

// ConfigFromEnv reads DB config from environment variables
func ConfigFromEnv() Config {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// default local; parseTime is required so created_at scans into time.Time
		dsn = "root@tcp(localhost:3306)/moodq_db?parseTime=true"
	}
	charset := os.Getenv("DATABASE_CHARSET")
	if charset == "" {
		charset = "utf8mb4"
	}
	tz := os.Getenv("DATABASE_TIMEZONE")
	return Config{Driver: driver, DSN: dsn, MaxConns: 5, Timeout: 5 * time.Second, Charset: charset, TimeZone: tz}
}

// Connect opens a *sqlx.DB for the configured driver and verifies
// connectivity with a ping. Session-level settings (charset for MySQL,
// time zone for Postgres) are applied before the handle is returned.
func Connect(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	switch cfg.Driver {
	case "mysql":
		if cfg.Charset != "" {
			if _, err := db.ExecContext(ctx, "SET NAMES "+identOnly(cfg.Charset)); err != nil {
				db.Close()
				return nil, fmt.Errorf("set charset: %w", err)
			}
		}
	case "postgres":
		if cfg.TimeZone != "" {
			if _, err := db.ExecContext(ctx, "SET TIME ZONE "+quoteLiteral(cfg.TimeZone)); err != nil {
				db.Close()
				return nil, fmt.Errorf("set time zone: %w", err)
			}
		}
	}
	return db, nil
}

// quoteLiteral escapes single quotes and wraps the value in single quotes
// so it can be used safely in SET ... statements which don't accept
// parameter placeholders for the right-hand side.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// identOnly strips anything that is not a plain identifier character;
// charset names are identifiers, not string literals, in SET NAMES.
func identOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
