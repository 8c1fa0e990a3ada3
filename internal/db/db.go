package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/twitclone/internal/models"
)

const defaultURL = "sqlite://twitclone.db"

// Options tune the connection returned by Open.
type Options struct {
	// LogSQL turns on gorm's statement logging.
	LogSQL bool
}

// Open returns a GORM connection for dbURL, which must start with
// "postgres://" (or "postgresql://") or "sqlite://". An empty URL opens the
// local sqlite file.
func Open(dbURL string, opts Options) (*gorm.DB, error) {
	if dbURL == "" {
		dbURL = defaultURL
		slog.Info("DATABASE_URL not set, defaulting to " + defaultURL)
	}

	var (
		dialector gorm.Dialector
		isSQLite  bool
	)
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialector = postgres.Open(dbURL)
		slog.Info("Connecting to PostgreSQL database")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		isSQLite = true
		slog.Info("Connecting to SQLite database", "path", dsn)
	default:
		return nil, fmt.Errorf("db: invalid DATABASE_URL prefix, must start with postgres:// or sqlite://")
	}

	return open(dialector, isSQLite, opts)
}

func open(dialector gorm.Dialector, isSQLite bool, opts Options) (*gorm.DB, error) {
	level := logger.Silent
	if opts.LogSQL {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// sqlite serialises writers anyway; a single connection also keeps
		// ":memory:" databases alive and the foreign_keys pragma in force.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	slog.Info("Database connection established")
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
