package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talentai/internal/shared/storage/db"
)

// Open selects a Store from the URL scheme and prepares it for writes.
//
//	mongodb://, mongodb+srv://  MongoDB, collection <database>.logs
//	postgres://, postgresql://  Postgres via pgx
//	sqlite://<path>, file:...   SQLite
//	memory://                   in-process, not durable
//
// SQL stores are migrated before Open returns.
func Open(ctx context.Context, storeURL, database string) (Store, error) {
	raw := strings.TrimSpace(storeURL)
	switch {
	case raw == "memory://" || raw == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(raw, "mongodb://"), strings.HasPrefix(raw, "mongodb+srv://"):
		return NewMongoStore(ctx, raw, database)
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return openSQL(ctx, db.Postgres, raw, db.OptionsFromEnv(db.DefaultServerOptions()))
	case strings.HasPrefix(raw, "sqlite://"):
		return openSQL(ctx, db.SQLite, strings.TrimPrefix(raw, "sqlite://"), db.DefaultSQLiteOptions())
	case strings.HasPrefix(raw, "file:"):
		return openSQL(ctx, db.SQLite, raw, db.DefaultSQLiteOptions())
	default:
		return nil, fmt.Errorf("unsupported audit store url %q", redact(raw))
	}
}

func openSQL(ctx context.Context, dialect db.Dialect, dsn string, opts db.Options) (Store, error) {
	sqlDB, err := db.Connect(ctx, dialect, dsn, opts)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("audit migrations: %w", err)
	}
	return &SQLStore{DB: sqlDB, Dialect: dialect}, nil
}

// ErrNoMigrations is returned by Migrate for stores without a schema.
var ErrNoMigrations = errors.New("audit store has no migrations")

// Migrate applies the SQL schema for storeURL and returns. Mongo and memory
// stores report ErrNoMigrations.
func Migrate(ctx context.Context, storeURL string) error {
	raw := strings.TrimSpace(storeURL)
	var (
		dialect db.Dialect
		dsn     string
	)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		dialect, dsn = db.Postgres, raw
	case strings.HasPrefix(raw, "sqlite://"):
		dialect, dsn = db.SQLite, strings.TrimPrefix(raw, "sqlite://")
	case strings.HasPrefix(raw, "file:"):
		dialect, dsn = db.SQLite, raw
	default:
		return ErrNoMigrations
	}
	sqlDB, err := db.Connect(ctx, dialect, dsn, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return db.RunMigrations(ctx, sqlDB, dialect)
}

// redact drops credentials from a URL before it reaches an error message.
func redact(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
