package sqlcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"countries_fetcher/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultDir  = "countries_data"
	DefaultFile = "countries.sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS countries (countries_json TEXT)`

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config selects the cache backend. Dir and File apply to sqlite, DSN to
// postgres.
type Config struct {
	Driver string
	Dir    string
	File   string
	DSN    string
}

// Store is a single-slot cache holding the last fetched countries payload
// as one text blob.
type Store struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

// Open connects to the backend and creates the cache table if missing.
// All failures wrap domain.ErrStorageInit.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver, dsn, err := resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageInit, err)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", domain.ErrStorageInit, driver, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create table: %w", domain.ErrStorageInit, err)
	}

	return NewStore(db), nil
}

// NewStore wraps an already connected database. The caller owns the schema.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:        db,
		txManager: NewTransactionManager(db),
	}
}

func resolve(cfg Config) (string, string, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir
		}
		file := cfg.File
		if file == "" {
			file = DefaultFile
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("create storage dir: %w", err)
		}
		path := filepath.Join(filepath.Clean(dir), file)
		return DriverSQLite, path + "?_pragma=busy_timeout(5000)", nil
	case DriverPostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return "", "", errors.New("postgres dsn is required")
		}
		return DriverPostgres, cfg.DSN, nil
	default:
		return "", "", fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// Save replaces the stored payload. The delete and insert run in one
// transaction, so at most one row ever exists.
func (s *Store) Save(ctx context.Context, blob string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)

		if _, err := exec.ExecContext(txCtx, "DELETE FROM countries"); err != nil {
			return fmt.Errorf("delete previous: %w", err)
		}

		query := s.db.Rebind("INSERT INTO countries (countries_json) VALUES (?)")
		if _, err := exec.ExecContext(txCtx, query, blob); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save countries: %w", domain.ErrStorageWrite, err)
	}
	return nil
}

// Load returns the stored payload, or "" when the cache is empty.
func (s *Store) Load(ctx context.Context) (string, error) {
	var blob sql.NullString
	err := s.db.GetContext(ctx, &blob, "SELECT countries_json FROM countries LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: load countries: %w", domain.ErrStorageRead, err)
	}
	return blob.String, nil
}

// Clear deletes the stored payload. Clearing an empty cache is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM countries"); err != nil {
		return fmt.Errorf("%w: clear countries: %w", domain.ErrStorageWrite, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
