package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/abdidvp/storediag/internal/domain"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects driver name, placeholders and upsert syntax.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DefaultTable holds one row per store code.
const DefaultTable = "diagnostic_results"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore keeps results in a single table keyed by store code.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	table   string
	now     func() time.Time
}

// NewSQLStore wraps an open database. Call Migrate before first use.
func NewSQLStore(db *sql.DB, dialect Dialect, table string) (*SQLStore, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres, DialectMySQL:
	default:
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLStore{db: db, dialect: dialect, table: table, now: time.Now}, nil
}

// OpenSQL opens dsn with the dialect's driver and creates the table.
func OpenSQL(ctx context.Context, dialect Dialect, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// modernc sqlite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	s, err := NewSQLStore(db, dialect, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the results table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	var ddl string
	switch s.dialect {
	case DialectMySQL:
		ddl = `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
	store_code VARCHAR(191) NOT NULL PRIMARY KEY,
	overall_health VARCHAR(32) NOT NULL,
	payload LONGTEXT NOT NULL,
	updated_at VARCHAR(40) NOT NULL
)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
	store_code TEXT NOT NULL PRIMARY KEY,
	overall_health TEXT NOT NULL,
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLStore) upsertQuery() string {
	switch s.dialect {
	case DialectPostgres:
		return `INSERT INTO ` + s.table + ` (store_code, overall_health, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (store_code) DO UPDATE SET overall_health = EXCLUDED.overall_health, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	case DialectMySQL:
		return `INSERT INTO ` + s.table + ` (store_code, overall_health, payload, updated_at)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE overall_health = VALUES(overall_health), payload = VALUES(payload), updated_at = VALUES(updated_at)`
	default:
		return `INSERT INTO ` + s.table + ` (store_code, overall_health, payload, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (store_code) DO UPDATE SET overall_health = excluded.overall_health, payload = excluded.payload, updated_at = excluded.updated_at`
	}
}

func (s *SQLStore) selectQuery() string {
	if s.dialect == DialectPostgres {
		return `SELECT payload FROM ` + s.table + ` WHERE store_code = $1`
	}
	return `SELECT payload FROM ` + s.table + ` WHERE store_code = ?`
}

func (s *SQLStore) Save(ctx context.Context, code string, res *domain.DiagnosticResult) error {
	if err := checkCode(code); err != nil {
		return err
	}
	data, err := Marshal(res)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.upsertQuery(),
		code, string(res.OverallHealth), string(data), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting result for %s: %w", code, err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, code string) (*domain.DiagnosticResult, error) {
	if err := checkCode(code); err != nil {
		return nil, err
	}
	var payload string
	err := s.db.QueryRowContext(ctx, s.selectQuery(), code).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying result for %s: %w", code, err)
	}
	return Unmarshal([]byte(payload))
}

func (s *SQLStore) Close() error { return s.db.Close() }
