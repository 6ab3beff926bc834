package videoquiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// AccountStore is everything the web layer needs from the database
type AccountStore interface {
	CreateAccount(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (int64, error)
	ListResources(ctx context.Context, accountID int64) ([]Resource, error)
	AddResource(ctx context.Context, accountID int64, name, url string) error
	DeleteResource(ctx context.Context, accountID, resourceID int64) error
}

// DB represents an account database connection
type DB struct {
	db     *sql.DB
	driver string
	log    *Logger
}

// OpenDB opens a new database connection and checks it with a ping
func OpenDB(driver, dsn string, log *Logger) (*DB, error) {
	if driver == DriverSQLite {
		dsn = withSQLiteForeignKeys(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db, driver: driver, log: log.With("component", "DB", "driver", driver)}, nil
}

// OpenStore connects using cfg, retrying a fixed number of times with a
// fixed delay, and makes sure the tables exist.
func OpenStore(ctx context.Context, cfg *Config, log *Logger) (*DB, error) {
	retries := max(cfg.DBConnectRetries, 1)

	var (
		db  *DB
		err error
	)
	for attempt := 1; attempt <= retries; attempt++ {
		db, err = OpenDB(cfg.DBDriver, cfg.DSN(), log)
		if err == nil {
			break
		}
		log.Warn("Database connection failed", "attempt", attempt, "retries", retries, "error", err)
		if attempt == retries {
			return nil, fmt.Errorf("giving up after %d attempts: %w", retries, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.DBRetryDelay):
		}
	}

	if err := db.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *DB) CreateTables(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id ` + idColumn + `,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS resources (
			id ` + idColumn + `,
			account_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			url TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_account_id ON resources(account_id)`,
	}

	for _, query := range queries {
		if _, err := db.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("%w: failed to execute %s: %w", ErrPersistence, query, err)
		}
	}
	return nil
}

// CreateAccount stores a new account with a bcrypt hash of its password
func (db *DB) CreateAccount(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: failed to hash password: %w", ErrPersistence, err)
	}

	_, err = db.execTx(ctx, "INSERT INTO accounts (username, password_hash) VALUES (?, ?)", username, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, username)
		}
		return fmt.Errorf("%w: failed to create account: %w", ErrPersistence, err)
	}

	db.log.Info("Account created", "username", username)
	return nil
}

// Authenticate returns the account id for matching credentials
func (db *DB) Authenticate(ctx context.Context, username, password string) (int64, error) {
	var (
		id   int64
		hash string
	)
	err := db.db.QueryRowContext(ctx,
		db.rebind("SELECT id, password_hash FROM accounts WHERE username = ?"),
		username,
	).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("%w: failed to get account: %w", ErrPersistence, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}

// ListResources returns an account's resources in insertion order
func (db *DB) ListResources(ctx context.Context, accountID int64) ([]Resource, error) {
	rows, err := db.db.QueryContext(ctx,
		db.rebind("SELECT id, account_id, name, url FROM resources WHERE account_id = ? ORDER BY id"),
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get resources: %w", ErrPersistence, err)
	}
	defer rows.Close()

	resources := make([]Resource, 0)
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Name, &r.URL); err != nil {
			return nil, fmt.Errorf("%w: failed to scan resource: %w", ErrPersistence, err)
		}
		resources = append(resources, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating resources: %w", ErrPersistence, err)
	}
	return resources, nil
}

// AddResource saves a named URL for an account
func (db *DB) AddResource(ctx context.Context, accountID int64, name, url string) error {
	_, err := db.execTx(ctx, "INSERT INTO resources (account_id, name, url) VALUES (?, ?, ?)", accountID, name, url)
	if err != nil {
		return fmt.Errorf("%w: failed to add resource: %w", ErrPersistence, err)
	}
	return nil
}

// DeleteResource removes a resource owned by accountID. Deleting a resource
// that belongs to another account matches no rows and is not an error.
func (db *DB) DeleteResource(ctx context.Context, accountID, resourceID int64) error {
	res, err := db.execTx(ctx, "DELETE FROM resources WHERE id = ? AND account_id = ?", resourceID, accountID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete resource: %w", ErrPersistence, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		db.log.Debug("Delete matched no resource", "account_id", accountID, "resource_id", resourceID)
	}
	return nil
}

// execTx runs a single statement in its own transaction, rolling back on
// any error.
func (db *DB) execTx(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// rebind rewrites ? placeholders to $n for postgres
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
