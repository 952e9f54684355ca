package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ferro-labs/avatars-external/providers"
)

// pqUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

type sqlDialect string

const (
	dialectSQLite   sqlDialect = "sqlite"
	dialectPostgres sqlDialect = "postgres"
)

// SQLStore is a Directory persisted in SQLite or Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLiteStore opens (and creates if needed) a SQLite account directory.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "avatars-accounts.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite account store: %w", err)
	}
	s := &SQLStore{db: db, dialect: dialectSQLite}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore opens a Postgres account directory.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres account store: %w", err)
	}
	s := &SQLStore{db: db, dialect: dialectPostgres}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) init() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("ping %s account store: %w", s.dialect, err)
	}

	var ddl string
	switch s.dialect {
	case dialectPostgres:
		ddl = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id BIGINT PRIMARY KEY,
	username TEXT UNIQUE NULL,
	preferred_email TEXT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`
	default:
		ddl = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id INTEGER PRIMARY KEY,
	username TEXT UNIQUE NULL,
	preferred_email TEXT NULL,
	updated_at DATETIME NOT NULL
);`
	}

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize %s account store schema: %w", s.dialect, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ByID returns the account with the given id.
func (s *SQLStore) ByID(ctx context.Context, id int) (providers.User, error) {
	q := s.bind(`SELECT account_id, username, preferred_email FROM accounts WHERE account_id = ?`)
	return s.scanOne(ctx, q, id)
}

// ByUsername returns the account with the given username.
func (s *SQLStore) ByUsername(ctx context.Context, username string) (providers.User, error) {
	if username == "" {
		return providers.User{}, ErrNotFound
	}
	q := s.bind(`SELECT account_id, username, preferred_email FROM accounts WHERE username = ?`)
	return s.scanOne(ctx, q, username)
}

// Put inserts or replaces an account.
func (s *SQLStore) Put(ctx context.Context, user providers.User) error {
	q := s.bind(`
INSERT INTO accounts(account_id, username, preferred_email, updated_at)
VALUES(?, ?, ?, ?)
ON CONFLICT(account_id) DO UPDATE SET
	username = excluded.username,
	preferred_email = excluded.preferred_email,
	updated_at = excluded.updated_at`)

	_, err := s.db.ExecContext(ctx, q,
		user.AccountID,
		nullString(user.Username),
		nullString(user.PreferredEmail),
		time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrConflict, user.Username)
	}
	if err != nil {
		return fmt.Errorf("put account %d: %w", user.AccountID, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure. The
// only unique column not covered by the upsert is username.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// Delete removes an account.
func (s *SQLStore) Delete(ctx context.Context, id int) error {
	q := s.bind(`DELETE FROM accounts WHERE account_id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) scanOne(ctx context.Context, query string, arg interface{}) (providers.User, error) {
	var (
		u        providers.User
		username sql.NullString
		email    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.AccountID, &username, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return providers.User{}, ErrNotFound
	}
	if err != nil {
		return providers.User{}, fmt.Errorf("query account: %w", err)
	}
	u.Username = username.String
	u.PreferredEmail = email.String
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *SQLStore) bind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var (
		b      strings.Builder
		argNum = 1
	)
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteString(fmt.Sprintf("$%d", argNum))
			argNum++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
