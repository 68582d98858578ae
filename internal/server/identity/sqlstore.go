package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
)

// SQLStore implements Store over the identities table. The queries run
// unchanged on PostgreSQL (pgx) and SQLite (modernc), both of which accept
// $N placeholders and ON CONFLICT.
type SQLStore struct {
	db dbx.DBTX
}

func NewSQLStore(db dbx.DBTX) *SQLStore {
	return &SQLStore{db: db}
}

const selectColumns = `username, email, full_name, disabled, credential_hash, created_at`

func (s *SQLStore) Lookup(ctx context.Context, username string) (*Record, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM identities
		 WHERE username = $1
		 `

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r, nil
}

// Insert fails with common.ErrorAlreadyExists when the username is taken and
// with common.ErrDuplicateEmail when only the email collides with the unique
// email index.
func (s *SQLStore) Insert(ctx context.Context, record *Record) error {
	query :=
		`INSERT INTO identities (username, email, full_name, disabled, credential_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT DO NOTHING
		 `

	res, err := s.db.ExecContext(ctx, query,
		record.Username, record.Email, nullString(record.FullName), record.Disabled, record.CredentialHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return s.conflict(ctx, record.Username)
	}
	return nil
}

// conflict tells which unique key rejected an insert.
func (s *SQLStore) conflict(ctx context.Context, username string) error {
	_, err := s.Lookup(ctx, username)
	switch {
	case err == nil:
		return common.ErrorAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrDuplicateEmail
	default:
		return err
	}
}

func (s *SQLStore) All(ctx context.Context) ([]*Record, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM identities
		 ORDER BY username
		 `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *SQLStore) SetDisabled(ctx context.Context, username string, disabled bool) error {
	query :=
		`UPDATE identities SET disabled = $2
		 WHERE username = $1
		 `

	res, err := s.db.ExecContext(ctx, query, username, disabled)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		r        Record
		fullName sql.NullString
	)
	if err := row.Scan(&r.Username, &r.Email, &fullName, &r.Disabled, &r.CredentialHash, &r.CreatedAt); err != nil {
		return nil, err
	}
	if fullName.Valid {
		r.FullName = &fullName.String
	}
	return &r, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
