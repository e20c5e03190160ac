// Package postgres implements the repository interfaces on PostgreSQL using
// database/sql with parameterized queries.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"docvault/internal/repository"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run against either one so the same code serves plain calls
// and transactional pipelines.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UnitOfWork is the PostgreSQL implementation of repository.UnitOfWork.
type UnitOfWork struct {
	db *sql.DB // nil when bound to a transaction
	q  DBTX
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a unit of work over the given connection pool.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db, q: db}
}

func (u *UnitOfWork) Documents() repository.DocumentRepository { return &DocumentPostgres{q: u.q} }
func (u *UnitOfWork) Tags() repository.TagRepository           { return &TagPostgres{q: u.q} }
func (u *UnitOfWork) Shares() repository.DocumentShareRepository {
	return &DocumentSharePostgres{q: u.q}
}
func (u *UnitOfWork) AuditLogs() repository.AuditLogRepository { return &AuditLogPostgres{q: u.q} }

// WithinTx runs fn inside a single transaction. A unit already bound to a
// transaction reuses it, so nested pipeline steps share one commit point.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.UnitOfWork) error) error {
	if u.db == nil {
		return fn(ctx, u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, &UnitOfWork{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w; rollback: %v", err, rbErr)
		}
		return err
	}

	// A commit, once issued, is the point of no return: late cancellation
	// must not be acted on, so the caller's error is the only abort path.
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// translateErr maps driver-level uniqueness violations to ErrDuplicate so
// callers handle races against unique indexes as conflicts, not crashes.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
