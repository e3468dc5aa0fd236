package schema

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// Execer runs DDL statements. DB and Tx implement it, so Apply works inside
// and outside a transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Dialect() Dialect
}

// Logger receives every statement before it runs.
type Logger interface {
	Log(ctx context.Context, query string, args ...any)
}

// execer is the part of *sql.DB and *sql.Tx that statements go through.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func exec(ctx context.Context, raw execer, l Logger, query string, args []any) (sql.Result, error) {
	if l != nil {
		l.Log(ctx, query, args...)
	}
	res, err := raw.ExecContext(ctx, query, args...)
	return res, errors.WithStack(err)
}

// DB is a *sql.DB bound to the Dialect its statements are rendered for.
type DB struct {
	raw    *sql.DB
	d      Dialect
	logger Logger
}

// New binds db to d.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{raw: db, d: d}
}

// Open opens a database with the driver registered for d.
func Open(d Dialect, dsn string) (*DB, error) {
	raw, err := sql.Open(d.Name(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", d.Name())
	}
	return New(raw, d), nil
}

// Debug returns a copy of db that passes every statement to l.
func (db *DB) Debug(l Logger) *DB {
	cp := *db
	cp.logger = l
	return &cp
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return exec(ctx, db.raw, db.logger, query, args)
}

// QueryContext runs a query outside any transaction, e.g. to inspect the
// catalog after Migrate.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if db.logger != nil {
		db.logger.Log(ctx, query, args...)
	}
	rows, err := db.raw.QueryContext(ctx, query, args...)
	return rows, errors.WithStack(err)
}

// Begin starts a transaction.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	raw, err := db.raw.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	return &Tx{raw: raw, d: db.d, logger: db.logger}, nil
}

// Transaction runs fn in a transaction. It commits when fn returns nil and
// rolls back when fn fails or panics.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true
	return nil
}

func (db *DB) Close() error { return errors.WithStack(db.raw.Close()) }

func (db *DB) Dialect() Dialect { return db.d }

// Tx is a transaction started by DB.Begin.
type Tx struct {
	raw    *sql.Tx
	d      Dialect
	logger Logger
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return exec(ctx, tx.raw, tx.logger, query, args)
}

func (tx *Tx) Commit() error { return errors.WithStack(tx.raw.Commit()) }

func (tx *Tx) Rollback() error { return errors.WithStack(tx.raw.Rollback()) }

func (tx *Tx) Dialect() Dialect { return tx.d }
