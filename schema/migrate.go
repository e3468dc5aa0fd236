package schema

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mickamy/automap/automap"
)

// Apply executes stmts in order and stops at the first failure.
func Apply(ctx context.Context, ex Execer, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "statement %d", i+1)
		}
	}
	return nil
}

// Migrate creates the tables of maps that do not exist yet, in a single
// transaction. Engines that commit DDL implicitly (MySQL) apply the
// statements that ran before a failure.
func Migrate(ctx context.Context, db *DB, maps []*automap.ClassMap) error {
	stmts, err := CreateTables(db.Dialect(), maps)
	if err != nil {
		return err
	}
	return db.Transaction(ctx, func(tx *Tx) error {
		return Apply(ctx, tx, stmts)
	})
}

// Drop removes the tables of maps, dependents first.
func Drop(ctx context.Context, db *DB, maps []*automap.ClassMap) error {
	stmts, err := DropTables(db.Dialect(), maps)
	if err != nil {
		return err
	}
	return db.Transaction(ctx, func(tx *Tx) error {
		return Apply(ctx, tx, stmts)
	})
}

// ZerologLogger logs statements at debug level.
type ZerologLogger struct {
	Logger zerolog.Logger
}

func (l ZerologLogger) Log(_ context.Context, query string, args ...any) {
	l.Logger.Debug().Str("sql", query).Interface("args", args).Msg("exec")
}
