package schema

import "github.com/pkg/errors"

var (
	// ErrUnknownDialect is returned by DialectByName for names it does not know.
	ErrUnknownDialect = errors.New("schema: unknown dialect")

	// ErrCycle is returned when tables reference each other so that no
	// creation order satisfies every foreign key.
	ErrCycle = errors.New("schema: foreign key cycle")

	// ErrJoinColumns is returned when a join table would reference both
	// sides through the same column, or when the two sides of an
	// association disagree on its columns.
	ErrJoinColumns = errors.New("schema: invalid join table columns")
)
