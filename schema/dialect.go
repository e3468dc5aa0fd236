package schema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/mickamy/automap/automap"
)

// Dialect abstracts DDL differences between database engines.
type Dialect interface {
	// Name returns the database/sql driver name the dialect is used with.
	Name() string

	// QuoteIdent quotes an identifier (table name, column name) to safely
	// handle SQL reserved words. MySQL uses backticks; PostgreSQL and
	// SQLite use double quotes.
	QuoteIdent(name string) string

	// ColumnType returns the column type for t. size is the declared
	// length of string and byte columns, 0 when unset.
	ColumnType(t automap.DataType, size int) string

	// IdentityColumn returns the column definition, without the name, of a
	// database-generated primary key of type t.
	IdentityColumn(t automap.DataType) string
}

// MySQL is the Dialect for MySQL / MariaDB.
var MySQL Dialect = mysqlDialect{}

// PostgreSQL is the Dialect for PostgreSQL.
var PostgreSQL Dialect = postgresDialect{}

// SQLite is the Dialect for SQLite.
var SQLite Dialect = sqliteDialect{}

// DialectByName returns the Dialect for a driver or engine name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", name)
	}
}

const defaultVarcharSize = 255

type mysqlDialect struct{}

func (mysqlDialect) Name() string                  { return "mysql" }
func (mysqlDialect) QuoteIdent(name string) string { return "`" + name + "`" }

func (mysqlDialect) ColumnType(t automap.DataType, size int) string {
	switch t {
	case automap.DataBool:
		return "BOOLEAN"
	case automap.DataInt:
		return "INT"
	case automap.DataBigInt:
		return "BIGINT"
	case automap.DataFloat:
		return "DOUBLE"
	case automap.DataString:
		if size == 0 {
			size = defaultVarcharSize
		}
		return fmt.Sprintf("VARCHAR(%d)", size)
	case automap.DataBytes:
		if size > 0 {
			return fmt.Sprintf("VARBINARY(%d)", size)
		}
		return "BLOB"
	case automap.DataTime:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}

func (d mysqlDialect) IdentityColumn(t automap.DataType) string {
	return d.ColumnType(t, 0) + " NOT NULL AUTO_INCREMENT PRIMARY KEY"
}

type postgresDialect struct{}

func (postgresDialect) Name() string                  { return "pgx" }
func (postgresDialect) QuoteIdent(name string) string { return `"` + name + `"` }

func (postgresDialect) ColumnType(t automap.DataType, size int) string {
	switch t {
	case automap.DataBool:
		return "BOOLEAN"
	case automap.DataInt:
		return "INTEGER"
	case automap.DataBigInt:
		return "BIGINT"
	case automap.DataFloat:
		return "DOUBLE PRECISION"
	case automap.DataString:
		if size > 0 {
			return fmt.Sprintf("VARCHAR(%d)", size)
		}
		return "TEXT"
	case automap.DataBytes:
		return "BYTEA"
	case automap.DataTime:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func (d postgresDialect) IdentityColumn(t automap.DataType) string {
	return d.ColumnType(t, 0) + " GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                  { return "sqlite" }
func (sqliteDialect) QuoteIdent(name string) string { return `"` + name + `"` }

func (sqliteDialect) ColumnType(t automap.DataType, _ int) string {
	switch t {
	case automap.DataBool, automap.DataInt, automap.DataBigInt:
		return "INTEGER"
	case automap.DataFloat:
		return "REAL"
	case automap.DataBytes:
		return "BLOB"
	case automap.DataTime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// SQLite only generates keys for columns declared exactly INTEGER PRIMARY KEY.
func (sqliteDialect) IdentityColumn(automap.DataType) string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
