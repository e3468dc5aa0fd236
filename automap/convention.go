package automap

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/mickamy/automap/internal/naming"
)

// TableNamer can be implemented by entity structs to override the
// convention-derived table name.
type TableNamer interface {
	TableName() string
}

// NamingConvention turns Go field names into column names.
type NamingConvention interface {
	// Convert returns the column name for a Go field name.
	Convert(fieldName string) string

	// Join joins name fragments, e.g. a component prefix and a column.
	Join(frags []string) string
}

type snakeCase struct{}

// SnakeCase converts "CreatedAt" and "createdAt" to "created_at".
var SnakeCase NamingConvention = snakeCase{}

func (snakeCase) Convert(fieldName string) string { return naming.CamelToSnake(fieldName) }

func (snakeCase) Join(frags []string) string {
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "_")
}

// ConventionFinder resolves the names a mapping uses when struct tags do not set them.
type ConventionFinder interface {
	// TableName returns the table for an entity.
	TableName(e Entity) string

	// ColumnName returns the column for a scalar member.
	ColumnName(m Member) string

	// ForeignKey returns the column on this table for a many-to-one member.
	ForeignKey(m Member) string

	// KeyColumn returns the column on the target table that references owner
	// for a one-to-one or one-to-many member.
	KeyColumn(owner string, m Member) string

	// JoinTable returns the join table for a many-to-many member of owner.
	// Both sides of an association should resolve to the same table.
	JoinTable(owner string, m Member) string

	// ComponentColumn returns the column for a component field.
	ComponentColumn(prefix, column string) string
}

// DefaultConventionFinder derives snake_case names; tables are pluralised
// unless SingularTables is set.
type DefaultConventionFinder struct {
	TablePrefix    string
	SingularTables bool
	Naming         NamingConvention
}

// NewDefaultConventionFinder returns a finder using SnakeCase and plural table names.
func NewDefaultConventionFinder() *DefaultConventionFinder {
	return &DefaultConventionFinder{Naming: SnakeCase}
}

var _ ConventionFinder = (*DefaultConventionFinder)(nil)

func (f *DefaultConventionFinder) naming() NamingConvention {
	if f.Naming == nil {
		return SnakeCase
	}
	return f.Naming
}

func (f *DefaultConventionFinder) tableFor(typeName string) string {
	name := f.naming().Convert(typeName)
	if !f.SingularTables {
		name = inflection.Plural(name)
	}
	return f.TablePrefix + name
}

func (f *DefaultConventionFinder) TableName(e Entity) string {
	if e.Table != "" {
		return e.Table
	}
	return f.tableFor(e.Name)
}

func (f *DefaultConventionFinder) ColumnName(m Member) string {
	if col := m.ColumnTag().Column; col != "" {
		return col
	}
	return f.naming().Convert(m.Name)
}

func (f *DefaultConventionFinder) ForeignKey(m Member) string {
	if fk := m.RelTag().ForeignKey; fk != "" {
		return fk
	}
	if col := m.ColumnTag().Column; col != "" {
		return col
	}
	return f.naming().Join([]string{f.naming().Convert(m.Name), "id"})
}

func (f *DefaultConventionFinder) KeyColumn(owner string, m Member) string {
	if fk := m.RelTag().ForeignKey; fk != "" {
		return fk
	}
	return f.naming().Join([]string{f.naming().Convert(owner), "id"})
}

func (f *DefaultConventionFinder) JoinTable(owner string, m Member) string {
	if jt := m.RelTag().JoinTable; jt != "" {
		return jt
	}
	// Ordered by name so that both sides of the association agree.
	a, b := f.naming().Convert(owner), f.naming().Convert(m.Target)
	if b < a {
		a, b = b, a
	}
	return f.TablePrefix + f.naming().Join([]string{a, inflection.Plural(b)})
}

func (f *DefaultConventionFinder) ComponentColumn(prefix, column string) string {
	return f.naming().Join([]string{prefix, column})
}

// Convention adjusts a ClassMap after its members are mapped and before
// inline overrides run.
type Convention interface {
	Apply(cm *ClassMap) error
}

// ConventionFunc adapts a function to Convention.
type ConventionFunc func(cm *ClassMap) error

func (f ConventionFunc) Apply(cm *ClassMap) error { return f(cm) }

// StringLength sets size n on string properties that have no explicit size.
func StringLength(n int) Convention {
	return ConventionFunc(func(cm *ClassMap) error {
		return cm.UpdateProperties(func(p *PropertyMap) {
			if p.Type == DataString && p.Size == 0 {
				p.Size = n
			}
		})
	})
}

// UniqueColumns marks the named columns unique.
func UniqueColumns(columns ...string) Convention {
	return ConventionFunc(func(cm *ClassMap) error {
		return cm.UpdateProperties(func(p *PropertyMap) {
			for _, c := range columns {
				if strings.EqualFold(p.Column, c) {
					p.Unique = true
				}
			}
		})
	})
}
