package schema

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mickamy/automap/automap"
)

// Column is a column of a Table.
type Column struct {
	Name       string
	Type       automap.DataType
	Size       int
	Nullable   bool
	Unique     bool
	PrimaryKey bool
	Generated  bool
}

// ForeignKey references the primary key of another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table is the relational shape of one or more class maps: the entity
// table itself, or the join table of a many-to-many association.
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// PrimaryKey returns the primary key columns.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (t *Table) addForeignKey(col Column, ref *Table, refColumn string) {
	if !t.hasColumn(col.Name) {
		t.Columns = append(t.Columns, col)
	}
	t.ForeignKeys = append(t.ForeignKeys, ForeignKey{Column: col.Name, RefTable: ref.Name, RefColumn: refColumn})
}

// Tables derives the tables of maps, ordered so that referenced tables come
// before the tables that reference them. Key columns of has-one and
// has-many associations are added to the target table unless it already
// maps them. A join table shared by both sides is emitted once.
func Tables(maps []*automap.ClassMap) ([]Table, error) {
	byEntity := make(map[string]int, len(maps))
	tables := make([]*Table, 0, len(maps))
	for _, cm := range maps {
		if cm.ID == nil {
			return nil, errors.Wrapf(automap.ErrNoIdentity, "%s", cm.Entity)
		}
		byEntity[cm.Entity] = len(tables)
		tables = append(tables, entityTable(cm))
	}

	target := func(owner *automap.ClassMap, member, entity string) (*Table, *automap.ClassMap, error) {
		i, ok := byEntity[entity]
		if !ok {
			return nil, nil, errors.Wrapf(automap.ErrUnknownEntity, "%s.%s -> %s", owner.Entity, member, entity)
		}
		return tables[i], maps[i], nil
	}

	joins := make(map[string][2]string)
	for i, cm := range maps {
		t := tables[i]
		for _, r := range cm.References {
			ref, refMap, err := target(cm, r.Member, r.Target)
			if err != nil {
				return nil, err
			}
			t.ForeignKeys = append(t.ForeignKeys, ForeignKey{Column: r.Column, RefTable: ref.Name, RefColumn: refMap.ID.Column})
			setColumnType(t, r.Column, refMap.ID.Type)
		}

		inbound := make([]struct{ member, target, key string }, 0, len(cm.HasOne)+len(cm.HasMany))
		for _, h := range cm.HasOne {
			inbound = append(inbound, struct{ member, target, key string }{h.Member, h.Target, h.KeyColumn})
		}
		for _, h := range cm.HasMany {
			inbound = append(inbound, struct{ member, target, key string }{h.Member, h.Target, h.KeyColumn})
		}
		for _, in := range inbound {
			child, _, err := target(cm, in.member, in.target)
			if err != nil {
				return nil, err
			}
			if child.hasColumn(in.key) {
				continue
			}
			child.addForeignKey(Column{Name: in.key, Type: cm.ID.Type, Nullable: true}, t, cm.ID.Column)
		}

		for _, m := range cm.ManyToMany {
			other, otherMap, err := target(cm, m.Member, m.Target)
			if err != nil {
				return nil, err
			}
			if strings.EqualFold(m.ParentColumn, m.ChildColumn) {
				return nil, errors.Wrapf(ErrJoinColumns, "%s.%s: %s references both sides", cm.Entity, m.Member, m.ParentColumn)
			}
			cols := joinColumns(m.ParentColumn, m.ChildColumn)
			key := strings.ToLower(m.JoinTable)
			if seen, ok := joins[key]; ok {
				if seen != cols {
					return nil, errors.Wrapf(ErrJoinColumns, "%s.%s: %s declared with %s and %s",
						cm.Entity, m.Member, m.JoinTable, strings.Join(seen[:], ", "), strings.Join(cols[:], ", "))
				}
				continue
			}
			joins[key] = cols

			jt := &Table{Name: m.JoinTable}
			jt.addForeignKey(Column{Name: m.ParentColumn, Type: cm.ID.Type, PrimaryKey: true}, t, cm.ID.Column)
			jt.addForeignKey(Column{Name: m.ChildColumn, Type: otherMap.ID.Type, PrimaryKey: true}, other, otherMap.ID.Column)
			tables = append(tables, jt)
		}
	}

	index := make(map[string]int, len(tables))
	for i, t := range tables {
		index[strings.ToLower(t.Name)] = i
	}
	order, err := topoSort(len(tables), func(i int) []int {
		var deps []int
		for _, fk := range tables[i].ForeignKeys {
			if j := index[strings.ToLower(fk.RefTable)]; j != i {
				deps = append(deps, j)
			}
		}
		return deps
	})
	if err != nil {
		names := make([]string, len(order))
		for k, i := range order {
			names[k] = tables[i].Name
		}
		return nil, errors.Wrapf(err, "%s", strings.Join(names, ", "))
	}

	out := make([]Table, len(order))
	for k, i := range order {
		out[k] = *tables[i]
	}
	return out, nil
}

// joinColumns returns the columns of a join table independent of the side
// that declares it.
func joinColumns(a, b string) [2]string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func entityTable(cm *automap.ClassMap) *Table {
	t := &Table{Name: cm.Table}
	t.Columns = append(t.Columns, Column{
		Name:       cm.ID.Column,
		Type:       cm.ID.Type,
		PrimaryKey: true,
		Generated:  cm.ID.Generated,
	})
	add := func(p automap.PropertyMap) {
		t.Columns = append(t.Columns, Column{
			Name:     p.Column,
			Type:     p.Type,
			Size:     p.Size,
			Nullable: p.Nullable,
			Unique:   p.Unique,
		})
	}
	for _, p := range cm.Properties {
		add(p)
	}
	for _, c := range cm.Components {
		for _, p := range c.Properties {
			add(p)
		}
	}
	for _, r := range cm.References {
		t.Columns = append(t.Columns, Column{Name: r.Column, Nullable: r.Nullable})
	}
	return t
}

func setColumnType(t *Table, column string, typ automap.DataType) {
	for i := range t.Columns {
		if t.Columns[i].Name == column {
			t.Columns[i].Type = typ
		}
	}
}

// CreateTable renders the CREATE TABLE statement for t.
func CreateTable(d Dialect, t Table) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(d.QuoteIdent(t.Name))
	b.WriteString(" (\n")

	pk := t.PrimaryKey()
	composite := len(pk) > 1
	var lines []string
	for _, c := range t.Columns {
		lines = append(lines, "  "+columnDef(d, c, composite))
	}
	if composite {
		lines = append(lines, "  PRIMARY KEY ("+quoteList(d, pk)+")")
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, "  FOREIGN KEY ("+d.QuoteIdent(fk.Column)+") REFERENCES "+
			d.QuoteIdent(fk.RefTable)+" ("+d.QuoteIdent(fk.RefColumn)+")")
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

func columnDef(d Dialect, c Column, composite bool) string {
	name := d.QuoteIdent(c.Name)
	switch {
	case c.PrimaryKey && c.Generated && !composite:
		return name + " " + d.IdentityColumn(c.Type)
	case c.PrimaryKey && !composite:
		return name + " " + d.ColumnType(c.Type, c.Size) + " NOT NULL PRIMARY KEY"
	}
	def := name + " " + d.ColumnType(c.Type, c.Size)
	if !c.Nullable {
		def += " NOT NULL"
	}
	if c.Unique {
		def += " UNIQUE"
	}
	return def
}

func quoteList(d Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// CreateTables renders CREATE TABLE statements for maps in dependency order.
func CreateTables(d Dialect, maps []*automap.ClassMap) ([]string, error) {
	tables, err := Tables(maps)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, len(tables))
	for i, t := range tables {
		stmts[i] = CreateTable(d, t)
	}
	return stmts, nil
}

// DropTables renders DROP TABLE statements for maps, dependents first.
func DropTables(d Dialect, maps []*automap.ClassMap) ([]string, error) {
	tables, err := Tables(maps)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+d.QuoteIdent(tables[i].Name))
	}
	return stmts, nil
}
