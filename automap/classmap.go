package automap

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Access is how the persistence layer reaches a member.
type Access int

const (
	AccessProperty Access = iota // exported field
	AccessField                  // unexported field, read and written directly
)

func (a Access) String() string {
	if a == AccessField {
		return "field"
	}
	return "property"
}

// IDMap maps the identity member.
type IDMap struct {
	Member    string
	Column    string
	Type      DataType
	Generated bool // assigned by the database
	Access    Access
}

// PropertyMap maps a scalar member to a column.
type PropertyMap struct {
	Member   string // dotted path for component fields, e.g. "Address.City"
	Column   string
	Type     DataType
	Nullable bool
	Unique   bool
	Size     int
	Access   Access
}

// ReferenceMap maps a many-to-one association. Column lives on this table.
type ReferenceMap struct {
	Member   string
	Target   string
	Column   string
	Nullable bool
	Access   Access

	// KeyMember is the scalar member that holds the key value, e.g.
	// AuthorID next to Author. Empty when only the association is mapped.
	KeyMember string
}

// HasOneMap maps a one-to-one association. KeyColumn lives on the target table.
type HasOneMap struct {
	Member    string
	Target    string
	KeyColumn string
	Access    Access
}

// HasManyMap maps a one-to-many association. KeyColumn lives on the target table.
type HasManyMap struct {
	Member    string
	Target    string
	KeyColumn string
	Access    Access
}

// ManyToManyMap maps a many-to-many association through a join table.
type ManyToManyMap struct {
	Member       string
	Target       string
	JoinTable    string
	ParentColumn string // join table column referencing this table
	ChildColumn  string // join table column referencing the target table
	Access       Access
}

// ComponentMap maps a value struct stored inline in the owning table.
type ComponentMap struct {
	Member     string
	Type       string
	Prefix     string
	Properties []PropertyMap
	Access     Access
}

// ClassMap describes how one entity maps to a table. It is built by
// mappers, adjusted by conventions and overrides, and then frozen.
type ClassMap struct {
	Entity     string
	Table      string
	ID         *IDMap
	Properties []PropertyMap
	References []ReferenceMap
	HasOne     []HasOneMap
	HasMany    []HasManyMap
	ManyToMany []ManyToManyMap
	Components []ComponentMap

	frozen bool
}

// NewClassMap returns an empty ClassMap for entity stored in table.
func NewClassMap(entity, table string) *ClassMap {
	return &ClassMap{Entity: entity, Table: table}
}

// Freeze makes the ClassMap read-only. Mutating methods return ErrFrozen afterwards.
func (cm *ClassMap) Freeze() { cm.frozen = true }

// Frozen reports whether Freeze has been called.
func (cm *ClassMap) Frozen() bool { return cm.frozen }

func (cm *ClassMap) mutable() error {
	if cm.frozen {
		return errors.Wrapf(ErrFrozen, "%s", cm.Entity)
	}
	return nil
}

// Columns returns the columns stored in this table, identity first.
func (cm *ClassMap) Columns() []string {
	var cols []string
	if cm.ID != nil {
		cols = append(cols, cm.ID.Column)
	}
	for _, p := range cm.Properties {
		cols = append(cols, p.Column)
	}
	for _, c := range cm.Components {
		for _, p := range c.Properties {
			cols = append(cols, p.Column)
		}
	}
	for _, r := range cm.References {
		cols = append(cols, r.Column)
	}
	return cols
}

// HasColumn reports whether column is stored in this table.
func (cm *ClassMap) HasColumn(column string) bool {
	return slices.ContainsFunc(cm.Columns(), func(c string) bool { return strings.EqualFold(c, column) })
}

func (cm *ClassMap) checkColumn(column string) error {
	if cm.HasColumn(column) {
		return errors.Wrapf(ErrDuplicateColumn, "%s.%s", cm.Table, column)
	}
	return nil
}

// SetTable changes the table name.
func (cm *ClassMap) SetTable(table string) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	cm.Table = table
	return nil
}

// SetID sets the identity. A ClassMap has at most one identity.
func (cm *ClassMap) SetID(id IDMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	if cm.ID != nil {
		return errors.Wrapf(ErrMultipleIdentities, "%s: %s and %s", cm.Entity, cm.ID.Member, id.Member)
	}
	if err := cm.checkColumn(id.Column); err != nil {
		return err
	}
	cm.ID = &id
	return nil
}

// AddProperty maps a scalar member. A property whose column is already
// owned by a reference becomes that reference's KeyMember.
func (cm *ClassMap) AddProperty(p PropertyMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	for i := range cm.References {
		r := &cm.References[i]
		if r.KeyMember == "" && strings.EqualFold(r.Column, p.Column) {
			r.KeyMember = p.Member
			return nil
		}
	}
	if err := cm.checkColumn(p.Column); err != nil {
		return err
	}
	cm.Properties = append(cm.Properties, p)
	return nil
}

// AddReference maps a many-to-one association. If a property already maps
// the column, the reference takes it over and records the property as its
// KeyMember.
func (cm *ClassMap) AddReference(r ReferenceMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	if i := slices.IndexFunc(cm.Properties, func(p PropertyMap) bool { return strings.EqualFold(p.Column, r.Column) }); i >= 0 && r.KeyMember == "" {
		r.KeyMember = cm.Properties[i].Member
		cm.Properties = slices.Delete(cm.Properties, i, i+1)
	}
	if err := cm.checkColumn(r.Column); err != nil {
		return err
	}
	cm.References = append(cm.References, r)
	return nil
}

// AddHasOne maps a one-to-one association.
func (cm *ClassMap) AddHasOne(h HasOneMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	cm.HasOne = append(cm.HasOne, h)
	return nil
}

// AddHasMany maps a one-to-many association.
func (cm *ClassMap) AddHasMany(h HasManyMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	cm.HasMany = append(cm.HasMany, h)
	return nil
}

// AddManyToMany maps a many-to-many association.
func (cm *ClassMap) AddManyToMany(m ManyToManyMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	cm.ManyToMany = append(cm.ManyToMany, m)
	return nil
}

// AddComponent maps a value struct.
func (cm *ClassMap) AddComponent(c ComponentMap) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	for _, p := range c.Properties {
		if err := cm.checkColumn(p.Column); err != nil {
			return err
		}
	}
	cm.Components = append(cm.Components, c)
	return nil
}

// UpdateProperties calls fn for every property, including component properties.
func (cm *ClassMap) UpdateProperties(fn func(p *PropertyMap)) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	for i := range cm.Properties {
		fn(&cm.Properties[i])
	}
	for i := range cm.Components {
		for j := range cm.Components[i].Properties {
			fn(&cm.Components[i].Properties[j])
		}
	}
	return nil
}

// RenameColumn changes the column of the identity, a property or a reference.
// Component properties are addressed by their dotted path.
func (cm *ClassMap) RenameColumn(member, column string) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	target := cm.columnRef(member)
	if target == nil {
		return errors.Wrapf(ErrUnknownMember, "%s.%s", cm.Entity, member)
	}
	if *target == column {
		return nil
	}
	if err := cm.checkColumn(column); err != nil {
		return err
	}
	*target = column
	return nil
}

func (cm *ClassMap) columnRef(member string) *string {
	if cm.ID != nil && cm.ID.Member == member {
		return &cm.ID.Column
	}
	for i := range cm.Properties {
		if cm.Properties[i].Member == member {
			return &cm.Properties[i].Column
		}
	}
	for i := range cm.References {
		if cm.References[i].Member == member || cm.References[i].KeyMember == member {
			return &cm.References[i].Column
		}
	}
	for i := range cm.Components {
		for j := range cm.Components[i].Properties {
			if cm.Components[i].Properties[j].Member == member {
				return &cm.Components[i].Properties[j].Column
			}
		}
	}
	return nil
}

// Ignore removes a mapped member. Component properties are addressed by
// their dotted path; a component left without properties is removed.
func (cm *ClassMap) Ignore(member string) error {
	if err := cm.mutable(); err != nil {
		return err
	}
	n := cm.mappedCount()
	for i := range cm.References {
		if cm.References[i].KeyMember == member {
			cm.References[i].KeyMember = ""
			return nil
		}
	}
	if cm.ID != nil && cm.ID.Member == member {
		cm.ID = nil
	}
	cm.Properties = slices.DeleteFunc(cm.Properties, func(p PropertyMap) bool { return p.Member == member })
	cm.References = slices.DeleteFunc(cm.References, func(r ReferenceMap) bool { return r.Member == member })
	cm.HasOne = slices.DeleteFunc(cm.HasOne, func(h HasOneMap) bool { return h.Member == member })
	cm.HasMany = slices.DeleteFunc(cm.HasMany, func(h HasManyMap) bool { return h.Member == member })
	cm.ManyToMany = slices.DeleteFunc(cm.ManyToMany, func(m ManyToManyMap) bool { return m.Member == member })
	cm.Components = slices.DeleteFunc(cm.Components, func(c ComponentMap) bool { return c.Member == member })
	for i := range cm.Components {
		props := cm.Components[i].Properties
		kept := slices.DeleteFunc(props, func(p PropertyMap) bool { return p.Member == member })
		if len(kept) == len(props) {
			continue
		}
		cm.Components[i].Properties = kept
		if len(kept) == 0 {
			cm.Components = slices.Delete(cm.Components, i, i+1)
		}
		break
	}
	if cm.mappedCount() == n {
		return errors.Wrapf(ErrUnknownMember, "%s.%s", cm.Entity, member)
	}
	return nil
}

func (cm *ClassMap) mappedCount() int {
	n := len(cm.Properties) + len(cm.References) + len(cm.HasOne) + len(cm.HasMany) +
		len(cm.ManyToMany) + len(cm.Components)
	for _, c := range cm.Components {
		n += len(c.Properties)
	}
	if cm.ID != nil {
		n++
	}
	return n
}

// Validate checks that the ClassMap is complete.
func (cm *ClassMap) Validate() error {
	if cm.ID == nil {
		return errors.Wrapf(ErrNoIdentity, "%s", cm.Entity)
	}
	return nil
}
