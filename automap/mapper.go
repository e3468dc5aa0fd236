package automap

import (
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/pkg/errors"
)

// MemberMapper decides whether it handles a member and maps it.
//
// MapsMember must be deterministic and free of side effects; it is queried
// repeatedly while candidates are scanned. Map is only valid for members
// MapsMember claims: called on any other member it returns an error
// wrapping ErrUnsupportedMember and leaves cm unchanged.
type MemberMapper interface {
	MapsMember(m Member) bool
	Map(cm *ClassMap, m Member) error
}

func unsupported(mapper string, m Member) error {
	return errors.Wrapf(ErrUnsupportedMember, "%s: %s (%s %s)", mapper, m.Name, m.Kind, m.GoType)
}

// DefaultMappers returns the built-in registry in dispatch order.
func DefaultMappers(expr *Expressions, finder ConventionFinder, access Access) []MemberMapper {
	return []MemberMapper{
		&IdentityMapper{Expressions: expr, Conventions: finder, Access: access},
		&ReferenceMapper{Conventions: finder, Access: access},
		&HasOneMapper{Conventions: finder, Access: access},
		&HasManyMapper{Conventions: finder, Access: access},
		&ManyToManyMapper{Conventions: finder, Access: access},
		&ComponentMapper{Conventions: finder, Access: access},
		&PropertyMapper{Conventions: finder, Access: access},
	}
}

// IdentityMapper maps the identity: a scalar tagged primaryKey or matched
// by Expressions.FindIdentity. Integer identities are database generated.
type IdentityMapper struct {
	Expressions *Expressions
	Conventions ConventionFinder
	Access      Access
}

func (im *IdentityMapper) MapsMember(m Member) bool {
	if m.Kind != KindScalar || m.Ignored() || m.RelTag().Kind != "" {
		return false
	}
	if m.ColumnTag().PrimaryKey {
		return true
	}
	return im.Expressions != nil && im.Expressions.FindIdentity != nil && im.Expressions.FindIdentity(m)
}

func (im *IdentityMapper) Map(cm *ClassMap, m Member) error {
	if !im.MapsMember(m) {
		return unsupported("identity", m)
	}
	return cm.SetID(IDMap{
		Member:    m.Name,
		Column:    im.Conventions.ColumnName(m),
		Type:      m.Type,
		Generated: m.Type.IsInteger(),
		Access:    im.Access,
	})
}

// ReferenceMapper maps a pointer to another entity as many-to-one.
type ReferenceMapper struct {
	Conventions ConventionFinder
	Access      Access
}

func (rm *ReferenceMapper) MapsMember(m Member) bool {
	if m.Ignored() {
		return false
	}
	rel := m.RelTag().Kind
	return (m.Kind == KindReference && rel == "") ||
		((m.Kind == KindReference || m.Kind == KindComponent) && rel == RelBelongsTo)
}

func (rm *ReferenceMapper) Map(cm *ClassMap, m Member) error {
	if !rm.MapsMember(m) {
		return unsupported("reference", m)
	}
	return cm.AddReference(ReferenceMap{
		Member:   m.Name,
		Target:   m.Target,
		Column:   rm.Conventions.ForeignKey(m),
		Nullable: !m.ColumnTag().NotNull,
		Access:   rm.Access,
	})
}

// HasOneMapper maps a member tagged `rel:"has_one"`.
type HasOneMapper struct {
	Conventions ConventionFinder
	Access      Access
}

func (hm *HasOneMapper) MapsMember(m Member) bool {
	return !m.Ignored() && m.RelTag().Kind == RelHasOne &&
		(m.Kind == KindReference || m.Kind == KindComponent)
}

func (hm *HasOneMapper) Map(cm *ClassMap, m Member) error {
	if !hm.MapsMember(m) {
		return unsupported("has_one", m)
	}
	return cm.AddHasOne(HasOneMap{
		Member:    m.Name,
		Target:    m.Target,
		KeyColumn: hm.Conventions.KeyColumn(cm.Entity, m),
		Access:    hm.Access,
	})
}

// HasManyMapper maps a slice of another entity as one-to-many.
type HasManyMapper struct {
	Conventions ConventionFinder
	Access      Access
}

func (hm *HasManyMapper) MapsMember(m Member) bool {
	rel := m.RelTag().Kind
	return !m.Ignored() && m.Kind == KindCollection && (rel == "" || rel == RelHasMany)
}

func (hm *HasManyMapper) Map(cm *ClassMap, m Member) error {
	if !hm.MapsMember(m) {
		return unsupported("has_many", m)
	}
	return cm.AddHasMany(HasManyMap{
		Member:    m.Name,
		Target:    m.Target,
		KeyColumn: hm.Conventions.KeyColumn(cm.Entity, m),
		Access:    hm.Access,
	})
}

// ManyToManyMapper maps a slice tagged `rel:"many_to_many"`.
type ManyToManyMapper struct {
	Conventions ConventionFinder
	Access      Access
}

func (mm *ManyToManyMapper) MapsMember(m Member) bool {
	return !m.Ignored() && m.Kind == KindCollection && m.RelTag().Kind == RelManyToMany
}

func (mm *ManyToManyMapper) Map(cm *ClassMap, m Member) error {
	if !mm.MapsMember(m) {
		return unsupported("many_to_many", m)
	}
	parent := mm.Conventions.KeyColumn(cm.Entity, m)
	child := m.RelTag().References
	if child == "" {
		child = mm.Conventions.KeyColumn(m.Target, Member{Name: m.Target})
		// Self-referencing: name the other side after the member, e.g. friend_id.
		if strings.EqualFold(child, parent) {
			child = mm.Conventions.ForeignKey(Member{Name: inflection.Singular(m.Name)})
		}
	}
	return cm.AddManyToMany(ManyToManyMap{
		Member:       m.Name,
		Target:       m.Target,
		JoinTable:    mm.Conventions.JoinTable(cm.Entity, m),
		ParentColumn: parent,
		ChildColumn:  child,
		Access:       mm.Access,
	})
}

// ComponentMapper maps a value struct that is not an entity. Its scalar
// fields become columns prefixed with the member's column name.
type ComponentMapper struct {
	Conventions ConventionFinder
	Access      Access
}

func (cmp *ComponentMapper) MapsMember(m Member) bool {
	return !m.Ignored() && m.Kind == KindComponent && m.RelTag().Kind == ""
}

func (cmp *ComponentMapper) Map(cm *ClassMap, m Member) error {
	if !cmp.MapsMember(m) {
		return unsupported("component", m)
	}
	prefix := cmp.Conventions.ColumnName(m)
	c := ComponentMap{
		Member: m.Name,
		Type:   m.Target,
		Prefix: prefix,
		Access: cmp.Access,
	}
	c.Properties = cmp.properties(m.Name, prefix, m.Members)
	return cm.AddComponent(c)
}

func (cmp *ComponentMapper) properties(path, prefix string, members []Member) []PropertyMap {
	var props []PropertyMap
	for _, sub := range members {
		if sub.Ignored() || (!sub.Exported && cmp.Access != AccessField) {
			continue
		}
		switch sub.Kind {
		case KindScalar:
			ct := sub.ColumnTag()
			props = append(props, PropertyMap{
				Member:   path + "." + sub.Name,
				Column:   cmp.Conventions.ComponentColumn(prefix, cmp.Conventions.ColumnName(sub)),
				Type:     sub.Type,
				Nullable: sub.Nullable && !ct.NotNull,
				Unique:   ct.Unique,
				Size:     ct.Size,
				Access:   cmp.Access,
			})
		case KindComponent:
			nested := cmp.Conventions.ComponentColumn(prefix, cmp.Conventions.ColumnName(sub))
			props = append(props, cmp.properties(path+"."+sub.Name, nested, sub.Members)...)
		}
	}
	return props
}

// PropertyMapper maps any remaining scalar member to a column.
type PropertyMapper struct {
	Conventions ConventionFinder
	Access      Access
}

func (pm *PropertyMapper) MapsMember(m Member) bool {
	return !m.Ignored() && m.Kind == KindScalar && m.RelTag().Kind == ""
}

func (pm *PropertyMapper) Map(cm *ClassMap, m Member) error {
	if !pm.MapsMember(m) {
		return unsupported("property", m)
	}
	ct := m.ColumnTag()
	return cm.AddProperty(PropertyMap{
		Member:   m.Name,
		Column:   pm.Conventions.ColumnName(m),
		Type:     m.Type,
		Nullable: m.Nullable && !ct.NotNull,
		Unique:   ct.Unique,
		Size:     ct.Size,
		Access:   pm.Access,
	})
}
