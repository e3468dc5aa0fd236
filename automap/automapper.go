package automap

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// AutoMapper turns an Entity into a ClassMap. Each candidate member is
// offered to the registered mappers in order; the first one that claims it
// maps it. Members nobody claims are skipped.
type AutoMapper struct {
	expressions *Expressions
	conventions ConventionFinder
	overrides   *InlineOverrides
	candidate   func(m Member) bool
	mappers     []MemberMapper
	applied     []Convention
	log         zerolog.Logger
}

// NewAutoMapper returns an AutoMapper for exported members.
func NewAutoMapper(expr *Expressions, finder ConventionFinder, overrides *InlineOverrides) *AutoMapper {
	return &AutoMapper{
		expressions: expr,
		conventions: finder,
		overrides:   overrides,
		candidate:   func(m Member) bool { return m.Exported },
		mappers:     DefaultMappers(expr, finder, AccessProperty),
		log:         zerolog.Nop(),
	}
}

// NewPrivateAutoMapper returns an AutoMapper for the members selected by
// expr.FindMappablePrivateMembers, read through field access.
func NewPrivateAutoMapper(expr *Expressions, finder ConventionFinder, overrides *InlineOverrides) *AutoMapper {
	a := &AutoMapper{
		expressions: expr,
		conventions: finder,
		overrides:   overrides,
		mappers:     DefaultMappers(expr, finder, AccessField),
		log:         zerolog.Nop(),
	}
	a.candidate = func(m Member) bool {
		return a.expressions != nil && a.expressions.FindMappablePrivateMembers != nil &&
			a.expressions.FindMappablePrivateMembers(m)
	}
	return a
}

// Use replaces the mapper registry.
func (a *AutoMapper) Use(mappers ...MemberMapper) {
	a.mappers = append([]MemberMapper(nil), mappers...)
}

// Mappers returns a copy of the mapper registry.
func (a *AutoMapper) Mappers() []MemberMapper {
	return append([]MemberMapper(nil), a.mappers...)
}

// AddConventions registers conventions applied to every mapped entity.
func (a *AutoMapper) AddConventions(cs ...Convention) {
	a.applied = append(a.applied, cs...)
}

// SetLogger sets the logger used for mapping decisions.
func (a *AutoMapper) SetLogger(l zerolog.Logger) { a.log = l }

// MapEntity maps the members of e, applies conventions and then the
// inline overrides registered for e.
func (a *AutoMapper) MapEntity(e Entity) (*ClassMap, error) {
	cm := NewClassMap(e.Name, a.conventions.TableName(e))

	for _, m := range flatten(e.Members) {
		if m.Ignored() || !a.candidate(m) {
			continue
		}
		mapper := a.find(m)
		if mapper == nil {
			a.log.Debug().Str("entity", e.Name).Str("member", m.Name).Stringer("kind", m.Kind).
				Msg("no mapper claims member")
			continue
		}
		if err := mapper.Map(cm, m); err != nil {
			return nil, errors.Wrapf(err, "map %s.%s", e.Name, m.Name)
		}
		a.log.Debug().Str("entity", e.Name).Str("member", m.Name).Stringer("kind", m.Kind).Msg("member mapped")
	}

	for _, c := range a.applied {
		if err := c.Apply(cm); err != nil {
			return nil, errors.Wrapf(err, "convention on %s", e.Name)
		}
	}

	if a.overrides != nil {
		if err := a.overrides.Apply(cm); err != nil {
			return nil, err
		}
	}
	return cm, nil
}

func (a *AutoMapper) find(m Member) MemberMapper {
	for _, mapper := range a.mappers {
		if mapper.MapsMember(m) {
			return mapper
		}
	}
	return nil
}

// flatten replaces untagged embedded structs, and pointers to them, by
// their fields, the way Go promotes them. An embedded pointer tagged with a
// rel kind stays an association.
func flatten(members []Member) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.Embedded && m.Kind == KindComponent && m.ColumnTag().Column == "" && !m.Ignored() {
			out = append(out, flatten(m.Members)...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// InlineOverrides holds per-entity adjustments applied after conventions.
type InlineOverrides struct {
	byEntity map[string][]func(cm *ClassMap) error
	order    []string
}

// NewInlineOverrides returns an empty set of overrides.
func NewInlineOverrides() *InlineOverrides {
	return &InlineOverrides{byEntity: make(map[string][]func(cm *ClassMap) error)}
}

// Add registers fn for entity. Overrides for the same entity run in the
// order they were added.
func (o *InlineOverrides) Add(entity string, fn func(cm *ClassMap) error) {
	if _, ok := o.byEntity[entity]; !ok {
		o.order = append(o.order, entity)
	}
	o.byEntity[entity] = append(o.byEntity[entity], fn)
}

// Entities returns the entities that have overrides, in registration order.
func (o *InlineOverrides) Entities() []string {
	return append([]string(nil), o.order...)
}

// Apply runs the overrides registered for cm.Entity.
func (o *InlineOverrides) Apply(cm *ClassMap) error {
	for _, fn := range o.byEntity[cm.Entity] {
		if err := fn(cm); err != nil {
			return errors.Wrapf(err, "override %s", cm.Entity)
		}
	}
	return nil
}
