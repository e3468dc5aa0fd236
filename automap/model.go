package automap

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Option configures a PersistenceModel.
type Option func(o *options)

type options struct {
	finder  ConventionFinder
	expr    *Expressions
	mappers []MemberMapper
	log     zerolog.Logger
}

// WithConventionFinder replaces the DefaultConventionFinder. Nil keeps the default.
func WithConventionFinder(f ConventionFinder) Option {
	return func(o *options) { o.finder = f }
}

// WithExpressions replaces DefaultExpressions. Nil keeps the default.
func WithExpressions(e *Expressions) Option {
	return func(o *options) { o.expr = e }
}

// WithMappers replaces the default mapper registry.
func WithMappers(mappers ...MemberMapper) Option {
	return func(o *options) { o.mappers = mappers }
}

// WithLogger sets the logger for mapping decisions. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{
		finder: NewDefaultConventionFinder(),
		expr:   DefaultExpressions(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.finder == nil {
		o.finder = NewDefaultConventionFinder()
	}
	if o.expr == nil {
		o.expr = DefaultExpressions()
	}
	return o
}

// PersistenceModel collects entities, conventions and overrides and builds
// their class maps once.
type PersistenceModel struct {
	// Expressions is shared with the auto mapper; use Setup to change it.
	Expressions *Expressions

	autoMapper *AutoMapper
	overrides  *InlineOverrides
	entities   []Entity
	where      func(e Entity) bool
	log        zerolog.Logger

	errs  []error
	built []*ClassMap
	index map[string]*ClassMap
}

// NewAutoPersistenceModel returns a model that maps exported members.
func NewAutoPersistenceModel(opts ...Option) *PersistenceModel {
	o := newOptions(opts)
	m := &PersistenceModel{
		Expressions: o.expr,
		overrides:   NewInlineOverrides(),
		log:         o.log,
	}
	m.autoMapper = NewAutoMapper(m.Expressions, o.finder, m.overrides)
	m.configure(o)
	return m
}

// NewPrivateAutoPersistenceModel returns a model that maps unexported
// members through field access. It is ready to accept overrides.
func NewPrivateAutoPersistenceModel(opts ...Option) *PersistenceModel {
	o := newOptions(opts)
	m := &PersistenceModel{
		Expressions: o.expr,
		overrides:   NewInlineOverrides(),
		log:         o.log,
	}
	m.autoMapper = NewPrivateAutoMapper(m.Expressions, o.finder, m.overrides)
	m.configure(o)
	return m
}

func (m *PersistenceModel) configure(o options) {
	if o.mappers != nil {
		m.autoMapper.Use(o.mappers...)
	}
	m.autoMapper.SetLogger(o.log)
}

// AutoMapper returns the auto mapper the model delegates to.
func (m *PersistenceModel) AutoMapper() *AutoMapper { return m.autoMapper }

func (m *PersistenceModel) record(err error) *PersistenceModel {
	m.errs = append(m.errs, err)
	return m
}

func (m *PersistenceModel) checkOpen(op string) bool {
	if m.built != nil {
		m.record(errors.Wrap(ErrModelBuilt, op))
		return false
	}
	return true
}

// Add registers entity descriptors. An entity added twice is mapped once.
func (m *PersistenceModel) Add(entities ...Entity) *PersistenceModel {
	if !m.checkOpen("add") {
		return m
	}
	for _, e := range entities {
		if m.has(e.Name) {
			continue
		}
		m.entities = append(m.entities, e)
	}
	return m
}

func (m *PersistenceModel) has(name string) bool {
	for _, e := range m.entities {
		if e.Name == name {
			return true
		}
	}
	return false
}

// AddTypes describes each value with Reflect and registers it.
func (m *PersistenceModel) AddTypes(values ...any) *PersistenceModel {
	for _, v := range values {
		e, err := Reflect(v)
		if err != nil {
			return m.record(err)
		}
		m.Add(e)
	}
	return m
}

// Where restricts Build to the entities pred accepts.
func (m *PersistenceModel) Where(pred func(e Entity) bool) *PersistenceModel {
	if m.checkOpen("where") {
		m.where = pred
	}
	return m
}

// Setup adjusts the expressions used for member discovery.
func (m *PersistenceModel) Setup(fn func(e *Expressions)) *PersistenceModel {
	if m.checkOpen("setup") {
		fn(m.Expressions)
	}
	return m
}

// Conventions registers conventions applied to every entity.
func (m *PersistenceModel) Conventions(cs ...Convention) *PersistenceModel {
	if m.checkOpen("conventions") {
		m.autoMapper.AddConventions(cs...)
	}
	return m
}

// Override registers an adjustment for one entity, applied after conventions.
func (m *PersistenceModel) Override(entity string, fn func(cm *ClassMap) error) *PersistenceModel {
	if m.checkOpen("override") {
		m.overrides.Add(entity, fn)
	}
	return m
}

// Build maps every accepted entity, validates associations and freezes the
// result. Later calls return the same class maps.
func (m *PersistenceModel) Build() ([]*ClassMap, error) {
	if len(m.errs) > 0 {
		return nil, m.errs[0]
	}
	if m.built != nil {
		return m.built, nil
	}

	maps := make([]*ClassMap, 0, len(m.entities))
	index := make(map[string]*ClassMap, len(m.entities))
	for _, e := range m.entities {
		if m.where != nil && !m.where(e) {
			m.log.Debug().Str("entity", e.Name).Msg("entity excluded")
			continue
		}
		cm, err := m.autoMapper.MapEntity(e)
		if err != nil {
			return nil, err
		}
		maps = append(maps, cm)
		index[cm.Entity] = cm
	}

	for _, name := range m.overrides.Entities() {
		if _, ok := index[name]; !ok {
			return nil, errors.Wrapf(ErrUnknownEntity, "override for %s", name)
		}
	}
	for _, cm := range maps {
		if err := validate(cm, index); err != nil {
			return nil, err
		}
	}

	for _, cm := range maps {
		cm.Freeze()
		m.log.Info().Str("entity", cm.Entity).Str("table", cm.Table).Int("columns", len(cm.Columns())).
			Msg("class map built")
	}
	m.built = maps
	m.index = index
	return maps, nil
}

func validate(cm *ClassMap, index map[string]*ClassMap) error {
	if err := cm.Validate(); err != nil {
		return err
	}
	type assoc struct{ member, target string }
	var assocs []assoc
	for _, r := range cm.References {
		assocs = append(assocs, assoc{r.Member, r.Target})
	}
	for _, h := range cm.HasOne {
		assocs = append(assocs, assoc{h.Member, h.Target})
	}
	for _, h := range cm.HasMany {
		assocs = append(assocs, assoc{h.Member, h.Target})
	}
	for _, mm := range cm.ManyToMany {
		assocs = append(assocs, assoc{mm.Member, mm.Target})
	}
	for _, a := range assocs {
		if _, ok := index[a.target]; !ok {
			return errors.Wrapf(ErrUnknownEntity, "%s.%s -> %s", cm.Entity, a.member, a.target)
		}
	}
	return nil
}

// Find returns the built class map for entity.
func (m *PersistenceModel) Find(entity string) (*ClassMap, bool) {
	cm, ok := m.index[entity]
	return cm, ok
}
