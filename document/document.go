package document

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mickamy/automap/automap"
)

// Document is the YAML form of a built persistence model.
type Document struct {
	Version  string   `yaml:"version"`
	Entities []Entity `yaml:"entities"`
}

// Entity is the YAML form of one class map.
type Entity struct {
	Name       string       `yaml:"name"`
	Table      string       `yaml:"table"`
	ID         *ID          `yaml:"id,omitempty"`
	Properties []Property   `yaml:"properties,omitempty"`
	References []Reference  `yaml:"references,omitempty"`
	HasOne     []Collection `yaml:"hasOne,omitempty"`
	HasMany    []Collection `yaml:"hasMany,omitempty"`
	ManyToMany []ManyToMany `yaml:"manyToMany,omitempty"`
	Components []Component  `yaml:"components,omitempty"`
}

// ID describes the identity column.
type ID struct {
	Member    string `yaml:"member"`
	Column    string `yaml:"column"`
	Type      string `yaml:"type"`
	Generated bool   `yaml:"generated,omitempty"`
	Access    string `yaml:"access"`
}

// Property describes a scalar column.
type Property struct {
	Member   string `yaml:"member"`
	Column   string `yaml:"column"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable,omitempty"`
	Unique   bool   `yaml:"unique,omitempty"`
	Size     int    `yaml:"size,omitempty"`
	Access   string `yaml:"access"`
}

// Reference describes a many-to-one association and its column.
type Reference struct {
	Member    string `yaml:"member"`
	Target    string `yaml:"target"`
	Column    string `yaml:"column"`
	KeyMember string `yaml:"keyMember,omitempty"`
	Nullable  bool   `yaml:"nullable,omitempty"`
	Access    string `yaml:"access"`
}

// Collection describes a has-one or has-many association.
type Collection struct {
	Member    string `yaml:"member"`
	Target    string `yaml:"target"`
	KeyColumn string `yaml:"keyColumn"`
	Access    string `yaml:"access"`
}

// ManyToMany describes an association through a join table.
type ManyToMany struct {
	Member       string `yaml:"member"`
	Target       string `yaml:"target"`
	JoinTable    string `yaml:"joinTable"`
	ParentColumn string `yaml:"parentColumn"`
	ChildColumn  string `yaml:"childColumn"`
	Access       string `yaml:"access"`
}

// Component describes a value struct stored in the owning table.
type Component struct {
	Member     string     `yaml:"member"`
	Type       string     `yaml:"type"`
	Prefix     string     `yaml:"prefix"`
	Properties []Property `yaml:"properties"`
	Access     string     `yaml:"access"`
}

// New converts class maps to a Document.
func New(maps []*automap.ClassMap) *Document {
	doc := &Document{Version: currentVersion, Entities: make([]Entity, 0, len(maps))}
	for _, cm := range maps {
		doc.Entities = append(doc.Entities, entity(cm))
	}
	return doc
}

func entity(cm *automap.ClassMap) Entity {
	e := Entity{Name: cm.Entity, Table: cm.Table}
	if cm.ID != nil {
		e.ID = &ID{
			Member:    cm.ID.Member,
			Column:    cm.ID.Column,
			Type:      cm.ID.Type.String(),
			Generated: cm.ID.Generated,
			Access:    cm.ID.Access.String(),
		}
	}
	e.Properties = properties(cm.Properties)
	for _, r := range cm.References {
		e.References = append(e.References, Reference{
			Member: r.Member, Target: r.Target, Column: r.Column, KeyMember: r.KeyMember,
			Nullable: r.Nullable, Access: r.Access.String(),
		})
	}
	for _, h := range cm.HasOne {
		e.HasOne = append(e.HasOne, Collection{
			Member: h.Member, Target: h.Target, KeyColumn: h.KeyColumn, Access: h.Access.String(),
		})
	}
	for _, h := range cm.HasMany {
		e.HasMany = append(e.HasMany, Collection{
			Member: h.Member, Target: h.Target, KeyColumn: h.KeyColumn, Access: h.Access.String(),
		})
	}
	for _, m := range cm.ManyToMany {
		e.ManyToMany = append(e.ManyToMany, ManyToMany{
			Member: m.Member, Target: m.Target, JoinTable: m.JoinTable,
			ParentColumn: m.ParentColumn, ChildColumn: m.ChildColumn, Access: m.Access.String(),
		})
	}
	for _, c := range cm.Components {
		e.Components = append(e.Components, Component{
			Member: c.Member, Type: c.Type, Prefix: c.Prefix,
			Properties: properties(c.Properties), Access: c.Access.String(),
		})
	}
	return e
}

func properties(ps []automap.PropertyMap) []Property {
	var out []Property
	for _, p := range ps {
		out = append(out, Property{
			Member:   p.Member,
			Column:   p.Column,
			Type:     p.Type.String(),
			Nullable: p.Nullable,
			Unique:   p.Unique,
			Size:     p.Size,
			Access:   p.Access.String(),
		})
	}
	return out
}

// Marshal serializes maps to a YAML mapping document.
func Marshal(maps []*automap.ClassMap) ([]byte, error) {
	out, err := yaml.Marshal(New(maps))
	if err != nil {
		return nil, errors.Wrap(err, "marshal mapping document")
	}
	return out, nil
}

// WriteFile writes the mapping document of maps to path.
func WriteFile(maps []*automap.ClassMap, path string) error {
	data, err := Marshal(maps)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // documents are meant to be read
		return errors.Wrapf(err, "write mapping document %s", path)
	}
	return nil
}
