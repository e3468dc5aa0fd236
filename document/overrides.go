package document

import (
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mickamy/automap/automap"
)

const currentVersion = "1"

// ErrInvalidFile is returned for override files that fail validation.
var ErrInvalidFile = errors.New("document: invalid override file")

// File is an override file.
type File struct {
	Version   string     `yaml:"version"`
	Overrides []Override `yaml:"overrides" validate:"dive"`
}

// Override adjusts the class map of one entity.
type Override struct {
	Entity string `yaml:"entity" validate:"required"`
	Table  string `yaml:"table,omitempty"`

	// Columns renames columns, keyed by member. Component fields use their
	// dotted path, e.g. "Address.City".
	Columns map[string]string `yaml:"columns,omitempty" validate:"dive,keys,required,endkeys,required"`

	// Ignore removes mapped members. Component fields use their dotted
	// path as in Columns.
	Ignore []string `yaml:"ignore,omitempty" validate:"dive,required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile loads and parses an override file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read override file %s", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return f, nil
}

// Parse parses and validates an override file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse override YAML")
	}
	if f.Version == "" {
		f.Version = currentVersion
	}
	if f.Version != currentVersion {
		return nil, errors.Wrapf(ErrInvalidFile, "unsupported version %q", f.Version)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "%v", err)
	}
	return &f, nil
}

// Apply adjusts cm. Renames run in member order, then ignores.
func (o Override) Apply(cm *automap.ClassMap) error {
	if o.Table != "" {
		if err := cm.SetTable(o.Table); err != nil {
			return err
		}
	}
	members := make([]string, 0, len(o.Columns))
	for m := range o.Columns {
		members = append(members, m)
	}
	slices.Sort(members)
	for _, m := range members {
		if err := cm.RenameColumn(m, o.Columns[m]); err != nil {
			return err
		}
	}
	for _, m := range o.Ignore {
		if err := cm.Ignore(m); err != nil {
			return err
		}
	}
	return nil
}

// Register adds every override in f to model.
func (f *File) Register(model *automap.PersistenceModel) {
	for _, o := range f.Overrides {
		model.Override(o.Entity, o.Apply)
	}
}
