package automap

import (
	"reflect"
	"strconv"
	"strings"
)

// Kind classifies what a member holds.
type Kind int

const (
	KindUnsupported Kind = iota // map, chan, func, interface
	KindScalar                  // a single column value
	KindReference               // pointer to another entity
	KindCollection              // slice of another entity
	KindComponent               // value struct stored inline
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindReference:
		return "reference"
	case KindCollection:
		return "collection"
	case KindComponent:
		return "component"
	default:
		return "unsupported"
	}
}

// DataType is the storage type of a scalar member.
type DataType int

const (
	DataUnknown DataType = iota
	DataBool
	DataInt    // up to 32 bits
	DataBigInt // int, int64, uint64
	DataFloat
	DataString
	DataBytes
	DataTime
)

func (d DataType) String() string {
	switch d {
	case DataBool:
		return "bool"
	case DataInt:
		return "int"
	case DataBigInt:
		return "bigint"
	case DataFloat:
		return "float"
	case DataString:
		return "string"
	case DataBytes:
		return "bytes"
	case DataTime:
		return "time"
	default:
		return "unknown"
	}
}

// IsInteger reports whether d is an integer type.
func (d DataType) IsInteger() bool {
	return d == DataInt || d == DataBigInt
}

// Member describes one struct field.
type Member struct {
	Name     string            // Go field name, e.g. "CreatedAt" or "createdAt"
	GoType   string            // Go type as written, e.g. "*time.Time"
	Kind     Kind              // what the field holds
	Type     DataType          // storage type; scalars only
	Target   string            // entity or component type name for non-scalars, e.g. "Post"
	Exported bool              // false for unexported fields
	Embedded bool              // anonymous field
	Nullable bool              // pointer to scalar or sql.Null* type
	Tag      reflect.StructTag // raw struct tag
	Index    []int             // reflect field index; nil when parsed from source
	Members  []Member          // component fields; components only
}

// Ignored reports whether the member is excluded with `db:"-"`.
func (m Member) Ignored() bool {
	v, ok := m.Tag.Lookup("db")
	return ok && v == "-"
}

// ColumnTag holds the options parsed from a `db:"name,opt,..."` tag.
type ColumnTag struct {
	Column     string
	PrimaryKey bool
	Unique     bool
	NotNull    bool
	Size       int
}

// ColumnTag parses the member's db tag.
func (m Member) ColumnTag() ColumnTag {
	var ct ColumnTag
	v, ok := m.Tag.Lookup("db")
	if !ok || v == "-" {
		return ct
	}
	parts := strings.Split(v, ",")
	ct.Column = parts[0]
	for _, opt := range parts[1:] {
		key, val, _ := strings.Cut(opt, ":")
		switch key {
		case "primaryKey":
			ct.PrimaryKey = true
		case "unique":
			ct.Unique = true
		case "notNull":
			ct.NotNull = true
		case "size":
			if n, err := strconv.Atoi(val); err == nil {
				ct.Size = n
			}
		}
	}
	return ct
}

// Relation kinds accepted in `rel` tags.
const (
	RelBelongsTo  = "belongs_to"
	RelHasOne     = "has_one"
	RelHasMany    = "has_many"
	RelManyToMany = "many_to_many"
)

// RelTag holds the options parsed from a `rel:"kind,key:value,..."` tag.
type RelTag struct {
	Kind       string
	ForeignKey string
	JoinTable  string
	References string
}

// RelTag parses the member's rel tag.
func (m Member) RelTag() RelTag {
	var rt RelTag
	v, ok := m.Tag.Lookup("rel")
	if !ok {
		return rt
	}
	parts := strings.Split(v, ",")
	rt.Kind = parts[0]
	for _, opt := range parts[1:] {
		key, val, _ := strings.Cut(opt, ":")
		switch key {
		case "foreign_key":
			rt.ForeignKey = val
		case "join_table":
			rt.JoinTable = val
		case "references":
			rt.References = val
		}
	}
	return rt
}

// Entity is the explicit metadata of one struct type.
type Entity struct {
	Name    string   // Go type name, e.g. "User"
	Package string   // package name, e.g. "model"
	Table   string   // explicit table name from TableNamer; empty for convention
	Members []Member // fields in declaration order
}

// Member returns the member with the given name.
func (e Entity) Member(name string) (Member, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
