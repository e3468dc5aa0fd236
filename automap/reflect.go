package automap

import (
	"database/sql"
	"database/sql/driver"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var entityCache sync.Map // map[reflect.Type]Entity

var (
	timeType    = reflect.TypeOf(time.Time{})
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	valuerType  = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	namerType   = reflect.TypeOf((*TableNamer)(nil)).Elem()
)

// Reflect describes the struct type of v. v may be a struct value or a pointer to one.
func Reflect(v any) (Entity, error) {
	if v == nil {
		return Entity{}, errors.Wrap(ErrNotStruct, "nil value")
	}
	return EntityOf(reflect.TypeOf(v))
}

// EntityOf describes t. The result is computed once per type and cached.
func EntityOf(t reflect.Type) (Entity, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Entity{}, errors.Wrapf(ErrNotStruct, "%s", t)
	}

	if e, ok := entityCache.Load(t); ok {
		return e.(Entity), nil //nolint:forcetypeassert // only Entity values are stored
	}

	e := Entity{
		Name:    t.Name(),
		Package: packageName(t),
		Members: describeFields(t, map[reflect.Type]bool{t: true}),
	}
	if reflect.PointerTo(t).Implements(namerType) {
		e.Table = reflect.New(t).Interface().(TableNamer).TableName() //nolint:forcetypeassert // checked above
	}

	entityCache.Store(t, e)
	return e, nil
}

func packageName(t reflect.Type) string {
	p := t.PkgPath()
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// describeFields lists the fields of struct type t. seen guards against
// components that contain themselves.
func describeFields(t reflect.Type, seen map[reflect.Type]bool) []Member {
	members := make([]Member, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		members = append(members, describeField(f, seen))
	}
	return members
}

func describeField(f reflect.StructField, seen map[reflect.Type]bool) Member {
	t := f.Type
	m := Member{
		Name:     f.Name,
		GoType:   t.String(),
		Exported: f.IsExported(),
		Embedded: f.Anonymous,
		Tag:      f.Tag,
		Index:    f.Index,
	}

	switch {
	case t.Kind() == reflect.Pointer && isScalarType(t.Elem()):
		m.Kind = KindScalar
		m.Type = dataTypeOf(t.Elem())
		m.Nullable = true
	case isScalarType(t):
		m.Kind = KindScalar
		m.Type = dataTypeOf(t)
		m.Nullable = isNullType(t)
	case f.Anonymous && structElem(t) != nil && t.Kind() == reflect.Pointer && m.RelTag().Kind == "":
		// Go promotes fields through an embedded *Base as well.
		describeComponent(&m, t.Elem(), seen)
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		m.Kind = KindReference
		m.Target = t.Elem().Name()
	case t.Kind() == reflect.Slice && structElem(t.Elem()) != nil:
		m.Kind = KindCollection
		m.Target = structElem(t.Elem()).Name()
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		// Slices of scalars are left to the driver.
		m.Kind = KindScalar
		m.Type = DataUnknown
	case t.Kind() == reflect.Struct:
		describeComponent(&m, t, seen)
	default:
		m.Kind = KindUnsupported
	}
	return m
}

func describeComponent(m *Member, t reflect.Type, seen map[reflect.Type]bool) {
	m.Kind = KindComponent
	m.Target = t.Name()
	if !seen[t] {
		seen[t] = true
		m.Members = describeFields(t, seen)
		delete(seen, t)
	}
}

func structElem(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || isScalarType(t) {
		return nil
	}
	return t
}

func isScalarType(t reflect.Type) bool {
	if t == timeType || t.Implements(valuerType) || reflect.PointerTo(t).Implements(scannerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}

func isNullType(t reflect.Type) bool {
	return t.PkgPath() == "database/sql" && strings.HasPrefix(t.Name(), "Null")
}

var nullDataTypes = map[string]DataType{
	"NullBool":    DataBool,
	"NullByte":    DataInt,
	"NullInt16":   DataInt,
	"NullInt32":   DataInt,
	"NullInt64":   DataBigInt,
	"NullFloat64": DataFloat,
	"NullString":  DataString,
	"NullTime":    DataTime,
}

func dataTypeOf(t reflect.Type) DataType {
	if t == timeType {
		return DataTime
	}
	if isNullType(t) {
		return nullDataTypes[t.Name()]
	}
	if t.Implements(valuerType) || reflect.PointerTo(t).Implements(scannerType) {
		return DataUnknown
	}
	switch t.Kind() {
	case reflect.Bool:
		return DataBool
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return DataInt
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return DataBigInt
	case reflect.Float32, reflect.Float64:
		return DataFloat
	case reflect.String:
		return DataString
	case reflect.Slice, reflect.Array:
		return DataBytes
	default:
		return DataUnknown
	}
}
