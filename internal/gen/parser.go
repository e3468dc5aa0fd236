package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mickamy/automap/automap"
)

var basicTypes = map[string]automap.DataType{
	"bool":    automap.DataBool,
	"string":  automap.DataString,
	"int8":    automap.DataInt,
	"int16":   automap.DataInt,
	"int32":   automap.DataInt,
	"uint8":   automap.DataInt,
	"uint16":  automap.DataInt,
	"uint32":  automap.DataInt,
	"byte":    automap.DataInt,
	"rune":    automap.DataInt,
	"int":     automap.DataBigInt,
	"int64":   automap.DataBigInt,
	"uint":    automap.DataBigInt,
	"uint64":  automap.DataBigInt,
	"float32": automap.DataFloat,
	"float64": automap.DataFloat,
}

// Scalar types from other packages that the parser knows by name.
var knownScalars = map[string]automap.DataType{
	"time.Time":       automap.DataTime,
	"sql.NullBool":    automap.DataBool,
	"sql.NullByte":    automap.DataInt,
	"sql.NullInt16":   automap.DataInt,
	"sql.NullInt32":   automap.DataInt,
	"sql.NullInt64":   automap.DataBigInt,
	"sql.NullFloat64": automap.DataFloat,
	"sql.NullString":  automap.DataString,
	"sql.NullTime":    automap.DataTime,
	"json.RawMessage": automap.DataBytes,
}

// Parse reads the Go file at filePath and describes every struct type it
// declares. Types declared in the same file are resolved: structs become
// components or associations, other named types take their underlying
// type. Types from elsewhere are treated as scalars unless the member has a
// rel tag, in which case pointers and slices of them are associations.
func Parse(filePath string) ([]automap.Entity, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parse file")
	}

	p := &fileParser{
		pkg:    file.Name.Name,
		decls:  make(map[string]ast.Expr),
		tables: tableNames(file),
	}

	var order []string
	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.TypeParams != nil {
				continue
			}
			p.decls[ts.Name.Name] = ts.Type
			if _, ok := ts.Type.(*ast.StructType); ok {
				order = append(order, ts.Name.Name)
			}
		}
	}

	entities := make([]automap.Entity, 0, len(order))
	for _, name := range order {
		st := p.decls[name].(*ast.StructType) //nolint:forcetypeassert // collected as structs above
		entities = append(entities, automap.Entity{
			Name:    name,
			Package: p.pkg,
			Table:   p.tables[name],
			Members: p.members(st, map[string]bool{name: true}),
		})
	}
	return entities, nil
}

type fileParser struct {
	pkg    string
	decls  map[string]ast.Expr
	tables map[string]string
}

func (p *fileParser) members(st *ast.StructType, seen map[string]bool) []automap.Member {
	var members []automap.Member
	index := 0
	for _, field := range st.Fields.List {
		var tag reflect.StructTag
		if field.Tag != nil {
			if v, err := strconv.Unquote(field.Tag.Value); err == nil {
				tag = reflect.StructTag(v)
			}
		}

		names := make([]string, 0, len(field.Names))
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
		embedded := len(names) == 0
		if embedded {
			names = append(names, embeddedName(field.Type))
		}

		for _, name := range names {
			if name != "_" {
				m := automap.Member{
					Name:     name,
					GoType:   typeToString(field.Type),
					Exported: ast.IsExported(name),
					Embedded: embedded,
					Tag:      tag,
					Index:    []int{index},
				}
				p.classify(&m, field.Type, seen)
				members = append(members, m)
			}
			index++
		}
	}
	return members
}

// classify fills Kind, Type, Target, Nullable and Members of m from expr.
func (p *fileParser) classify(m *automap.Member, expr ast.Expr, seen map[string]bool) {
	related := m.RelTag().Kind != ""

	switch t := expr.(type) {
	case *ast.StarExpr:
		if dt, ok := p.scalar(t.X); ok {
			m.Kind, m.Type, m.Nullable = automap.KindScalar, dt, true
			return
		}
		// Fields of an embedded *Base are promoted like those of Base.
		if id, ok := t.X.(*ast.Ident); ok && m.Embedded && !related {
			if _, ok := p.decls[id.Name].(*ast.StructType); ok {
				p.classify(m, id, seen)
				return
			}
		}
		if target, ok := p.structName(t.X, related); ok {
			m.Kind, m.Target = automap.KindReference, target
			return
		}
		m.Kind, m.Type, m.Nullable = automap.KindScalar, automap.DataUnknown, true
	case *ast.ArrayType:
		if isByte(t.Elt) {
			m.Kind, m.Type = automap.KindScalar, automap.DataBytes
			return
		}
		elt := t.Elt
		if star, ok := elt.(*ast.StarExpr); ok {
			elt = star.X
		}
		if target, ok := p.structName(elt, related); ok && t.Len == nil {
			m.Kind, m.Target = automap.KindCollection, target
			return
		}
		m.Kind, m.Type = automap.KindScalar, automap.DataUnknown
	case *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		m.Kind = automap.KindUnsupported
	default:
		if dt, ok := p.scalar(expr); ok {
			m.Kind, m.Type = automap.KindScalar, dt
			m.Nullable = strings.HasPrefix(typeToString(expr), "sql.Null")
			return
		}
		if id, ok := expr.(*ast.Ident); ok {
			if id.Name == "any" || id.Name == "error" {
				m.Kind = automap.KindUnsupported
				return
			}
			if st, ok := p.decls[id.Name].(*ast.StructType); ok {
				m.Kind, m.Target = automap.KindComponent, id.Name
				if !seen[id.Name] {
					seen[id.Name] = true
					m.Members = p.members(st, seen)
					delete(seen, id.Name)
				}
				return
			}
			if underlying, ok := p.decls[id.Name]; ok {
				p.classify(m, underlying, seen)
				return
			}
		}
		if target, ok := p.structName(expr, related); ok {
			m.Kind, m.Target = automap.KindComponent, target
			return
		}
		m.Kind, m.Type = automap.KindScalar, automap.DataUnknown
	}
}

// scalar reports the data type of expr if it is a known scalar.
func (p *fileParser) scalar(expr ast.Expr) (automap.DataType, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		if dt, ok := basicTypes[t.Name]; ok {
			return dt, true
		}
		if underlying, ok := p.decls[t.Name]; ok {
			if _, isStruct := underlying.(*ast.StructType); !isStruct {
				return p.scalar(underlying)
			}
		}
	case *ast.SelectorExpr:
		if dt, ok := knownScalars[typeToString(t)]; ok {
			return dt, true
		}
	case *ast.ArrayType:
		if isByte(t.Elt) {
			return automap.DataBytes, true
		}
	}
	return automap.DataUnknown, false
}

// structName returns the name of the struct expr refers to. Structs
// declared in the file always qualify; types from elsewhere only when the
// member declares a relation.
func (p *fileParser) structName(expr ast.Expr, related bool) (string, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		if _, ok := p.decls[t.Name].(*ast.StructType); ok {
			return t.Name, true
		}
		if _, local := p.decls[t.Name]; !local && related && basicTypes[t.Name] == automap.DataUnknown {
			return t.Name, true
		}
	case *ast.SelectorExpr:
		if _, ok := knownScalars[typeToString(t)]; !ok && related {
			return t.Sel.Name, true
		}
	}
	return "", false
}

func isByte(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && (id.Name == "byte" || id.Name == "uint8")
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	default:
		return typeToString(expr)
	}
}

// tableNames collects `func (T) TableName() string { return "name" }`
// methods that return a string literal.
func tableNames(file *ast.File) map[string]string {
	tables := make(map[string]string)
	for _, d := range file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Name.Name != "TableName" || fd.Body == nil || len(fd.Body.List) != 1 {
			continue
		}
		ret, ok := fd.Body.List[0].(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			continue
		}
		lit, ok := ret.Results[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			continue
		}
		name, err := strconv.Unquote(lit.Value)
		if err != nil {
			continue
		}
		tables[embeddedName(fd.Recv.List[0].Type)] = name
	}
	return tables
}

// Roots drops structs that are only used as components of other structs,
// leaving the types that map to their own table.
func Roots(entities []automap.Entity) []automap.Entity {
	components := make(map[string]bool)
	var collect func(members []automap.Member)
	collect = func(members []automap.Member) {
		for _, m := range members {
			if m.Kind == automap.KindComponent && m.RelTag().Kind == "" {
				components[m.Target] = true
				collect(m.Members)
			}
		}
	}
	for _, e := range entities {
		collect(e.Members)
	}

	roots := make([]automap.Entity, 0, len(entities))
	for _, e := range entities {
		if !components[e.Name] {
			roots = append(roots, e)
		}
	}
	return roots
}

func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", typeToString(t.Len), typeToString(t.Elt))
	case *ast.BasicLit:
		return t.Value
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
