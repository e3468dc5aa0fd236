package gen

import (
	"bytes"
	"go/format"
	"text/template"

	"github.com/pkg/errors"

	"github.com/mickamy/automap/automap"
	"github.com/mickamy/automap/internal/naming"
)

// RenderOption controls the output of Render.
type RenderOption struct {
	Package string // output package name (required)
	Source  string // file the maps were built from, noted in the header
}

type templateData struct {
	Entity  string
	Table   string
	Columns []columnData
	Joins   []columnData
}

type columnData struct {
	Const string
	Name  string
}

type fileTemplateData struct {
	Package string
	Source  string
	Structs []templateData
}

// Render generates a Go source file declaring table and column name
// constants for maps. The returned bytes are formatted by gofmt.
func Render(maps []*automap.ClassMap, opt RenderOption) ([]byte, error) {
	if len(maps) == 0 {
		return nil, errors.New("no class maps to render")
	}
	if opt.Package == "" {
		return nil, errors.New("no package name")
	}

	structs := make([]templateData, 0, len(maps))
	for _, cm := range maps {
		data := templateData{Entity: cm.Entity, Table: cm.Table}
		for _, col := range cm.Columns() {
			data.Columns = append(data.Columns, columnData{
				Const: cm.Entity + "Column" + naming.SnakeToCamel(col),
				Name:  col,
			})
		}
		for _, mm := range cm.ManyToMany {
			data.Joins = append(data.Joins, columnData{
				Const: cm.Entity + naming.SnakeToCamel(naming.CamelToSnake(mm.Member)) + "JoinTable",
				Name:  mm.JoinTable,
			})
		}
		structs = append(structs, data)
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, fileTemplateData{Package: opt.Package, Source: opt.Source, Structs: structs}); err != nil {
		return nil, errors.Wrap(err, "execute template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "gofmt")
	}
	return src, nil
}

var fileTmpl = template.Must(template.New("gen").Parse(fileTemplate))

const fileTemplate = `// Code generated by automap; DO NOT EDIT.
{{- if .Source}}
// source: {{.Source}}
{{- end}}

package {{.Package}}
{{range .Structs}}
// {{.Entity}} is stored in {{printf "%q" .Table}}.
const (
	{{.Entity}}Table = {{printf "%q" .Table}}
	{{- range .Columns}}
	{{.Const}} = {{printf "%q" .Name}}
	{{- end}}
	{{- range .Joins}}
	{{.Const}} = {{printf "%q" .Name}}
	{{- end}}
)

// {{.Entity}}Columns lists the columns of {{.Entity}}Table in mapping order.
var {{.Entity}}Columns = []string{
	{{- range .Columns}}
	{{.Const}},
	{{- end}}
}
{{end}}`
