package gen_test

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/automap/automap"
	"github.com/mickamy/automap/internal/gen"
)

func TestRender(t *testing.T) {
	t.Parallel()

	maps, err := automap.NewAutoPersistenceModel().Add(parse(t, "relations.go")...).Build()
	require.NoError(t, err)

	src, err := gen.Render(maps, gen.RenderOption{Package: "model", Source: "relations.go"})
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, "// Code generated by automap; DO NOT EDIT.\n// source: relations.go\n\npackage model\n")
	assert.Regexp(t, `AuthorTable\s+= "authors"`, out)
	assert.Regexp(t, `ArticleColumnAuthorID\s+= "author_id"`, out)
	assert.Regexp(t, `ArticleLabelsJoinTable\s+= "article_labels"`, out)
	assert.Contains(t, out, "var LabelColumns = []string{\n\tLabelColumnID,\n\tLabelColumnName,\n}")

	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	require.NoError(t, err, "generated source must parse")
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	_, err := gen.Render(nil, gen.RenderOption{Package: "model"})
	require.Error(t, err)

	cm := automap.NewClassMap("User", "users")
	_, err = gen.Render([]*automap.ClassMap{cm}, gen.RenderOption{})
	require.Error(t, err)
}
