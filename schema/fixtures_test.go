package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mickamy/automap/automap"
)

type Author struct {
	ID      int64
	Name    string   `db:",size:100"`
	Profile *Profile `rel:"has_one"`
	Books   []Book
}

type Profile struct {
	ID  int64
	Bio *string
}

type Book struct {
	ID     int64
	Title  string
	Author *Author
	Tags   []*Tag `rel:"many_to_many,join_table:book_tags"`
}

type Tag struct {
	ID    int
	Name  string `db:",unique"`
	Books []Book `rel:"many_to_many,join_table:book_tags,foreign_key:tag_id,references:book_id"`
}

type Student struct {
	ID      int64
	Courses []Course `rel:"many_to_many"`
}

type Course struct {
	ID       int64
	Students []Student `rel:"many_to_many"`
}

type Person struct {
	ID      int64
	Friends []Person `rel:"many_to_many"`
}

func buildMaps(t *testing.T) []*automap.ClassMap {
	t.Helper()

	maps, err := automap.NewAutoPersistenceModel().
		AddTypes(Author{}, Profile{}, Book{}, Tag{}).
		Build()
	require.NoError(t, err)
	return maps
}

func classMap(t *testing.T, entity, table string, refs ...automap.ReferenceMap) *automap.ClassMap {
	t.Helper()

	cm := automap.NewClassMap(entity, table)
	require.NoError(t, cm.SetID(automap.IDMap{Member: "ID", Column: "id", Type: automap.DataBigInt, Generated: true}))
	for _, r := range refs {
		require.NoError(t, cm.AddReference(r))
	}
	return cm
}
