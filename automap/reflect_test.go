package automap_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/automap/automap"
)

func TestReflect(t *testing.T) {
	t.Parallel()

	e, err := automap.Reflect(Author{})
	require.NoError(t, err)

	assert.Equal(t, "Author", e.Name)
	assert.Equal(t, "automap_test", e.Package)
	assert.Empty(t, e.Table)

	tests := []struct {
		member   string
		kind     automap.Kind
		typ      automap.DataType
		target   string
		exported bool
		nullable bool
	}{
		{"ID", automap.KindScalar, automap.DataBigInt, "", true, false},
		{"Name", automap.KindScalar, automap.DataString, "", true, false},
		{"Bio", automap.KindScalar, automap.DataString, "", true, true},
		{"Books", automap.KindCollection, automap.DataUnknown, "Book", true, false},
		{"Meta", automap.KindUnsupported, automap.DataUnknown, "", true, false},
		{"notes", automap.KindScalar, automap.DataString, "", false, false},
		{"Created", automap.KindScalar, automap.DataTime, "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			t.Parallel()

			m, ok := e.Member(tt.member)
			require.True(t, ok)
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.typ, m.Type)
			assert.Equal(t, tt.target, m.Target)
			assert.Equal(t, tt.exported, m.Exported)
			assert.Equal(t, tt.nullable, m.Nullable)
		})
	}
}

func TestReflectBook(t *testing.T) {
	t.Parallel()

	e, err := automap.Reflect(&Book{})
	require.NoError(t, err)

	author, _ := e.Member("Author")
	assert.Equal(t, automap.KindReference, author.Kind)
	assert.Equal(t, "Author", author.Target)

	subtitle, _ := e.Member("Subtitle")
	assert.Equal(t, automap.KindScalar, subtitle.Kind)
	assert.Equal(t, automap.DataString, subtitle.Type)
	assert.True(t, subtitle.Nullable)

	published, _ := e.Member("Published")
	assert.Equal(t, automap.DataTime, published.Type)
	assert.True(t, published.Nullable)

	tags, _ := e.Member("Tags")
	assert.Equal(t, automap.KindCollection, tags.Kind)
	assert.Equal(t, automap.RelManyToMany, tags.RelTag().Kind)
}

func TestReflectComponentsAndEmbedding(t *testing.T) {
	t.Parallel()

	e, err := automap.Reflect(Publisher{})
	require.NoError(t, err)

	ts, _ := e.Member("Timestamps")
	assert.True(t, ts.Embedded)
	assert.Equal(t, automap.KindComponent, ts.Kind)
	require.Len(t, ts.Members, 2)

	addr, _ := e.Member("Address")
	assert.Equal(t, automap.KindComponent, addr.Kind)
	require.Len(t, addr.Members, 3)
	assert.Equal(t, automap.KindComponent, addr.Members[2].Kind)
}

func TestReflectEmbeddedPointer(t *testing.T) {
	t.Parallel()

	e, err := automap.Reflect(Account{})
	require.NoError(t, err)

	base, ok := e.Member("Base")
	require.True(t, ok)
	assert.True(t, base.Embedded)
	assert.Equal(t, automap.KindComponent, base.Kind)
	assert.Equal(t, "Base", base.Target)
	require.Len(t, base.Members, 2)
}

func TestReflectTableNamer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"no TableNamer", Tag{}, ""},
		{"value receiver", legacyUser{}, "tbl_users"},
		{"pointer receiver", ptrNamer{}, "custom_ptrs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := automap.Reflect(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Table)
		})
	}
}

func TestReflectCached(t *testing.T) {
	t.Parallel()

	a, err := automap.EntityOf(reflect.TypeOf(Tag{}))
	require.NoError(t, err)
	b, err := automap.EntityOf(reflect.TypeOf(&Tag{}))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReflectNotStruct(t *testing.T) {
	t.Parallel()

	_, err := automap.Reflect(42)
	require.ErrorIs(t, err, automap.ErrNotStruct)

	_, err = automap.Reflect(nil)
	require.ErrorIs(t, err, automap.ErrNotStruct)
}

func TestMemberTags(t *testing.T) {
	t.Parallel()

	m := automap.Member{Tag: `db:"email,unique,notNull,size:64,primaryKey" rel:"belongs_to,foreign_key:owner_id"`}
	ct := m.ColumnTag()
	assert.Equal(t, automap.ColumnTag{Column: "email", PrimaryKey: true, Unique: true, NotNull: true, Size: 64}, ct)

	rt := m.RelTag()
	assert.Equal(t, automap.RelBelongsTo, rt.Kind)
	assert.Equal(t, "owner_id", rt.ForeignKey)

	assert.True(t, automap.Member{Tag: `db:"-"`}.Ignored())
	assert.False(t, automap.Member{Tag: `db:""`}.Ignored())
}
