package automap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/automap/automap"
)

func TestDefaultConventionFinderTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		finder *automap.DefaultConventionFinder
		entity automap.Entity
		want   string
	}{
		{"plural snake", automap.NewDefaultConventionFinder(), automap.Entity{Name: "BlogPost"}, "blog_posts"},
		{"irregular plural", automap.NewDefaultConventionFinder(), automap.Entity{Name: "Person"}, "people"},
		{"singular", &automap.DefaultConventionFinder{SingularTables: true}, automap.Entity{Name: "BlogPost"}, "blog_post"},
		{"prefix", &automap.DefaultConventionFinder{TablePrefix: "app_"}, automap.Entity{Name: "User"}, "app_users"},
		{"explicit table", &automap.DefaultConventionFinder{TablePrefix: "app_"}, automap.Entity{Name: "User", Table: "accounts"}, "accounts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.finder.TableName(tt.entity))
		})
	}
}

func TestDefaultConventionFinderColumns(t *testing.T) {
	t.Parallel()

	f := automap.NewDefaultConventionFinder()

	assert.Equal(t, "created_at", f.ColumnName(automap.Member{Name: "CreatedAt"}))
	assert.Equal(t, "created_at", f.ColumnName(automap.Member{Name: "createdAt"}))
	assert.Equal(t, "mail", f.ColumnName(automap.Member{Name: "Email", Tag: `db:"mail"`}))

	assert.Equal(t, "author_id", f.ForeignKey(automap.Member{Name: "Author"}))
	assert.Equal(t, "writer_id", f.ForeignKey(automap.Member{Name: "Author", Tag: `rel:"belongs_to,foreign_key:writer_id"`}))
	assert.Equal(t, "owner", f.ForeignKey(automap.Member{Name: "Author", Tag: `db:"owner"`}))

	assert.Equal(t, "blog_post_id", f.KeyColumn("BlogPost", automap.Member{Name: "Comments"}))
	assert.Equal(t, "post_id", f.KeyColumn("BlogPost", automap.Member{Name: "Comments", Tag: `rel:"has_many,foreign_key:post_id"`}))

	assert.Equal(t, "tag_users", f.JoinTable("User", automap.Member{Name: "Tags", Target: "Tag"}))
	assert.Equal(t, "tag_users", f.JoinTable("Tag", automap.Member{Name: "Users", Target: "User"}))
	assert.Equal(t, "taggings", f.JoinTable("User", automap.Member{Name: "Tags", Target: "Tag", Tag: `rel:"many_to_many,join_table:taggings"`}))

	assert.Equal(t, "address_city", f.ComponentColumn("address", "city"))
	assert.Equal(t, "city", f.ComponentColumn("", "city"))
}

func TestSnakeCaseJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a_b", automap.SnakeCase.Join([]string{"a", "", "b"}))
	assert.Equal(t, "user_profile", automap.SnakeCase.Convert("UserProfile"))
}

func TestStringLength(t *testing.T) {
	t.Parallel()

	cm := newUsersMap(t)
	require.NoError(t, cm.UpdateProperties(func(p *automap.PropertyMap) {
		if p.Column == "name" {
			p.Size = 50
		}
	}))

	require.NoError(t, automap.StringLength(255).Apply(cm))
	assert.Equal(t, 50, cm.Properties[0].Size)
	assert.Equal(t, 255, cm.Components[0].Properties[0].Size)
}

func TestUniqueColumns(t *testing.T) {
	t.Parallel()

	cm := newUsersMap(t)
	require.NoError(t, automap.UniqueColumns("NAME").Apply(cm))
	assert.True(t, cm.Properties[0].Unique)
	assert.False(t, cm.Components[0].Properties[0].Unique)
}
