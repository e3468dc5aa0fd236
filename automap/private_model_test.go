package automap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/automap/automap"
)

func TestNewPrivateAutoPersistenceModel(t *testing.T) {
	t.Parallel()

	model := automap.NewPrivateAutoPersistenceModel()
	require.NotNil(t, model)
	require.NotNil(t, model.AutoMapper())
	assert.Len(t, model.AutoMapper().Mappers(), 7)

	// Accepts overrides straight away.
	model.Override("Customer", func(cm *automap.ClassMap) error { return cm.SetTable("clients") })
	maps, err := model.AddTypes(Customer{}, Order{}).Build()
	require.NoError(t, err)
	assert.Equal(t, "clients", maps[0].Table)
}

func TestPrivateModelMapsUnexportedFields(t *testing.T) {
	t.Parallel()

	model := automap.NewPrivateAutoPersistenceModel().AddTypes(Customer{}, Order{})
	_, err := model.Build()
	require.NoError(t, err)

	customer, ok := model.Find("Customer")
	require.True(t, ok)
	assert.Equal(t, "customers", customer.Table)
	require.NotNil(t, customer.ID)
	assert.Equal(t, automap.IDMap{Member: "id", Column: "id", Type: automap.DataBigInt, Generated: true, Access: automap.AccessField}, *customer.ID)
	assert.Equal(t, []string{
		"id", "name", "created_at",
		"address_street", "address_city", "address_geo_lat", "address_geo_lng",
	}, customer.Columns())
	for _, p := range customer.Properties {
		assert.Equal(t, automap.AccessField, p.Access, p.Member)
	}
	assert.False(t, customer.HasColumn("public"), "exported fields are left to the public model")

	require.Len(t, customer.HasMany, 1)
	assert.Equal(t, automap.HasManyMap{Member: "orders", Target: "Order", KeyColumn: "customer_id", Access: automap.AccessField}, customer.HasMany[0])

	order, ok := model.Find("Order")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "total", "customer_id"}, order.Columns())
	require.Len(t, order.References, 1)
	assert.Equal(t, "Customer", order.References[0].Target)
	assert.Equal(t, automap.AccessField, order.References[0].Access)
}

func TestPublicModelIgnoresUnexportedFields(t *testing.T) {
	t.Parallel()

	_, err := automap.NewAutoPersistenceModel().AddTypes(Customer{}).Build()
	require.ErrorIs(t, err, automap.ErrNoIdentity)
}

func TestPrivateModelSetup(t *testing.T) {
	t.Parallel()

	model := automap.NewPrivateAutoPersistenceModel().
		Setup(func(e *automap.Expressions) {
			defaults := automap.DefaultExpressions()
			e.FindMappablePrivateMembers = func(m automap.Member) bool {
				return defaults.FindMappablePrivateMembers(m) && m.Name != "createdAt"
			}
		}).
		AddTypes(Customer{}, Order{})
	_, err := model.Build()
	require.NoError(t, err)

	customer, ok := model.Find("Customer")
	require.True(t, ok)
	assert.False(t, customer.HasColumn("created_at"))
	assert.True(t, customer.HasColumn("name"))
}

func TestPrivateModelCustomIdentity(t *testing.T) {
	t.Parallel()

	model := automap.NewPrivateAutoPersistenceModel().
		Setup(func(e *automap.Expressions) {
			e.FindIdentity = func(m automap.Member) bool { return m.Name == "name" || m.GoType == "int64" }
		}).
		AddTypes(Customer{}, Order{})
	_, err := model.Build()
	require.NoError(t, err)

	customer, _ := model.Find("Customer")
	require.NotNil(t, customer.ID)
	assert.Equal(t, "name", customer.ID.Column)
	assert.False(t, customer.ID.Generated)
	assert.True(t, customer.HasColumn("id"))
}

func TestPrivateModelNilOptionsKeepDefaults(t *testing.T) {
	t.Parallel()

	var setupGot *automap.Expressions
	model := automap.NewPrivateAutoPersistenceModel(automap.WithExpressions(nil), automap.WithConventionFinder(nil)).
		Setup(func(e *automap.Expressions) { setupGot = e }).
		AddTypes(Customer{}, Order{})
	maps, err := model.Build()
	require.NoError(t, err)
	require.Len(t, maps, 2)
	require.NotNil(t, setupGot)

	customer, ok := model.Find("Customer")
	require.True(t, ok)
	assert.Equal(t, "customers", customer.Table)
	assert.Equal(t, "id", customer.ID.Column)
}

func TestPrivateAutoMapperWithoutExpressions(t *testing.T) {
	t.Parallel()

	a := automap.NewPrivateAutoMapper(nil, automap.NewDefaultConventionFinder(), nil)
	cm, err := a.MapEntity(mustReflect(t, Customer{}))
	require.NoError(t, err)
	assert.Empty(t, cm.Columns())
}
