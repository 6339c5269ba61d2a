package typemap

import (
	"errors"
	"testing"

	"github.com/erraggy/smithygen/internal/testutil"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, models ...string) *parser.Model {
	t.Helper()
	var merged *parser.Model
	for _, src := range models {
		res, err := parser.New().ParseBytes([]byte(src))
		require.NoError(t, err)
		if merged == nil {
			merged = res.Model
			continue
		}
		merged, err = merged.Merge(res.Model)
		require.NoError(t, err)
	}
	return merged
}

func TestPrimitiveTable(t *testing.T) {
	m := New(load(t, testutil.WeatherModel), "example.weather", nil)

	tests := map[parser.ShapeID]string{
		"smithy.api#String":           "string",
		"smithy.api#Integer":          "int",
		"smithy.api#PrimitiveInteger": "int",
		"smithy.api#Long":             "int64",
		"smithy.api#Float":            "float32",
		"smithy.api#Double":           "float64",
		"smithy.api#Boolean":          "bool",
		"smithy.api#Timestamp":        "time.Time",
		"smithy.api#Document":         "string",
		"smithy.api#Blob":             "[]byte",
	}
	for id, want := range tests {
		t.Run(id.Name(), func(t *testing.T) {
			got, err := m.TypeName(id)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
	assert.Equal(t, []Import{{Name: "time", Path: "time"}}, m.Imports())
}

func TestTypeMappingNotFound(t *testing.T) {
	m := New(load(t, testutil.WeatherModel), "example.weather", nil)

	for _, id := range []parser.ShapeID{"smithy.api#BigDecimal", "smithy.api#BigInteger", "smithy.api#Mystery"} {
		_, err := m.TypeName(id)
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, shapeerrors.ErrTypeMappingNotFound))
	}

	model := load(t, `{"smithy": "2.0", "shapes": {"ns#Big": {"type": "bigDecimal"}}}`)
	_, err := New(model, "ns", nil).Classify("ns#Big")
	assert.True(t, errors.Is(err, shapeerrors.ErrTypeMappingNotFound))
}

func TestClassifyPrecedence(t *testing.T) {
	m := New(load(t, testutil.CatalogModel), "example.catalog", nil)

	tests := []struct {
		target parser.ShapeID
		cat    Category
		goType string
	}{
		{"smithy.api#String", Primitive, "string"},
		{"example.catalog#ProductName", Simple, "ProductName"},
		{"example.catalog#Product", Structure, "Product"},
		{"example.catalog#ProductList", List, "ProductList"},
		{"example.catalog#Category", Enum, "Category"},
		{"example.catalog#Attributes", Map, "Attributes"},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			ref, err := m.Classify(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.cat, ref.Category)
			assert.Equal(t, tt.goType, m.RefType(ref))
		})
	}

	simple, err := m.Classify("example.catalog#Price")
	require.NoError(t, err)
	assert.Equal(t, parser.SimpleDouble, simple.Primitive)
}

func TestClassifyUnresolved(t *testing.T) {
	m := New(load(t, testutil.CatalogModel), "example.catalog", nil)

	_, err := m.Classify("example.catalog#Nope")
	assert.True(t, errors.Is(err, shapeerrors.ErrUnresolvedReference))

	_, err = m.Classify("example.catalog#GetProduct")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeerrors.ErrUnresolvedReference))
	assert.Contains(t, err.Error(), "operation is not a data shape")
}

func TestClassifyMemberNamesMember(t *testing.T) {
	model := load(t, testutil.DanglingModel)
	m := New(model, "example.broken", nil)
	input, err := parser.ResolveAs[*parser.Structure](model, "example.broken#Input")
	require.NoError(t, err)
	missing, _ := input.Member("missing")

	_, err = m.ClassifyMember(missing)
	var refErr *shapeerrors.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "example.broken#Input$missing", refErr.From)
}

func TestFieldType(t *testing.T) {
	model := load(t, testutil.CatalogModel)
	m := New(model, "example.catalog", nil)
	product, err := parser.ResolveAs[*parser.Structure](model, "example.catalog#Product")
	require.NoError(t, err)

	want := map[string]string{
		"id":         "*string",
		"name":       "*ProductName",
		"price":      "*Price",
		"category":   "*Category",
		"priority":   "*Priority",
		"tags":       "TagList",
		"attributes": "Attributes",
		"created":    "*time.Time",
		"dimensions": "*Dimensions",
		"related":    "ProductList",
	}
	for _, mem := range product.Members {
		got, _, err := m.FieldType(mem)
		require.NoError(t, err)
		assert.Equal(t, want[mem.Name], got, mem.Name)
	}
}

func TestQualifyForeignNamespace(t *testing.T) {
	model := load(t, testutil.OrdersModel, testutil.CatalogModel)
	packages := func(ns string) (string, string) {
		return "catalog", "example.com/gen/catalog"
	}
	m := New(model, "example.orders", packages)

	got, err := m.TypeName("example.catalog#Product")
	require.NoError(t, err)
	assert.Equal(t, "catalog.Product", got)

	got, err = m.TypeName("example.orders#PlaceOrderInput")
	require.NoError(t, err)
	assert.Equal(t, "PlaceOrderInput", got)

	assert.Equal(t, []Import{{Name: "catalog", Path: "example.com/gen/catalog"}}, m.Imports())
	m.Reset()
	assert.Empty(t, m.Imports())
}

func TestRefNilable(t *testing.T) {
	assert.True(t, Ref{Category: List}.Nilable())
	assert.True(t, Ref{Category: Map}.Nilable())
	assert.True(t, Ref{Category: Primitive, Primitive: parser.SimpleBlob}.Nilable())
	assert.False(t, Ref{Category: Primitive, Primitive: parser.SimpleString}.Nilable())
	assert.False(t, Ref{Category: Structure}.Nilable())
	assert.False(t, Ref{Category: Enum}.Nilable())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "simple type", Simple.String())
	assert.Equal(t, "unknown", Category(42).String())
}

func TestEnumConstAndQualifyIdent(t *testing.T) {
	assert.Equal(t, "CategoryBooks", EnumConstName("example.catalog#Category", "BOOKS"))
	assert.Equal(t, "CategoryInStock", EnumConstName("example.catalog#Category", "in_stock"))

	model := load(t, testutil.OrdersModel, testutil.CatalogModel)
	m := New(model, "example.orders", nil)
	assert.Equal(t, "catalog.CategoryBooks", m.QualifyIdent("example.catalog#Category", "CategoryBooks"))
	assert.Equal(t, "Local", m.QualifyIdent("example.orders#X", "Local"))

	m.UseImport("net/http")
	assert.Contains(t, m.Imports(), Import{Name: "http", Path: "net/http"})
	assert.Contains(t, m.Imports(), Import{Name: "catalog", Path: "catalog"})
}

func TestIOType(t *testing.T) {
	model := load(t, testutil.OrdersModel, testutil.CatalogModel)
	m := New(model, "example.orders", nil)

	got, err := m.IOType("")
	require.NoError(t, err)
	assert.Equal(t, UnitType, got)

	got, err = m.IOType(parser.UnitID)
	require.NoError(t, err)
	assert.Equal(t, UnitType, got)

	got, err = m.IOType("example.catalog#GetProductInput")
	require.NoError(t, err)
	assert.Equal(t, "catalog.GetProductInput", got)

	_, err = m.IOType("example.catalog#TagList")
	assert.ErrorIs(t, err, shapeerrors.ErrUnresolvedReference)
}
