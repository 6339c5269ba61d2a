package mockdata

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/erraggy/smithygen/internal/testutil"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/erraggy/smithygen/typemap"
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

func TestWeatherOutputHasTemperature(t *testing.T) {
	g := New(load(t, testutil.WeatherModel))

	out, err := g.Structure("example.weather#GetForecastOutput")
	require.NoError(t, err)
	temp, ok := out.Field("tempF")
	require.True(t, ok, "tempF must be synthesized")
	assert.Equal(t, KindInt, temp.Kind)
	assert.Positive(t, temp.Int)

	in, err := g.Structure("example.weather#GetForecastInput")
	require.NoError(t, err)
	city, ok := in.Field("city")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(city.Str, "city-"), "placeholder contains the field name: %s", city.Str)
}

func TestSelfReferenceTerminates(t *testing.T) {
	g := New(load(t, testutil.CyclesModel))

	t.Run("node with next node", func(t *testing.T) {
		node, err := g.Structure("example.cycles#Node")
		require.NoError(t, err)
		_, ok := node.Field("next")
		assert.False(t, ok, "direct self-reference is omitted")
		_, ok = node.Field("value")
		assert.True(t, ok)
	})

	t.Run("tree with list of trees", func(t *testing.T) {
		tree, err := g.Structure("example.cycles#Tree")
		require.NoError(t, err)
		_, ok := tree.Field("children")
		assert.False(t, ok, "list of the enclosing structure is skipped")
		_, ok = tree.Field("name")
		assert.True(t, ok)
	})

	t.Run("mutual recursion", func(t *testing.T) {
		left, err := g.Structure("example.cycles#Left")
		require.NoError(t, err)
		right, ok := left.Field("right")
		require.True(t, ok)
		_, ok = right.Field("left")
		assert.False(t, ok, "structures on the path are not entered again")
		_, ok = right.Field("label")
		assert.True(t, ok)
	})

	t.Run("list synthesized from outside the cycle", func(t *testing.T) {
		list, err := g.Synthesize("example.cycles#TreeList")
		require.NoError(t, err)
		require.Equal(t, KindList, list.Kind)
		require.Len(t, list.Items, DefaultListSize)
		for _, item := range list.Items {
			_, ok := item.Field("children")
			assert.False(t, ok)
		}
	})
}

func TestCatalogProduct(t *testing.T) {
	g := New(load(t, testutil.CatalogModel), WithListSize(3))

	product, err := g.Structure("example.catalog#Product")
	require.NoError(t, err)

	tags, ok := product.Field("tags")
	require.True(t, ok)
	assert.Len(t, tags.Items, 3)
	for _, tag := range tags.Items {
		assert.True(t, strings.HasPrefix(tag.Str, "tags-"))
	}

	_, ok = product.Field("related")
	assert.False(t, ok, "list of Product inside Product is skipped")

	category, ok := product.Field("category")
	require.True(t, ok)
	assert.Equal(t, KindEnum, category.Kind)
	assert.Contains(t, []string{"books", "music", "GAMES"}, category.Str)

	priority, ok := product.Field("priority")
	require.True(t, ok)
	assert.Contains(t, []int64{1, 10}, priority.Int)

	attrs, ok := product.Field("attributes")
	require.True(t, ok)
	require.Len(t, attrs.Entries, 1)
	assert.Equal(t, KindString, attrs.Entries[0].Key.Kind)

	created, ok := product.Field("created")
	require.True(t, ok)
	assert.Equal(t, KindTimestamp, created.Kind)

	name, ok := product.Field("name")
	require.True(t, ok)
	assert.Equal(t, parser.ShapeID("example.catalog#ProductName"), name.Shape)

	dims, ok := product.Field("dimensions")
	require.True(t, ok)
	width, ok := dims.Field("width")
	require.True(t, ok)
	assert.Equal(t, KindFloat, width.Kind)
}

func TestDeterminism(t *testing.T) {
	model := load(t, testutil.CatalogModel)

	render := func(g *Generator) string {
		v, err := g.Structure("example.catalog#Product")
		require.NoError(t, err)
		expr, err := GoExpr(typemap.New(model, "example.catalog", nil), v)
		require.NoError(t, err)
		return expr
	}

	first := render(New(model, WithSeed(7)))
	assert.Equal(t, first, render(New(model, WithSeed(7))), "same seed, same output")

	// Synthesizing other shapes first must not change the result.
	g := New(model, WithSeed(7))
	_, err := g.Structure("example.catalog#Dimensions")
	require.NoError(t, err)
	assert.Equal(t, first, render(g))
}

func TestSynthesizeErrors(t *testing.T) {
	g := New(load(t, testutil.DanglingModel))
	_, err := g.Structure("example.broken#Input")
	assert.True(t, errors.Is(err, shapeerrors.ErrUnresolvedReference))

	_, err = g.Structure("example.broken#Nope")
	assert.True(t, errors.Is(err, shapeerrors.ErrUnresolvedReference))

	v, err := g.Synthesize("smithy.api#Boolean")
	require.NoError(t, err)
	assert.Equal(t, KindBool, v.Kind)
}

func TestMarshalJSON(t *testing.T) {
	g := New(load(t, testutil.CatalogModel))
	out, err := g.Structure("example.catalog#GetProductOutput")
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	product, ok := decoded["product"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, product["id"])
	assert.NotEmpty(t, product["created"])
	assert.IsType(t, []any{}, product["tags"])
	assert.IsType(t, float64(0), product["priority"], "intEnum renders as a number")
	assert.NotContains(t, product, "related")

	// Field order follows the structure.
	assert.Less(t, strings.Index(string(data), `"id"`), strings.Index(string(data), `"name"`))
}

func TestGoExpr(t *testing.T) {
	model := load(t, testutil.WeatherModel)
	v, err := New(model).Structure("example.weather#GetForecastOutput")
	require.NoError(t, err)

	m := typemap.New(model, "example.weather", nil)
	expr, err := GoExpr(m, v)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(expr, "GetForecastOutput{\nTempF: mockPtr("), expr)

	field, err := GoFieldExpr(m, v)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(field, "&GetForecastOutput{"))
}

func TestGoExprScalars(t *testing.T) {
	model := load(t, testutil.CatalogModel)
	m := typemap.New(model, "example.catalog", nil)

	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"string", &Value{Kind: KindString, Shape: "smithy.api#String", Primitive: parser.SimpleString, Str: "a"}, `mockPtr("a")`},
		{"int", &Value{Kind: KindInt, Shape: "smithy.api#Integer", Primitive: parser.SimpleInteger, Int: 4}, `mockPtr(4)`},
		{"long", &Value{Kind: KindInt, Shape: "smithy.api#Long", Primitive: parser.SimpleLong, Int: 4}, `mockPtr(int64(4))`},
		{"float", &Value{Kind: KindFloat, Shape: "smithy.api#Float", Primitive: parser.SimpleFloat, Float: 1.5}, `mockPtr(float32(1.5))`},
		{"bool", &Value{Kind: KindBool, Shape: "smithy.api#Boolean", Primitive: parser.SimpleBoolean, Bool: true}, `mockPtr(true)`},
		{"timestamp", &Value{Kind: KindTimestamp, Shape: "smithy.api#Timestamp", Primitive: parser.SimpleTimestamp}, `mockPtr(time.Now())`},
		{"blob", &Value{Kind: KindBlob, Shape: "smithy.api#Blob", Primitive: parser.SimpleBlob, Str: "x"}, `[]byte("x")`},
		{"simple", &Value{Kind: KindFloat, Shape: "example.catalog#Price", Primitive: parser.SimpleDouble, Float: 9.99}, `mockPtr(Price(float64(9.99)))`},
		{"enum", &Value{Kind: KindEnum, Shape: "example.catalog#Category", EnumMember: "BOOKS", Str: "books"}, `mockPtr(CategoryBooks)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoFieldExpr(m, tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Contains(t, m.Imports(), typemap.Import{Name: "time", Path: "time"})
}

func TestGoExprForeignNamespace(t *testing.T) {
	model := load(t, testutil.OrdersModel, testutil.CatalogModel)
	v, err := New(model).Structure("example.orders#PlaceOrderInput")
	require.NoError(t, err)

	m := typemap.New(model, "example.orders", func(ns string) (string, string) {
		return "catalog", "example.com/gen/catalog"
	})
	expr, err := GoExpr(m, v)
	require.NoError(t, err)
	assert.Contains(t, expr, "Product: &catalog.Product{")
	assert.Contains(t, expr, "catalog.Category")
	assert.Contains(t, m.Imports(), typemap.Import{Name: "catalog", Path: "example.com/gen/catalog"})
}

func TestGoExprRenamedFields(t *testing.T) {
	model := load(t, testutil.ReservedNamesModel)
	gen := New(model)
	m := typemap.New(model, "example.edges", nil)

	v, err := gen.Structure("example.edges#PutItemInput")
	require.NoError(t, err)
	expr, err := GoExpr(m, v)
	require.NoError(t, err)
	assert.Contains(t, expr, "ValidateField_: mockPtr(")
	assert.NotContains(t, expr, "Validate:")

	v, err = gen.Structure("example.edges#PutItemOutput")
	require.NoError(t, err)
	expr, err = GoExpr(m, v)
	require.NoError(t, err)
	assert.Contains(t, expr, "RequiredFieldError: &RequiredFieldErrorShape{")
}
