package generator

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/smithygen/internal/testutil"
	smithy "github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
)

func loadModel(t *testing.T, src string) *smithy.Model {
	t.Helper()
	res, err := smithy.New().ParseBytes([]byte(src))
	require.NoError(t, err)
	return res.Model
}

func generate(t *testing.T, src string, opts ...Option) *GenerateResult {
	t.Helper()
	result, err := GenerateWithOptions(append([]Option{WithBytes([]byte(src))}, opts...)...)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func fileContent(t *testing.T, pkg *GeneratedPackage, name string) string {
	t.Helper()
	f := pkg.GetFile(name)
	require.NotNil(t, f, "missing %s", name)
	return string(f.Content)
}

// assertValidGo parses every file of pkg.
func assertValidGo(t *testing.T, pkg *GeneratedPackage) {
	t.Helper()
	fset := token.NewFileSet()
	for _, f := range pkg.Files {
		_, err := parser.ParseFile(fset, f.Name, f.Content, parser.AllErrors)
		assert.NoError(t, err, "%s/%s does not parse:\n%s", pkg.Dir, f.Name, f.Content)
	}
}

func TestGenerateWeather(t *testing.T) {
	result := generate(t, testutil.WeatherModel)

	assert.True(t, result.Success)
	assert.Zero(t, result.WarningCount)
	assert.Equal(t, DefaultModulePath, result.ModulePath)
	assert.Equal(t, 2, result.GeneratedTypes)
	assert.Equal(t, 1, result.GeneratedOperations)
	require.Len(t, result.Packages, 1)

	pkg := result.Package("example.weather")
	require.NotNil(t, pkg)
	assert.Equal(t, "weather", pkg.Name)
	assert.Equal(t, "example/weather", pkg.Dir)
	assert.Equal(t, "generated/example/weather", pkg.ImportPath)
	assert.Equal(t, []string{"Weather"}, pkg.Services)

	var names []string
	for _, f := range pkg.Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"doc.go", "types.go", "service.go", "http.go", "mock.go", "validators.go", "service_test.go"}, names)
	assertValidGo(t, pkg)

	for _, f := range pkg.Files {
		assert.True(t, strings.HasPrefix(string(f.Content), "// Code generated by smithygen"), f.Name)
	}

	doc := fileContent(t, pkg, "doc.go")
	assert.Contains(t, doc, "package weather")
	assert.Contains(t, doc, "Provides weather forecasts.")

	types := fileContent(t, pkg, "types.go")
	assert.Contains(t, types, "type GetForecastInput struct")
	assert.Contains(t, types, "type GetForecastOutput struct")
	assert.Contains(t, types, `validate:"required"`)
	assert.Contains(t, types, `json:"tempF,omitempty"`)
	assert.Contains(t, types, "type Unit struct{}")

	service := fileContent(t, pkg, "service.go")
	assert.Contains(t, service, "type Weather interface")
	assert.Contains(t, service, "GetForecast(ctx context.Context, input *GetForecastInput) (*GetForecastOutput, error)")
	assert.Contains(t, service, `const WeatherVersion = "2024-01-01"`)

	mock := fileContent(t, pkg, "mock.go")
	assert.Contains(t, mock, "type MockWeather struct{}")
	assert.Contains(t, mock, "var _ Weather = (*MockWeather)(nil)")
	assert.Contains(t, mock, "TempF: mockPtr(")
	assert.Contains(t, mock, "func mockPtr[T any](v T) *T")

	validators := fileContent(t, pkg, "validators.go")
	assert.Contains(t, validators, "func (v *GetForecastInput) Validate() error")
	assert.Contains(t, validators, "v.City == nil")

	tests := fileContent(t, pkg, "service_test.go")
	assert.Contains(t, tests, "var newWeatherUnderTest = func() Weather { return NewMockWeather() }")
	assert.Contains(t, tests, "func TestWeather_GetForecast(t *testing.T)")
}

func TestGenerateHTTPBindings(t *testing.T) {
	result := generate(t, testutil.WeatherModel)
	http := fileContent(t, result.Package("example.weather"), "http.go")

	assert.Contains(t, http, "type WeatherHTTPHandler struct")
	assert.Contains(t, http, `mux.HandleFunc("GET /weather/{city}", h.routeGetForecast)`)
	// The label member is an explicit parameter of the exported method.
	assert.Contains(t, http, "func (h *WeatherHTTPHandler) GetForecast(w http.ResponseWriter, r *http.Request, city string)")
	assert.Contains(t, http, `bindHTTPParam(r.PathValue("city"), &city)`)
	assert.Contains(t, http, "input.City = &city")
	assert.Contains(t, http, "writeHTTPJSON(w, 200, output)")
}

func TestGenerateReservedNames(t *testing.T) {
	result := generate(t, testutil.ReservedNamesModel)
	assert.Zero(t, result.WarningCount, "%v", result.Issues)
	pkg := result.Package("example.edges")
	require.NotNil(t, pkg)
	assertValidGo(t, pkg)

	types := fileContent(t, pkg, "types.go")
	assert.Contains(t, types, "type Unit struct{}")
	assert.Contains(t, types, "type UnitShape struct")
	assert.Contains(t, types, "type RequiredFieldErrorShape struct")
	// Members named after generated methods keep their serialized names.
	assert.Regexp(t, "ValidateField_ +\\*string +`json:\"validate\" validate:\"required\"`", types)
	assert.Regexp(t, "ValidateField +\\*int +`json:\"validateField,omitempty\"`", types)
	assert.Regexp(t, "ErrorField +\\*string +`json:\"error,omitempty\"`", types)
	assert.Regexp(t, "ErrorFaultField +\\*string", types)
	assert.Contains(t, types, "func (e *Failure) Error() string")

	validators := fileContent(t, pkg, "validators.go")
	assert.Contains(t, validators, "v.ValidateField_ == nil")
	assert.Contains(t, validators, "func (v *UnitShape) Validate() error")
	assert.Contains(t, validators, "v.RequiredFieldError.Validate()")

	http := fileContent(t, pkg, "http.go")
	assert.Contains(t, http, "input.Id = &id")
}

func TestGenerateNameCollision(t *testing.T) {
	model := strings.Replace(testutil.WeatherModel, `"shapes": {`, `"shapes": {
    "example.weather#WeatherHTTPHandler": {"type": "structure", "members": {}},`, 1)
	result, err := GenerateWithOptions(WithBytes([]byte(model)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeerrors.ErrNameCollision))
	var collision *shapeerrors.NameCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "WeatherHTTPHandler", collision.Name)
	assert.Equal(t, "example.weather#WeatherHTTPHandler", collision.First)
	assert.Equal(t, "service example.weather#Weather", collision.Second)
	assert.Empty(t, result.Packages)
}

func TestGenerateCatalog(t *testing.T) {
	result := generate(t, testutil.CatalogModel)
	require.True(t, result.Success)
	pkg := result.Package("example.catalog")
	require.NotNil(t, pkg)
	assertValidGo(t, pkg)
	assert.Equal(t, 4, pkg.Operations)

	types := fileContent(t, pkg, "types.go")
	assert.Contains(t, types, "type Category string")
	assert.Contains(t, types, "type Priority int")
	assert.Contains(t, types, "type TagList []string")
	assert.Contains(t, types, "type Attributes map[string]string")
	assert.Contains(t, types, "type ProductName string")
	assert.Contains(t, types, "ProductNamePattern = `^[A-Za-z ]+$`")
	assert.Contains(t, types, "func (v ProductName) Valid() bool")
	assert.Contains(t, types, "func (e *ProductNotFound) Error() string")
	assert.Contains(t, types, "return 404")
	assert.Contains(t, types, "func CategoryValues() []Category")

	service := fileContent(t, pkg, "service.go")
	assert.Contains(t, service, "Errors: *ProductNotFound.")
	assert.Contains(t, service, "Ping(ctx context.Context, input *Unit) (*Unit, error)")
	assert.Contains(t, service, "ListProducts(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error)")

	http := fileContent(t, pkg, "http.go")
	assert.Contains(t, http, `"GET /products/{productId}"`)
	assert.Contains(t, http, `"GET /products"`)
	assert.Contains(t, http, `"POST /products"`)
	assert.Contains(t, http, "writeHTTPJSON(w, 201, output)")
	assert.Contains(t, http, `r.URL.Query().Get("related")`)
	assert.Contains(t, http, "limit *int")
	assert.NotContains(t, http, "routePing")

	mock := fileContent(t, pkg, "mock.go")
	assert.Contains(t, mock, "return &Unit{}, nil")
}

func TestGenerateInvalidHTTPMethod(t *testing.T) {
	model := strings.Replace(testutil.WeatherModel, `"method": "GET"`, `"method": "FETCH"`, 1)
	result, err := GenerateWithOptions(WithBytes([]byte(model)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeerrors.ErrInvalidHTTPMethod))
	var methodErr *shapeerrors.HTTPMethodError
	require.True(t, errors.As(err, &methodErr))
	assert.Equal(t, "example.weather#GetForecast", methodErr.ShapeID)
	assert.Equal(t, "FETCH", methodErr.Method)

	require.NotNil(t, result)
	assert.Empty(t, result.Packages)
	assert.False(t, result.Success)
	assert.True(t, result.HasCriticalIssues())
}

func TestGenerateUnsupportedShapeKind(t *testing.T) {
	result, err := GenerateWithOptions(WithBytes([]byte(testutil.UnionModel)))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, shapeerrors.ErrUnsupportedShapeKind))
}

func TestGenerateDanglingReference(t *testing.T) {
	result, err := GenerateWithOptions(WithBytes([]byte(testutil.DanglingModel)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeerrors.ErrUnresolvedReference))
	require.NotNil(t, result)
	assert.Nil(t, result.Package("example.broken"))
}

func TestGenerateFailureIsPerNamespace(t *testing.T) {
	weather := loadModel(t, testutil.WeatherModel)
	broken := loadModel(t, testutil.DanglingModel)
	merged, err := weather.Merge(broken)
	require.NoError(t, err)

	result, err := GenerateWithOptions(WithModel(merged))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace example.broken")
	assert.NotNil(t, result.Package("example.weather"))
	assert.Nil(t, result.Package("example.broken"))
}

func TestGenerateServicePolicy(t *testing.T) {
	result := generate(t, testutil.TwoServicesModel)
	pkg := result.Package("example.multi")
	require.NotNil(t, pkg)
	assert.Equal(t, []string{"Alpha", "Beta"}, pkg.Services)
	assertValidGo(t, pkg)

	result, err := GenerateWithOptions(
		WithBytes([]byte(testutil.TwoServicesModel)),
		WithServicePolicy(PolicySingle),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeerrors.ErrAmbiguousServiceCount))
	var countErr *shapeerrors.ServiceCountError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, []string{"example.multi#Alpha", "example.multi#Beta"}, countErr.Services)
	assert.Empty(t, result.Packages)

	// A single service passes either policy.
	generate(t, testutil.WeatherModel, WithServicePolicy(PolicySingle))
}

func TestParseServicePolicy(t *testing.T) {
	for in, want := range map[string]ServicePolicy{"": PolicyMultiple, "multiple": PolicyMultiple, "SINGLE": PolicySingle} {
		got, err := ParseServicePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseServicePolicy("first")
	assert.True(t, errors.Is(err, shapeerrors.ErrConfig))
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := generate(t, testutil.CatalogModel, WithConcurrency(4))
	second := generate(t, testutil.CatalogModel, WithConcurrency(1))
	require.Len(t, second.Packages, len(first.Packages))
	for i := range first.Packages {
		for j, f := range first.Packages[i].Files {
			assert.Equal(t, string(f.Content), string(second.Packages[i].Files[j].Content), f.Name)
		}
	}

	reseeded := generate(t, testutil.CatalogModel, WithMockSeed(99))
	assert.NotEqual(t,
		string(first.Package("example.catalog").GetFile("mock.go").Content),
		string(reseeded.Package("example.catalog").GetFile("mock.go").Content))
}

func TestGenerateCrossNamespace(t *testing.T) {
	catalog := loadModel(t, testutil.CatalogModel)
	version := semver.MustParse("1.2.0")

	result, err := GenerateWithOptions(
		WithBytes([]byte(testutil.OrdersModel)),
		WithSourceText(testutil.OrdersSource),
		WithDependency(catalog, version),
		WithModulePath("example.com/api"),
	)
	require.NoError(t, err)

	// Dependency namespaces are imported, not generated.
	require.Len(t, result.Packages, 1)
	pkg := result.Package("example.orders")
	require.NotNil(t, pkg)
	assert.Equal(t, "example.com/api/example/orders", pkg.ImportPath)
	assertValidGo(t, pkg)
	assert.Equal(t, version, result.Dependencies["example.catalog"])

	types := fileContent(t, pkg, "types.go")
	assert.Contains(t, types, `"example.com/api/example/catalog"`)
	assert.Contains(t, types, "*catalog.Product `json:\"product\" validate:\"required\"`")

	assert.Contains(t, fileContent(t, pkg, "doc.go"), "example.catalog")
	assert.Contains(t, fileContent(t, pkg, "service_test.go"), "Product: &catalog.Product{")

	result, err = GenerateWithOptions(
		WithBytes([]byte(testutil.OrdersModel)),
		WithDependency(catalog, version),
		WithPackageOverride("example.catalog", "github.com/acme/catalog/v2"),
	)
	require.NoError(t, err)
	types = fileContent(t, result.Package("example.orders"), "types.go")
	assert.Contains(t, types, `"github.com/acme/catalog/v2"`)
	assert.Contains(t, types, "*catalog.Product")
}

func TestGenerateNamespaceFilter(t *testing.T) {
	weather := loadModel(t, testutil.WeatherModel)
	cycles := loadModel(t, testutil.CyclesModel)
	merged, err := weather.Merge(cycles)
	require.NoError(t, err)

	result, err := GenerateWithOptions(WithModel(merged), WithNamespaces("example.cycles"))
	require.NoError(t, err)
	require.Len(t, result.Packages, 1)
	pkg := result.Packages[0]
	assert.Equal(t, "example.cycles", pkg.Namespace)
	assert.Nil(t, pkg.GetFile("service.go"), "no services, no interface file")
	assert.Nil(t, pkg.GetFile("http.go"))
	assert.NotNil(t, pkg.GetFile("validators.go"))
}

func TestGenerateInfoAndStrict(t *testing.T) {
	result := generate(t, testutil.WeatherModel)
	assert.Positive(t, result.InfoCount)

	result = generate(t, testutil.WeatherModel, WithIncludeInfo(false))
	assert.Zero(t, result.InfoCount)
	for _, issue := range result.Issues {
		assert.NotEqual(t, SeverityInfo, issue.Severity)
	}

	// A label with no matching member is a warning, which strict mode rejects.
	model := strings.Replace(testutil.WeatherModel, `"/weather/{city}"`, `"/weather/{city}/{day}"`, 1)
	result = generate(t, model)
	assert.True(t, result.HasWarnings())
	_, err := GenerateWithOptions(WithBytes([]byte(model)), WithStrictMode(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
}

func TestGenerateFromFile(t *testing.T) {
	path := testutil.WriteFile(t, "weather.json", testutil.WeatherModel)

	g := New()
	g.ModulePath = "example.com/wx"
	result, err := g.Generate(path)
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)
	assert.Equal(t, smithy.SourceFormatJSON, result.SourceFormat)
	assert.Equal(t, "2.0", result.SourceVersion)
	assert.Equal(t, "example.com/wx/example/weather", result.Packages[0].ImportPath)

	_, err = g.Generate(path + ".missing")
	assert.Error(t, err)
}

func TestRoutePattern(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"/weather/{city}", "GET /weather/{city}"},
		{"/files/{key+}", "GET /files/{key...}"},
		{"/search?mode=full", "GET /search"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoutePattern("GET", &smithy.HTTPBinding{Method: "GET", URI: tt.uri}))
	}
}

func TestNormalizeHTTPMethod(t *testing.T) {
	m, err := NormalizeHTTPMethod("ns#Op", "patch")
	require.NoError(t, err)
	assert.Equal(t, "PATCH", m)

	_, err = NormalizeHTTPMethod("ns#Op", "OPTIONS")
	assert.True(t, errors.Is(err, shapeerrors.ErrInvalidHTTPMethod))
}
