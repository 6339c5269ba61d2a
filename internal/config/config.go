// Package config loads the smithygen configuration from defaults, an
// optional YAML file and SMITHYGEN_ environment variables.
//
// Keys nest with dots in the file and with underscores in the environment:
// mock.seed is read from SMITHYGEN_MOCK_SEED.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/shapeerrors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SMITHYGEN"

// FileName is the config file looked up in the working directory.
const FileName = "smithygen"

// Config is the complete configuration of a run.
type Config struct {
	// Output is the directory generated packages are written to.
	Output string `mapstructure:"output" validate:"required"`
	// ModulePath prefixes the import paths of generated packages.
	ModulePath string `mapstructure:"module_path" validate:"required"`
	// Packages maps namespaces to existing import paths.
	Packages []PackageOverride `mapstructure:"packages" validate:"dive"`
	// Policy is multiple or single.
	Policy string `mapstructure:"policy" validate:"oneof=multiple single"`
	// Concurrency bounds parallel namespace emission; 0 means GOMAXPROCS.
	Concurrency int `mapstructure:"concurrency" validate:"gte=0"`
	// Namespaces restricts generation; empty generates all.
	Namespaces []string `mapstructure:"namespaces"`
	Strict     bool     `mapstructure:"strict"`

	Mock     MockConfig     `mapstructure:"mock"`
	Registry RegistryConfig `mapstructure:"registry"`
	Build    BuildConfig    `mapstructure:"build"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// PackageOverride points a namespace at an already published package.
type PackageOverride struct {
	Namespace  string `mapstructure:"namespace" validate:"required"`
	ImportPath string `mapstructure:"import_path" validate:"required"`
}

// MockConfig controls mock data synthesis.
type MockConfig struct {
	Seed     uint64 `mapstructure:"seed"`
	ListSize int    `mapstructure:"list_size" validate:"gte=0"`
}

// RegistryConfig locates the package registry.
type RegistryConfig struct {
	Root string `mapstructure:"root" validate:"required"`
	Name string `mapstructure:"name" validate:"required"`
}

// BuildConfig holds the IDL build command. The command is split like a
// shell would and {source} and {output} are replaced by the source file
// and the model file it must produce.
type BuildConfig struct {
	Command string `mapstructure:"command"`
}

// ServerConfig configures the mock server.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "gen")
	v.SetDefault("module_path", generator.DefaultModulePath)
	v.SetDefault("packages", []PackageOverride{})
	v.SetDefault("policy", string(generator.PolicyMultiple))
	v.SetDefault("concurrency", 0)
	v.SetDefault("namespaces", []string{})
	v.SetDefault("strict", false)
	v.SetDefault("mock.seed", mockdata.DefaultSeed)
	v.SetDefault("mock.list_size", mockdata.DefaultListSize)
	v.SetDefault("registry.root", ".smithygen/registry")
	v.SetDefault("registry.name", "local")
	v.SetDefault("build.command", "")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// LoadOptions locates the config file.
type LoadOptions struct {
	// File is an explicit config file; it must exist.
	File string
	// Dir is searched for smithygen.yaml when File is empty. Empty means
	// the working directory.
	Dir string
}

// NewViper returns a viper instance with defaults, environment binding and
// the config file read.
func NewViper(opts LoadOptions) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, &shapeerrors.ConfigError{Option: "config", Value: opts.File, Message: "cannot read config file", Cause: err}
		}
		return v, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &shapeerrors.ConfigError{Option: "config", Value: dir, Message: "cannot read config file", Cause: err}
		}
	}
	return v, nil
}

// Load reads and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	v, err := NewViper(opts)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v. Command
// flags bound to v take precedence over the file and environment.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &shapeerrors.ConfigError{Option: "config", Message: "cannot decode configuration", Cause: err}
	}
	cfg.Policy = strings.ToLower(cfg.Policy)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks every field and reports one ConfigError per offending
// field, joined.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return &shapeerrors.ConfigError{Option: "config", Message: "validation failed", Cause: err}
	}
	errs := make([]error, 0, len(valErrs))
	for _, fe := range valErrs {
		errs = append(errs, &shapeerrors.ConfigError{
			Option:  optionName(fe.Namespace()),
			Value:   fe.Value(),
			Message: describe(fe),
		})
	}
	return errors.Join(errs...)
}

// optionName turns "Config.mock.list_size" into "mock.list_size".
func optionName(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "hostname_port":
		return "must be host:port"
	}
	return fmt.Sprintf("fails %s validation", fe.Tag())
}

// GeneratorOptions converts the configuration to generator options.
func (c *Config) GeneratorOptions() ([]generator.Option, error) {
	policy, err := generator.ParseServicePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	opts := []generator.Option{
		generator.WithModulePath(c.ModulePath),
		generator.WithServicePolicy(policy),
		generator.WithMockSeed(c.Mock.Seed),
		generator.WithMockListSize(c.Mock.ListSize),
		generator.WithConcurrency(c.Concurrency),
		generator.WithStrictMode(c.Strict),
	}
	for _, p := range c.Packages {
		opts = append(opts, generator.WithPackageOverride(p.Namespace, p.ImportPath))
	}
	if len(c.Namespaces) > 0 {
		opts = append(opts, generator.WithNamespaces(c.Namespaces...))
	}
	return opts, nil
}
