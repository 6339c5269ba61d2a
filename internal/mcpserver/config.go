package mcpserver

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/internal/logging"
	"github.com/erraggy/smithygen/mockdata"
)

// envPrefix prefixes every variable read by loadConfig.
const envPrefix = "SMITHYGEN_MCP"

const defaultCacheMaxSize = 10

// serverConfig holds the MCP server defaults.
type serverConfig struct {
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// ListLimit is the default inspect page size and MaxLimit its cap.
	ListLimit int
	MaxLimit  int

	// MaxInlineSize bounds inline model content in bytes.
	MaxInlineSize int64

	MockSeed      uint64
	MockListSize  int
	ServicePolicy generator.ServicePolicy
	Strict        bool
}

var cfg = loadConfig()

// envReader reads SMITHYGEN_MCP_* variables through viper. A value that
// does not convert is logged and replaced by the default.
type envReader struct {
	v   *viper.Viper
	log *zap.SugaredLogger
}

func newEnvReader() envReader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	log := zap.NewNop()
	if l, err := logging.New(logging.Options{Level: "warn"}); err == nil {
		log = l
	}
	return envReader{v: v, log: log.Sugar()}
}

func readEnv[T any](r envReader, key string, fallback T, convert func(any) (T, error)) T {
	raw := r.v.GetString(key)
	if raw == "" {
		return fallback
	}
	val, err := convert(raw)
	if err != nil {
		r.log.Warnw("invalid environment value, using default",
			"variable", envPrefix+"_"+strings.ToUpper(key), "value", raw, "default", fallback, "error", err)
		return fallback
	}
	return val
}

var errNotPositive = errors.New("must be positive")

func positive[T int | time.Duration](convert func(any) (T, error)) func(any) (T, error) {
	return func(v any) (T, error) {
		n, err := convert(v)
		if err == nil && n <= 0 {
			err = errNotPositive
		}
		return n, err
	}
}

func toPolicy(v any) (generator.ServicePolicy, error) {
	return generator.ParseServicePolicy(cast.ToString(v))
}

func loadConfig() *serverConfig {
	r := newEnvReader()
	defer func() { _ = r.log.Sync() }()

	toInt := positive(cast.ToIntE)
	toDuration := positive(cast.ToDurationE)
	return &serverConfig{
		CacheEnabled:       readEnv(r, "cache_enabled", true, cast.ToBoolE),
		CacheMaxSize:       readEnv(r, "cache_max_size", defaultCacheMaxSize, toInt),
		CacheFileTTL:       readEnv(r, "cache_file_ttl", 15*time.Minute, toDuration),
		CacheContentTTL:    readEnv(r, "cache_content_ttl", 15*time.Minute, toDuration),
		CacheSweepInterval: readEnv(r, "cache_sweep_interval", time.Minute, toDuration),
		ListLimit:          readEnv(r, "list_limit", 100, toInt),
		MaxLimit:           readEnv(r, "max_limit", 1000, toInt),
		MaxInlineSize:      int64(readEnv(r, "max_inline_size", 10<<20, toInt)),
		MockSeed:           readEnv(r, "mock_seed", mockdata.DefaultSeed, cast.ToUint64E),
		MockListSize:       readEnv(r, "mock_list_size", mockdata.DefaultListSize, toInt),
		ServicePolicy:      readEnv(r, "service_policy", generator.PolicyMultiple, toPolicy),
		Strict:             readEnv(r, "strict", false, cast.ToBoolE),
	}
}
