// Package config loads the circuit tool's settings from a YAML file, a .env
// file and CIRCUIT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/alexdmiller/sonic-circuit/internal/logging"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "CIRCUIT_"

// Config is the resolved configuration.
type Config struct {
	CellSize float64     `mapstructure:"cell_size" yaml:"cell_size"`
	Speed    float64     `mapstructure:"speed" yaml:"speed"`
	Seed     uint64      `mapstructure:"seed" yaml:"seed"`
	Log      LogConfig   `mapstructure:"log" yaml:"log"`
	Store    StoreConfig `mapstructure:"store" yaml:"store"`
	Redis    RedisConfig `mapstructure:"redis" yaml:"redis"`
	HTTP     HTTPConfig  `mapstructure:"http" yaml:"http"`
	Audio    AudioConfig `mapstructure:"audio" yaml:"audio"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StoreConfig selects the patch store used by share links.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // memory, file or redis
	Dir    string `mapstructure:"dir" yaml:"dir"`

	// EncryptionKey is a base64 AES-256 key. When set, patches are
	// encrypted at rest; PreviousKeys still decrypt older patches.
	EncryptionKey string   `mapstructure:"encryption_key" yaml:"encryption_key"`
	PreviousKeys  []string `mapstructure:"previous_keys" yaml:"previous_keys"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// AudioConfig names an external program run once per played note.
type AudioConfig struct {
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CellSize: domain.DefaultCellSize,
		Speed:    domain.DefaultSpeed,
		Log:      LogConfig{Level: "info", Format: "text"},
		Store:    StoreConfig{Driver: "file", Dir: ".circuit/patches"},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "circuit:patch:"},
		HTTP:     HTTPConfig{Port: 8080},
	}
}

// envKeys maps environment variable suffixes to config paths.
var envKeys = map[string][]string{
	"CELL_SIZE":            {"cell_size"},
	"SPEED":                {"speed"},
	"SEED":                 {"seed"},
	"LOG_LEVEL":            {"log", "level"},
	"LOG_FORMAT":           {"log", "format"},
	"STORE_DRIVER":         {"store", "driver"},
	"STORE_DIR":            {"store", "dir"},
	"STORE_ENCRYPTION_KEY": {"store", "encryption_key"},
	"STORE_PREVIOUS_KEYS":  {"store", "previous_keys"},
	"REDIS_ADDR":           {"redis", "addr"},
	"REDIS_PASSWORD":       {"redis", "password"},
	"REDIS_DB":             {"redis", "db"},
	"REDIS_PREFIX":         {"redis", "prefix"},
	"REDIS_TTL":            {"redis", "ttl"},
	"HTTP_PORT":            {"http", "port"},
	"AUDIO_COMMAND":        {"audio", "command"},
	"AUDIO_ARGS":           {"audio", "args"},
}

// Load resolves the configuration. path may be empty; a missing .env file
// is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}
	overlayEnv(raw, os.Environ())

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		path, known := envKeys[strings.TrimPrefix(name, EnvPrefix)]
		if !known {
			continue
		}
		set(raw, path, value)
	}
}

func set(m map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell_size must be positive, got %v", c.CellSize))
	}
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %v", c.Speed))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	switch c.Store.Driver {
	case "memory", "file", "redis":
	default:
		errs = append(errs, fmt.Errorf("store.driver must be memory, file or redis, got %q", c.Store.Driver))
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
