// Package config loads graphbot configuration.
//
// Configuration is layered: [Default] values, then a TOML or YAML file
// ([Load] picks the decoder from the extension), then GRAPHBOT_*
// environment variables ([Config.ApplyEnv]). Command-line flags are
// applied last by the CLI.
//
// Example graphbot.toml:
//
//	[graph]
//	compact_layout = "circo"
//	large_layout = "neato"
//
//	[render]
//	backend = "exec"
//	cache = "redis"
//
//	[session]
//	store = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// Render backends.
const (
	BackendGraphviz = "graphviz"
	BackendExec     = "exec"
)

// Artifact caches.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Session stores.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRAPHBOT_"

// Config is the complete graphbot configuration.
type Config struct {
	Graph   GraphConfig   `toml:"graph" yaml:"graph"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Session SessionConfig `toml:"session" yaml:"session"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Kafka   KafkaConfig   `toml:"kafka" yaml:"kafka"`
	Contact string        `toml:"contact" yaml:"contact"`
}

// GraphConfig controls the generated DOT document.
type GraphConfig struct {
	CompactLayout   string `toml:"compact_layout" yaml:"compact_layout"`
	LargeLayout     string `toml:"large_layout" yaml:"large_layout"`
	CompactMaxLines int    `toml:"compact_max_lines" yaml:"compact_max_lines"`
	NodeSettings    string `toml:"node_settings" yaml:"node_settings"`
	LayoutSettings  string `toml:"layout_settings" yaml:"layout_settings"`
}

// RenderConfig selects the renderer and its artifact cache.
type RenderConfig struct {
	Backend  string        `toml:"backend" yaml:"backend"`
	Format   string        `toml:"format" yaml:"format"`
	DotPath  string        `toml:"dot_path" yaml:"dot_path"`
	Cache    string        `toml:"cache" yaml:"cache"`
	CacheDir string        `toml:"cache_dir" yaml:"cache_dir"`
	CacheTTL time.Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	// RedisAddr is the artifact cache server when Cache is "redis".
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`
}

// SessionConfig selects the dialogue store.
type SessionConfig struct {
	Store         string        `toml:"store" yaml:"store"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
	Dir           string        `toml:"dir" yaml:"dir"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
	MongoURI      string        `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database" yaml:"mongo_database"`
	SQLitePath    string        `toml:"sqlite_path" yaml:"sqlite_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
}

// KafkaConfig configures the Kafka worker.
type KafkaConfig struct {
	Brokers      []string `toml:"brokers" yaml:"brokers"`
	Version      string   `toml:"version" yaml:"version"`
	Group        string   `toml:"group" yaml:"group"`
	RequestTopic string   `toml:"request_topic" yaml:"request_topic"`
	ReplyTopic   string   `toml:"reply_topic" yaml:"reply_topic"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Graph: GraphConfig{
			CompactLayout:   "circo",
			LargeLayout:     "neato",
			CompactMaxLines: 10,
			NodeSettings:    `width=0.5 height=0.5 fontname="Arial"`,
		},
		Render: RenderConfig{
			Backend:   BackendGraphviz,
			Format:    "png",
			DotPath:   "dot",
			Cache:     CacheNone,
			CacheTTL:  7 * 24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Session: SessionConfig{
			Store:         StoreMemory,
			TTL:           24 * time.Hour,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "graphbot",
			SQLitePath:    "graphbot.db",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			Version:      "2.1.0",
			Group:        "graphbot",
			RequestTopic: "graphbot.requests",
			ReplyTopic:   "graphbot.replies",
		},
	}
}

// Load reads path over the defaults. The format is chosen by extension:
// .toml, or .yaml/.yml. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig,
			"unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return cfg, nil
}

// Validate checks enumerations and required values.
func (c Config) Validate() error {
	if !oneOf(c.Render.Backend, BackendGraphviz, BackendExec) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.backend: unknown backend %q", c.Render.Backend)
	}
	if !oneOf(c.Render.Cache, CacheNone, CacheFile, CacheRedis) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.cache: unknown cache %q", c.Render.Cache)
	}
	if !oneOf(c.Session.Store, StoreMemory, StoreFile, StoreRedis, StoreMongo, StoreSQLite) {
		return errors.New(errors.ErrCodeInvalidConfig, "session.store: unknown store %q", c.Session.Store)
	}
	if c.Graph.CompactMaxLines < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "graph.compact_max_lines must not be negative")
	}
	if c.Session.TTL < 0 || c.Render.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ttl must not be negative")
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
