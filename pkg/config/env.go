package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// ApplyEnv overrides c with GRAPHBOT_* environment variables, for example
// GRAPHBOT_SESSION_STORE=redis or GRAPHBOT_KAFKA_BROKERS=a:9092,b:9092.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.str("GRAPH_COMPACT_LAYOUT", &c.Graph.CompactLayout)
	e.str("GRAPH_LARGE_LAYOUT", &c.Graph.LargeLayout)
	e.integer("GRAPH_COMPACT_MAX_LINES", &c.Graph.CompactMaxLines)
	e.str("GRAPH_NODE_SETTINGS", &c.Graph.NodeSettings)
	e.str("GRAPH_LAYOUT_SETTINGS", &c.Graph.LayoutSettings)

	e.str("RENDER_BACKEND", &c.Render.Backend)
	e.str("RENDER_FORMAT", &c.Render.Format)
	e.str("RENDER_DOT_PATH", &c.Render.DotPath)
	e.str("RENDER_CACHE", &c.Render.Cache)
	e.str("RENDER_CACHE_DIR", &c.Render.CacheDir)
	e.duration("RENDER_CACHE_TTL", &c.Render.CacheTTL)
	e.str("RENDER_REDIS_ADDR", &c.Render.RedisAddr)

	e.str("SESSION_STORE", &c.Session.Store)
	e.duration("SESSION_TTL", &c.Session.TTL)
	e.str("SESSION_DIR", &c.Session.Dir)
	e.str("SESSION_REDIS_ADDR", &c.Session.RedisAddr)
	e.str("SESSION_REDIS_PASSWORD", &c.Session.RedisPassword)
	e.integer("SESSION_REDIS_DB", &c.Session.RedisDB)
	e.str("SESSION_MONGO_URI", &c.Session.MongoURI)
	e.str("SESSION_MONGO_DATABASE", &c.Session.MongoDatabase)
	e.str("SESSION_SQLITE_PATH", &c.Session.SQLitePath)

	e.str("SERVER_ADDR", &c.Server.Addr)
	e.duration("SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	e.duration("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)

	e.list("KAFKA_BROKERS", &c.Kafka.Brokers)
	e.str("KAFKA_VERSION", &c.Kafka.Version)
	e.str("KAFKA_GROUP", &c.Kafka.Group)
	e.str("KAFKA_REQUEST_TOPIC", &c.Kafka.RequestTopic)
	e.str("KAFKA_REPLY_TOPIC", &c.Kafka.ReplyTopic)

	e.str("CONTACT", &c.Contact)

	return e.err
}

// envReader reads prefixed variables and keeps the first conversion error.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	return e.lookup(EnvPrefix + name)
}

func (e *envReader) fail(name, value string, err error) {
	if e.err == nil {
		e.err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s=%q", EnvPrefix, name, value)
	}
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) integer(name string, dst *int) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = n
}

func (e *envReader) duration(name string, dst *time.Duration) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		e.fail(name, v, err)
		return
	}
	*dst = d
}

func (e *envReader) list(name string, dst *[]string) {
	v, ok := e.get(name)
	if !ok {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
