// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"shopifymcp/pkg/credentials"
)

type Config struct {
	Env      string
	HTTPAddr string // REST mirror, only used when a port is requested
	Debug    bool

	// Outbound Shopify client
	HTTPTimeout time.Duration

	// Public base used for problem type URLs and the OpenAPI document
	BasePublicURL string
}

// Load reads process configuration. Credentials are not part of Config; they
// are resolved separately into a credentials.Set.
func Load() Config {
	loadDotEnv(".env")
	cfg := Config{
		Env:           env("SHOPIFY_MCP_ENV", "dev"),
		HTTPAddr:      env("SHOPIFY_MCP_HTTP_ADDR", ":8080"),
		Debug:         envBool("SHOPIFY_MCP_DEBUG", false),
		HTTPTimeout:   envDur("SHOPIFY_HTTP_TIMEOUT_SEC", 30) * time.Second,
		BasePublicURL: env("BASE_PUBLIC_URL", "http://localhost:8080"),
	}
	if cfg.HTTPTimeout <= 0 {
		log.Println("[WARN] SHOPIFY_HTTP_TIMEOUT_SEC must be positive, using 30")
		cfg.HTTPTimeout = 30 * time.Second
	}
	return cfg
}

// WithPort points HTTPAddr at the given port, keeping any host part.
func (c Config) WithPort(port int) Config {
	host := ""
	if i := strings.LastIndex(c.HTTPAddr, ":"); i > 0 {
		host = c.HTTPAddr[:i]
	}
	c.HTTPAddr = host + ":" + strconv.Itoa(port)
	return c
}

// loadDotEnv copies settings from path into the environment without
// overriding variables that are already set. Credential keys are never
// copied: the server only trusts the set the launcher resolved.
func loadDotEnv(path string) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for k, v := range vals {
		if credentials.IsKey(k) {
			continue
		}
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		_ = os.Setenv(k, v)
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			// accept shell-style yes/on as well
			switch strings.ToLower(v) {
			case "yes", "y", "on":
				return true
			}
			return false
		}
		return b
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
