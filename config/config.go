package config

import (
	"strings"

	"lyrics-fetch-go/logcolors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

// Server holds HTTP-server-level settings.
type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// APIKey gates the /cache/dump and /cache/clear debug endpoints.
	// Left empty, those endpoints are open.
	APIKey string `envconfig:"API_KEY" default:""`
}

// Providers holds per-source timeout and bootstrap-cache TTL settings.
type Providers struct {
	LRCLIBTimeoutSeconds   int `envconfig:"LRCLIB_TIMEOUT_SECONDS" default:"30"`
	NETimeoutSeconds       int `envconfig:"NE_TIMEOUT_SECONDS" default:"15"`
	KGTimeoutSeconds       int `envconfig:"KG_TIMEOUT_SECONDS" default:"15"`
	KGLegacyTimeoutSeconds int `envconfig:"KG_LEGACY_TIMEOUT_SECONDS" default:"3"`
	QMTimeoutSeconds       int `envconfig:"QM_TIMEOUT_SECONDS" default:"20"`

	KGDfidCacheTTLSeconds int `envconfig:"KG_DFID_CACHE_TTL_SECONDS" default:"1800"`
	NEAnonCacheTTLSeconds int `envconfig:"NE_ANON_CACHE_TTL_SECONDS" default:"864000"`
}

// Matching holds the default scoring thresholds used by the fetch coordinator.
type Matching struct {
	MinScore      float64 `envconfig:"MIN_SCORE" default:"55"`
	MaxCandidates int     `envconfig:"MAX_CANDIDATES" default:"8"`
}

// Translation holds the OpenAI backfill-translation settings.
type Translation struct {
	TranslationCacheTTLSeconds int    `envconfig:"TRANSLATION_CACHE_TTL_SECONDS" default:"14400"`
	OpenAIBaseURL              string `envconfig:"OPENAI_BASE_URL" default:""`
	OpenAIAPIKey               string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel                string `envconfig:"OPENAI_MODEL" default:""`
	OpenAITargetLang           string `envconfig:"OPENAI_TARGET_LANG" default:"简体中文"`
}

// Config is the process-wide, environment-derived configuration. Its
// sections are embedded (not named fields of inline struct types) so that
// envconfig.Process, which prefixes env var names by non-anonymous field
// name, still resolves flat names like HOST or MIN_SCORE rather than
// SERVER_HOST or MATCHING_MIN_SCORE.
type Config struct {
	Server
	Providers
	Matching
	Translation
}

// load reads a local .env (if present) then layers environment variables
// on top via envconfig.
func load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warnf("%s no .env file loaded: %v", logcolors.LogConfig, err)
	}

	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("%s unable to load configuration", logcolors.LogConfig)
	}
	return c
}

// Get returns the process-wide configuration singleton.
func Get() Config {
	return conf
}

// APIKeyProtectedPaths lists the debug endpoints gated by Config.Server.APIKey.
var APIKeyProtectedPaths = []string{
	"/cache/dump",
	"/cache/clear",
}

// CORSOrigins splits Server.CORSAllowedOrigins on commas, trimming whitespace.
func (c Config) CORSOrigins() []string {
	return SplitAndTrim(c.Server.CORSAllowedOrigins)
}

// SplitAndTrim splits a comma-separated string and trims whitespace from
// each element, dropping empties.
func SplitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
