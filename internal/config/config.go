// Package config loads service configuration from an optional YAML file
// and environment variables. Environment variables always win.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration holds all service configuration.
type Configuration struct {
	Service       ServiceConfig       `yaml:"service"`
	Provider      ProviderConfig      `yaml:"provider"`
	Store         StoreConfig         `yaml:"store"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServiceConfig holds the API server settings.
type ServiceConfig struct {
	Principal string `yaml:"principal"`
	HTTPPort  string `yaml:"http_port"`
}

// ProviderConfig holds the transcription provider settings.
type ProviderConfig struct {
	Name          string        `yaml:"name"` // "assemblyai" or "mock"
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	LanguageCode  string        `yaml:"language_code"`
	SpeakerLabels bool          `yaml:"speaker_labels"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
}

// StoreConfig holds the SQLite settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds the session store settings.
type RedisConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	SessionPrefix string `yaml:"session_prefix"`
}

// KafkaConfig holds the event publisher settings.
type KafkaConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Brokers        []string `yaml:"brokers"`
	TopicCompleted string   `yaml:"topic_completed"`
	TopicFailed    string   `yaml:"topic_failed"`
	TopicDeleted   string   `yaml:"topic_deleted"`
	Principal      string   `yaml:"principal"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsPort string `yaml:"metrics_port"`
}

// Load builds the Configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() *Configuration {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		applyFile(path, cfg)
	}

	applyEnv(cfg)
	return cfg
}

func defaults() *Configuration {
	return &Configuration{
		Service: ServiceConfig{
			Principal: "svc-audio-notebook",
			HTTPPort:  "8080",
		},
		Provider: ProviderConfig{
			Name:          "mock",
			BaseURL:       "https://api.assemblyai.com",
			LanguageCode:  "es",
			SpeakerLabels: true,
			PollInterval:  5 * time.Second,
			SubmitTimeout: 300 * time.Second,
		},
		Store: StoreConfig{
			Path: "audio_notebook.sqlite",
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			SessionPrefix: "session:",
		},
		Kafka: KafkaConfig{
			TopicCompleted: "notebook.transcription.completed",
			TopicFailed:    "notebook.transcription.failed",
			TopicDeleted:   "notebook.transcription.deleted",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			MetricsPort: "9090",
		},
	}
}

func applyFile(path string, cfg *Configuration) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	// Decode errors leave the defaults untouched for unparsed sections.
	_ = yaml.NewDecoder(f).Decode(cfg)
}

func applyEnv(cfg *Configuration) {
	cfg.Service.Principal = envOrDefault("SERVICE_PRINCIPAL", cfg.Service.Principal)
	cfg.Service.HTTPPort = envOrDefault("HTTP_PORT", cfg.Service.HTTPPort)

	cfg.Provider.Name = envOrDefault("PROVIDER_NAME", cfg.Provider.Name)
	cfg.Provider.APIKey = envOrDefault("ASSEMBLYAI_API_KEY", cfg.Provider.APIKey)
	cfg.Provider.BaseURL = envOrDefault("PROVIDER_BASE_URL", cfg.Provider.BaseURL)
	cfg.Provider.LanguageCode = envOrDefault("PROVIDER_LANGUAGE_CODE", cfg.Provider.LanguageCode)
	cfg.Provider.SpeakerLabels = envOrDefaultBool("PROVIDER_SPEAKER_LABELS", cfg.Provider.SpeakerLabels)
	cfg.Provider.PollInterval = envOrDefaultDuration("PROVIDER_POLL_INTERVAL", cfg.Provider.PollInterval)
	cfg.Provider.SubmitTimeout = envOrDefaultDuration("PROVIDER_SUBMIT_TIMEOUT", cfg.Provider.SubmitTimeout)

	cfg.Store.Path = envOrDefault("STORE_PATH", cfg.Store.Path)

	cfg.Redis.Enabled = envOrDefaultBool("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = envOrDefault("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envOrDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envOrDefaultInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.SessionPrefix = envOrDefault("REDIS_SESSION_PREFIX", cfg.Redis.SessionPrefix)

	cfg.Kafka.Enabled = envOrDefaultBool("KAFKA_ENABLED", cfg.Kafka.Enabled)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitAndTrim(v)
	}
	cfg.Kafka.TopicCompleted = envOrDefault("KAFKA_TOPIC_COMPLETED", cfg.Kafka.TopicCompleted)
	cfg.Kafka.TopicFailed = envOrDefault("KAFKA_TOPIC_FAILED", cfg.Kafka.TopicFailed)
	cfg.Kafka.TopicDeleted = envOrDefault("KAFKA_TOPIC_DELETED", cfg.Kafka.TopicDeleted)
	cfg.Kafka.Principal = envOrDefault("KAFKA_PRINCIPAL", cfg.Service.Principal)

	cfg.Observability.LogLevel = envOrDefault("LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.MetricsPort = envOrDefault("METRICS_PORT", cfg.Observability.MetricsPort)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
