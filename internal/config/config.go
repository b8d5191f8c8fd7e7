package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported LLM providers for the chat assistant.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Ticket storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Options  OptionsConfig
	I18n     I18nConfig
	Data     DataConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunSchema      bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" or "console".
	Format  string
	Service string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	Required              bool
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// LLMConfig selects the model behind the chat assistant.
type LLMConfig struct {
	Provider        string
	Model           string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	Temperature     float64
	MaxTokens       int
	MaxToolRounds   int
}

// OptionsConfig controls option lookup caching.
type OptionsConfig struct {
	CacheTTLSeconds int
}

// I18nConfig holds locale defaults.
type I18nConfig struct {
	DefaultLocale string
}

// DataConfig controls record backends and mock data generation.
type DataConfig struct {
	TicketBackend string
	TicketCount   int
	UserCount     int
	LogCount      int
	Seed          int64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-admin"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunSchema:      getEnvAsBool("POSTGRES_RUN_SCHEMA", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			Required:              getEnvAsBool("AUTH_REQUIRED", false),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderNone)),
			Model:           getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
			Temperature:     temperature,
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1024),
			MaxToolRounds:   getEnvAsInt("LLM_MAX_TOOL_ROUNDS", 5),
		},
		Options: OptionsConfig{
			CacheTTLSeconds: getEnvAsInt("OPTIONS_CACHE_TTL_SECONDS", 300),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "ko"),
		},
		Data: DataConfig{
			TicketBackend: strings.ToLower(getEnv("TICKET_BACKEND", BackendMemory)),
			TicketCount:   getEnvAsInt("MOCK_TICKET_COUNT", 50),
			UserCount:     getEnvAsInt("MOCK_USER_COUNT", 50),
			LogCount:      getEnvAsInt("MOCK_LOG_COUNT", 200),
			Seed:          int64(getEnvAsInt("MOCK_SEED", 42)),
		},
	}

	cfg.Logger.Service = cfg.App.Name

	if cfg.Data.TicketBackend != BackendMemory && cfg.Data.TicketBackend != BackendPostgres {
		return nil, fmt.Errorf("invalid TICKET_BACKEND: %s", cfg.Data.TicketBackend)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns how long option lists stay cached.
func (o OptionsConfig) CacheTTL() time.Duration {
	if o.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(o.CacheTTLSeconds) * time.Second
}

// Enabled reports whether a real model provider is configured.
func (l LLMConfig) Enabled() bool {
	return l.Provider != "" && l.Provider != ProviderNone
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
