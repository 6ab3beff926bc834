package videoquiz

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultLLMBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultLLMModel   = "gemini-1.5-flash"
	DefaultMCQCount   = 5
)

// Config holds everything read from the environment at startup
type Config struct {
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	TranscriptAPIURL  string
	TranscriptTimeout time.Duration

	DBDriver         string
	DBPath           string
	DBHost           string
	DBPort           string
	DBName           string
	DBUser           string
	DBPassword       string
	DBConnectRetries int
	DBRetryDelay     time.Duration

	Host            string
	Port            string
	SessionSecret   string
	QuizTokenKey    string
	LogMode         string
	LogDir          string
	MaxMCQCount     int
	DefaultMCQCount int
}

// LoadConfig reads an optional .env file and then the process environment
func LoadConfig() *Config {
	// a missing .env is normal in production
	_ = godotenv.Load()

	apiKey := getEnv("LLM_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("OPENAI_API_KEY", "")
	}

	return &Config{
		LLMAPIKey:  apiKey,
		LLMBaseURL: getEnv("LLM_BASE_URL", DefaultLLMBaseURL),
		LLMModel:   getEnv("LLM_MODEL", DefaultLLMModel),
		LLMTimeout: getEnvDuration("LLM_TIMEOUT", 60*time.Second),

		TranscriptAPIURL:  getEnv("TRANSCRIPT_API_URL", "http://localhost:8090/transcript"),
		TranscriptTimeout: getEnvDuration("TRANSCRIPT_TIMEOUT", 20*time.Second),

		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBPath:           getEnv("DB_PATH", "./videoquiz.db"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBName:           getEnv("DB_NAME", "videoquiz"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 5),
		DBRetryDelay:     getEnvDuration("DB_RETRY_DELAY", 2*time.Second),

		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "10000"),
		SessionSecret:   getEnv("SESSION_SECRET", "change-me-session-secret"),
		QuizTokenKey:    getEnv("QUIZ_TOKEN_SECRET", ""),
		LogMode:         getEnv("LOG_MODE", "dev"),
		LogDir:          getEnv("LOG_DIR", ""),
		MaxMCQCount:     getEnvInt("MAX_MCQ_COUNT", 20),
		DefaultMCQCount: DefaultMCQCount,
	}
}

// Validate reports configuration that makes startup impossible
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return errors.New("LLM_API_KEY (or OPENAI_API_KEY) environment variable is required")
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword)
	}
	return c.DBPath
}

// ClampCount turns a raw mcq_count form value into a usable question count
func (c *Config) ClampCount(raw string) int {
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		count = c.DefaultMCQCount
	}
	if c.MaxMCQCount > 0 && count > c.MaxMCQCount {
		count = c.MaxMCQCount
	}
	return count
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}
