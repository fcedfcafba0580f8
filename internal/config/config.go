package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Workflow WorkflowConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

// IsProduction reports whether GO_ENV selects production logging.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Connection string
	// StorageDriver is "postgres" or "memory".
	StorageDriver string
}

type APIKeys struct {
	Groq         string
	GoogleGemini string
	Jina         string
	Tavily       string
	NewsAPI      string
}

type AIConfig struct {
	LLMProvider        string // "groq", "openai", "ollama" or "none"
	LLMModel           string
	LLMBaseURL         string
	LLMMaxRetries      int
	LLMBackoff         time.Duration
	EmbeddingProvider  string // "gemini", "jina" or "ollama"
	EmbeddingModel     string
	EmbeddingDimension int
	OllamaBaseURL      string
	SearchCacheTTL     time.Duration
	SearchMinInterval  time.Duration
	SearchBurst        int
}

type WorkflowConfig struct {
	TopicName       string
	StageDelay      time.Duration
	RetrievalK      int
	SummarizeBelow  int
	RerankThreshold float64
	EmbedBatchSize  int
	ResumeOnBoot    bool
	PollInterval    time.Duration
	PollMaxAttempts int
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection:    getEnv("DB_CONNECTION_STRING", ""),
			StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),
		},
		Keys: APIKeys{
			Groq:         getEnv("GROQ_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			Tavily:       getEnv("TAVILY_API_KEY", ""),
			NewsAPI:      getEnv("NEWS_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "groq"),
			LLMModel:           getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
			LLMMaxRetries:      getEnvAsInt("LLM_MAX_RETRIES", 1),
			LLMBackoff:         getEnvAsDuration("LLM_BACKOFF", 2*time.Second),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			SearchCacheTTL:     getEnvAsDuration("SEARCH_CACHE_TTL", 10*time.Minute),
			SearchMinInterval:  getEnvAsDuration("SEARCH_MIN_INTERVAL", time.Second),
			SearchBurst:        getEnvAsInt("SEARCH_BURST", 2),
		},
		Workflow: WorkflowConfig{
			TopicName:       getEnv("RESEARCH_TOPIC_NAME", "workflow/research"),
			StageDelay:      getEnvAsDuration("WORKFLOW_STAGE_DELAY", time.Second),
			RetrievalK:      getEnvAsInt("RETRIEVAL_K", 20),
			SummarizeBelow:  getEnvAsInt("SUMMARIZE_BELOW_CHARS", 10000),
			RerankThreshold: getEnvAsFloat("RERANK_THRESHOLD", 0.4),
			EmbedBatchSize:  getEnvAsInt("EMBED_BATCH_SIZE", 16),
			ResumeOnBoot:    getEnvAsBool("RESUME_ON_BOOT", true),
			PollInterval:    getEnvAsDuration("POLL_INTERVAL", 3*time.Second),
			PollMaxAttempts: getEnvAsInt("POLL_MAX_ATTEMPTS", 100),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "inzite-research-be"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1500ms") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(strValue, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}
