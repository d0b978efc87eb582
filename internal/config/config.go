package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EmbeddingProviderOpenAI  = "openai"
	EmbeddingProviderGemini  = "gemini"
	EmbeddingProviderHashing = "hashing"

	SimilarityBackendLocal  = "local"
	SimilarityBackendQdrant = "qdrant"

	HistoryBackendMemory   = "memory"
	HistoryBackendPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Gemini    GeminiConfig
	Qdrant    QdrantConfig
	Keywords  KeywordConfig
	Storage   StorageConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Backend  string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	// MaxRuns caps the in-memory history.
	MaxRuns int
}

type EmbeddingConfig struct {
	Provider  string
	Host      string
	Model     string
	Dimension int
	// Serialize funnels every inference call through one lock for runtimes
	// that are not safe for concurrent use.
	Serialize bool
}

type GeminiConfig struct {
	APIKey     string
	EmbedModel string
}

type QdrantConfig struct {
	Backend          string
	URL              string
	APIKey           string
	CollectionPrefix string
}

type KeywordConfig struct {
	StopwordsPath  string
	TopN           int
	MinLength      int
	HighlightColor string
}

type StorageConfig struct {
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Backend:  strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendMemory)),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_matcher"),
			MaxRuns:  getEnvAsInt("HISTORY_MAX_RUNS", 500),
		},
		Embedding: EmbeddingConfig{
			Provider:  strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingProviderOpenAI)),
			Host:      getEnv("EMBEDDING_HOST", "http://localhost:11434/v1"),
			Model:     getEnv("EMBEDDING_MODEL", "all-minilm"),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
			Serialize: getEnvAsBool("EMBEDDING_SERIALIZE", false),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Qdrant: QdrantConfig{
			Backend:          strings.ToLower(getEnv("SIMILARITY_BACKEND", SimilarityBackendLocal)),
			URL:              getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:           getEnv("QDRANT_API_KEY", ""),
			CollectionPrefix: getEnv("QDRANT_COLLECTION_PREFIX", "resume_match"),
		},
		Keywords: KeywordConfig{
			StopwordsPath:  getEnv("STOPWORDS_PATH", ""),
			TopN:           getEnvAsInt("KEYWORD_TOP_N", 20),
			MinLength:      getEnvAsInt("KEYWORD_MIN_LENGTH", 3),
			HighlightColor: getEnv("HIGHLIGHT_COLOR", "#FFD700"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
		},
	}
}

// Validate reports settings that cannot produce a working pipeline.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case EmbeddingProviderOpenAI, EmbeddingProviderGemini, EmbeddingProviderHashing:
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Embedding.Provider)
	}

	switch c.Qdrant.Backend {
	case SimilarityBackendLocal, SimilarityBackendQdrant:
	default:
		return fmt.Errorf("unknown similarity backend: %q", c.Qdrant.Backend)
	}

	switch c.Database.Backend {
	case HistoryBackendMemory, HistoryBackendPostgres:
	default:
		return fmt.Errorf("unknown history backend: %q", c.Database.Backend)
	}

	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Keywords.TopN <= 0 {
		return fmt.Errorf("keyword top n must be positive, got %d", c.Keywords.TopN)
	}
	if c.Keywords.MinLength < 0 {
		return fmt.Errorf("keyword min length must not be negative, got %d", c.Keywords.MinLength)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Storage.MaxFileSize)
	}
	if c.Database.MaxRuns <= 0 {
		return fmt.Errorf("history max runs must be positive, got %d", c.Database.MaxRuns)
	}
	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be positive, got %d", c.Worker.Concurrency)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
