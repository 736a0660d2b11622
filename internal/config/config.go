package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port    string `toml:"port"`
	TempDir string `toml:"temp_dir"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type LLMConfig struct {
	Provider            string `toml:"provider"`
	Model               string `toml:"model"`
	EmbeddingModel      string `toml:"embedding_model"`
	EmbeddingDimensions int    `toml:"embedding_dimensions"`
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
}

type MediaConfig struct {
	FFmpegPath     string `toml:"ffmpeg_path"`
	WhisperModel   string `toml:"whisper_model"`
	WhisperAPIKey  string `toml:"whisper_api_key"`
	WhisperBaseURL string `toml:"whisper_base_url"`
}

type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

type IngestConfig struct {
	Workers int `toml:"workers"`
}

type RetrievalConfig struct {
	TopK          int `toml:"top_k"`
	SnippetLength int `toml:"snippet_length"`
}

type ExtractionConfig struct {
	Entities  []string `toml:"entities"`
	Relations []string `toml:"relations"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Neo4j      Neo4jConfig      `toml:"neo4j"`
	Storage    StorageConfig    `toml:"storage"`
	LLM        LLMConfig        `toml:"llm"`
	Media      MediaConfig      `toml:"media"`
	Chunking   ChunkingConfig   `toml:"chunking"`
	Ingest     IngestConfig     `toml:"ingest"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Extraction ExtractionConfig `toml:"extraction"`
}

// Default returns the configuration used when no file and no env overrides
// are present. Values mirror the local docker-compose setup.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8000", TempDir: "."},
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Password: "password123",
			Database: "neo4j",
		},
		Storage: StorageConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "neurospace-files",
		},
		LLM: LLMConfig{
			Provider:            "groq",
			Model:               "llama-3.1-8b-instant",
			EmbeddingModel:      "text-embedding-3-small",
			EmbeddingDimensions: 1536,
		},
		Media:     MediaConfig{WhisperModel: "whisper-1"},
		Chunking:  ChunkingConfig{Size: 1000, Overlap: 200},
		Ingest:    IngestConfig{Workers: 4},
		Retrieval: RetrievalConfig{TopK: 3, SnippetLength: 150},
		Extraction: ExtractionConfig{
			Entities:  []string{"Person", "Organization", "Event", "Concept", "Place"},
			Relations: []string{"FOUNDED", "LOCATED_AT", "PART_OF", "CAUSES", "MENTIONS", "RELATED_TO"},
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Port, "PORT")
	set(&c.Server.TempDir, "TEMP_DIR")

	set(&c.Neo4j.URI, "NEO4J_URI")
	set(&c.Neo4j.User, "NEO4J_USER")
	set(&c.Neo4j.Password, "NEO4J_PASSWORD")

	set(&c.Storage.Endpoint, "S3_ENDPOINT")
	set(&c.Storage.AccessKey, "AWS_ACCESS_KEY_ID")
	set(&c.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY")
	set(&c.Storage.Bucket, "S3_BUCKET_NAME")

	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")

	// The original deployment drives the LLM through Groq's
	// OpenAI-compatible API; accept its conventional key name too.
	if c.LLM.APIKey == "" {
		set(&c.LLM.APIKey, "GROQ_API_KEY")
	}

	set(&c.Media.FFmpegPath, "FFMPEG_PATH")
	set(&c.Media.WhisperAPIKey, "WHISPER_API_KEY")
	set(&c.Media.WhisperBaseURL, "WHISPER_BASE_URL")
}
