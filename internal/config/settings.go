package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds every value that comes from the environment. Tunables that never
// change between deployments stay as constants in environmentVariables.go.
type Settings struct {
	GoogleAPIKey string

	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantCollection string
	QdrantUseTLS     bool

	PersonaName    string
	RedactUsername string

	RedisAddr      string
	FileStorageDir string
	PublicBaseURL  string
}

// Load reads a .env file if one exists and then the process environment.
// Missing required values are a hard startup failure, all of them reported at once.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		QdrantHost:       os.Getenv("QDRANT_HOST"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: os.Getenv("QDRANT_COLLECTION"),
		PersonaName:      getOrDefault("PERSONA_NAME", "Naeem"),
		RedactUsername:   getOrDefault("REDACT_USERNAME", "naeemdadi"),
		RedisAddr:        getOrDefault("REDIS_ADDR", RedisAddr),
		FileStorageDir:   getOrDefault("FILE_STORAGE_DIR", "uploaded_data"),
		PublicBaseURL:    getOrDefault("PUBLIC_BASE_URL", "http://localhost:3000"),
	}

	var missing []string
	if s.GoogleAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if s.QdrantHost == "" {
		missing = append(missing, "QDRANT_HOST")
	}
	if s.QdrantAPIKey == "" {
		missing = append(missing, "QDRANT_API_KEY")
	}
	if s.QdrantCollection == "" {
		missing = append(missing, "QDRANT_COLLECTION")
	}

	port, err := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if err != nil {
		missing = append(missing, "QDRANT_PORT")
	}
	s.QdrantPort = port

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	s.QdrantUseTLS = os.Getenv("QDRANT_USE_TLS") == "true"
	return s, nil
}

func getOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
