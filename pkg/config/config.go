package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Host               string
	Port               string
	Debug              bool
	AIProvider         string
	OpenAIAPIKey       string
	OpenAIModel        string
	OllamaBaseURL      string
	OllamaModel        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	SerperAPIKey       string
	StateSecret        string
	TokenFile          string
	UserDataDir        string
	DatabaseURL        string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	debug := false
	if v := os.Getenv("DEBUG"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			debug = parsed
		}
	}

	port := getEnv("APP_PORT", "")
	if port == "" {
		port = getEnv("PORT", "8000")
	}

	return &Config{
		Host:               getEnv("APP_HOST", "0.0.0.0"),
		Port:               port,
		Debug:              debug,
		AIProvider:         getEnv("AI_PROVIDER", "auto"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4-turbo"),
		OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llama3"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8000/auth/callback"),
		SerperAPIKey:       getEnv("SERPER_API_KEY", ""),
		StateSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		TokenFile:          getEnv("TOKEN_FILE", "token.json"),
		UserDataDir:        getEnv("USER_DATA_DIR", "user_data"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
