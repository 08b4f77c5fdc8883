package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Skufu/medpredict/internal/diagnosis"
)

type Config struct {
	Port        string
	GinMode     string
	ModelDir    string
	ModelPaths  map[string]string
	LogFile     string
	LogLevel    string
	DatabaseURL string
	EnableDB    bool
}

// modelEnv maps each panel to the variable overriding its artifact path and
// the file name used under MODEL_DIR otherwise.
var modelEnv = map[string][2]string{
	diagnosis.Diabetes:     {"DIABETES_MODEL_PATH", "diabetes_model.json"},
	diagnosis.Heart:        {"HEART_MODEL_PATH", "heart_model.json"},
	diagnosis.BreastCancer: {"BREAST_CANCER_MODEL_PATH", "breast_cancer_model.json"},
	diagnosis.Parkinsons:   {"PARKINSONS_MODEL_PATH", "parkinson_model.json"},
}

// Load reads configuration from the environment, after applying a .env file
// if one exists in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		ModelDir:    getEnv("MODEL_DIR", "models"),
		LogFile:     getEnv("LOG_FILE", "app.log"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	cfg.ModelPaths = make(map[string]string, len(modelEnv))
	for id, env := range modelEnv {
		cfg.ModelPaths[id] = getEnv(env[0], filepath.Join(cfg.ModelDir, env[1]))
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("unsupported LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
