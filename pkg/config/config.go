package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (slate cache)
	Redis RedisConfig

	// Solver defaults (overridable per request)
	Solver SolverConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SolverConfig holds default lineup generation parameters
type SolverConfig struct {
	LineupCount          int     // 기본 생성 라인업 수
	CostCap              int     // 샐러리 캡
	GlobalMaxExposurePct float64 // 후보별 설정이 없을 때의 노출 상한
	MaxUnspent           int     // 허용되는 캡 잔여분
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Solver
		Solver: SolverConfig{
			LineupCount:          getEnvAsInt("LINEUP_COUNT", 20),
			CostCap:              getEnvAsInt("COST_CAP", 50_000),
			GlobalMaxExposurePct: getEnvAsFloat("GLOBAL_MAX_EXPOSURE", 100),
			MaxUnspent:           getEnvAsInt("MAX_UNSPENT", 1_000),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Solver.LineupCount <= 0 {
		return fmt.Errorf("LINEUP_COUNT must be positive")
	}
	if c.Solver.CostCap <= 0 {
		return fmt.Errorf("COST_CAP must be positive")
	}
	if c.Solver.GlobalMaxExposurePct <= 0 || c.Solver.GlobalMaxExposurePct > 100 {
		return fmt.Errorf("GLOBAL_MAX_EXPOSURE must be in (0, 100]")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
