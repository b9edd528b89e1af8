package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	LogLevel     string `yaml:"log_level"`

	DBPath         string `yaml:"db_path"`
	MigrationsPath string `yaml:"migrations_path"`
	SourceDir      string `yaml:"source_dir"`
	ConverterURL   string `yaml:"converter_url"`

	CenterSuffix      string `yaml:"center_suffix"`
	ImpassablePattern string `yaml:"impassable_pattern"`
	StrictLayers      bool   `yaml:"strict_layers"`
	ParallelLayers    bool   `yaml:"parallel_layers"`
}

// Default listen ports. The gateway forwards to the converter.
const (
	GatewayPort   = "3000"
	ConverterPort = "3001"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:              GatewayPort,
		Environment:       "development",
		ReadTimeout:       10,
		WriteTimeout:      10,
		LogLevel:          "info",
		DBPath:            "data/db/maps.db",
		MigrationsPath:    "migrations/001_init_maps.sql",
		SourceDir:         "data/maps",
		ConverterURL:      "http://localhost:" + ConverterPort,
		CenterSuffix:      "Center",
		ImpassablePattern: "stripes",
		ParallelLayers:    true,
	}
}

// Load starts from Default, applies the YAML file named by CONFIG_FILE if
// set, then environment variables.
func Load() (*Config, error) {
	return LoadFor(GatewayPort)
}

// LoadFor is Load with port as the default listen port, for services that
// share one configuration but must not bind the same address.
func LoadFor(port string) (*Config, error) {
	cfg := Default()
	cfg.Port = port

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.MigrationsPath)
	cfg.SourceDir = getEnv("SOURCE_DIR", cfg.SourceDir)
	cfg.ConverterURL = getEnv("CONVERTER_URL", cfg.ConverterURL)
	cfg.CenterSuffix = getEnv("CENTER_SUFFIX", cfg.CenterSuffix)
	cfg.ImpassablePattern = getEnv("IMPASSABLE_PATTERN", cfg.ImpassablePattern)
	cfg.StrictLayers = getEnvAsBool("STRICT_LAYERS", cfg.StrictLayers)
	cfg.ParallelLayers = getEnvAsBool("PARALLEL_LAYERS", cfg.ParallelLayers)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
