// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Locale string
	Store  struct {
		Driver     string // "sqlite" or "postgres"
		SQLitePath string
	}
	DB       DBConfig
	Telegram struct {
		Token string
	}
	Coach struct {
		APIKey string
		Model  string
	}
	Server struct {
		Port string
	}
	ShutdownTimeout time.Duration
}

// DBConfig holds the postgres connection settings.
type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// Load loads the configuration
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Look for the config file next to the binary and in the usual spots.
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.grasfrei")

	v.SetDefault("Locale", "de-DE")
	v.SetDefault("Store.Driver", "sqlite")
	v.SetDefault("Store.SQLitePath", defaultSQLitePath())
	v.SetDefault("DB.SSLMode", "disable")
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)
	v.SetDefault("Coach.Model", "gpt-4")
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("ShutdownTimeout", 10*time.Second)

	v.AutomaticEnv()

	// No config file means env-only configuration, which is fine.
	if err := v.ReadInConfig(); err != nil {
		cfg := &Config{}
		cfg.Locale = getEnvOr("GRASFREI_LOCALE", "de-DE")
		cfg.Store.Driver = getEnvOr("STORE_DRIVER", "sqlite")
		cfg.Store.SQLitePath = getEnvOr("STORE_SQLITE_PATH", defaultSQLitePath())
		cfg.DB.Host = getEnvOr("DB_HOST", "localhost")
		cfg.DB.Port = getEnvOr("DB_PORT", "5432")
		cfg.DB.User = getEnvOr("DB_USER", "postgres")
		cfg.DB.Password = getEnvOr("DB_PASSWORD", "postgres")
		cfg.DB.DBName = getEnvOr("DB_NAME", "grasfrei")
		cfg.DB.SSLMode = getEnvOr("DB_SSL_MODE", "disable")
		cfg.DB.MaxOpenConns = 20
		cfg.DB.MaxIdleConns = 10
		cfg.DB.ConnLifetime = 5 * time.Minute
		cfg.Telegram.Token = os.Getenv("TELEGRAM_TOKEN")
		cfg.Coach.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Coach.Model = getEnvOr("COACH_MODEL", "gpt-4")
		cfg.Server.Port = getEnvOr("SERVER_PORT", "8080")
		cfg.ShutdownTimeout = 10 * time.Second
		return cfg, nil
	}

	// Expand ${ENV_VAR} references in config values.
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			if envValue := os.Getenv(envVar); envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "grasfrei.db"
	}
	return home + "/.grasfrei/grasfrei.db"
}

// Helper function to get environment variable with default value
func getEnvOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
