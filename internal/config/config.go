package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/missagar01/Housekeeping-backend-aws/internal/log"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env     string
	Port    string
	Storage string // "postgres" or "memory"

	DBUsername string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	TelegramBotToken string
	TelegramChatID   int64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env if present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.GetLogger().Debugf("No .env file loaded: %v", err)
	}

	chatID, err := strconv.ParseInt(getenv("TELEGRAM_CHAT_ID", "0"), 10, 64)
	if err != nil {
		log.GetLogger().Warnf("Invalid TELEGRAM_CHAT_ID, notifications disabled: %v", err)
		chatID = 0
	}

	return Config{
		Env:              getenv("APP_ENV", "development"),
		Port:             getenv("PORT", "3000"),
		Storage:          getenv("STORAGE", StoragePostgres),
		DBUsername:       os.Getenv("DB_USERNAME"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBName:           os.Getenv("DB_NAME"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   chatID,
	}
}

// DBConnStr builds the postgres connection string from the DB_* values.
func (c Config) DBConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// HasDB reports whether enough DB_* values are set to reach postgres.
func (c Config) HasDB() bool {
	return c.DBUsername != "" && c.DBHost != "" && c.DBName != ""
}
