package config

import (
	"github.com/spf13/viper"
)

// Config holds everything the process reads from its environment. It is
// loaded once in main and passed down explicitly; nothing else touches viper.
type Config struct {
	AppPort     string
	DatabaseURL string
	UploadDir   string
	JWTSecret   string
	RabbitMQURL string
}

// Load reads configuration from environment variables via Viper, applying
// defaults suitable for local development.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "host=localhost user=postgres password=password dbname=ternak port=5432 sslmode=disable")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv() // Load environment variables

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		UploadDir:   viper.GetString("UPLOAD_DIR"),
		JWTSecret:   viper.GetString("JWT_SECRET"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
	}
}
