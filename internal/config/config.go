package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Queue     QueueConfig
	SMS       SMSConfig
	Auth      AuthConfig
	Superuser SuperuserConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN builds the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// QueueConfig selects the notification transport. An empty URL means the
// in-memory queue with the subscriber running inside the API process.
type QueueConfig struct {
	URL string
}

type SMSConfig struct {
	Username string
	APIKey   string
	BaseURL  string
	Sender   string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type SuperuserConfig struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "savannah_orders")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AT_USERNAME", "sandbox")
	viper.SetDefault("AT_API_KEY", "")
	viper.SetDefault("AT_BASE_URL", "https://api.africastalking.com")
	viper.SetDefault("AT_SENDER", "")
	viper.SetDefault("JWT_SECRET", "insecure-dev-secret")
	viper.SetDefault("TOKEN_TTL", "10h")
	viper.SetDefault("SUPERUSER_USERNAME", "admin")
	viper.SetDefault("SUPERUSER_PASSWORD", "admin")
	viper.SetDefault("SUPERUSER_EMAIL", "admin@example.com")
	viper.SetDefault("SUPERUSER_FIRST_NAME", "Admin")
	viper.SetDefault("SUPERUSER_LAST_NAME", "User")
	viper.SetDefault("LOG_LEVEL", "info")

	tokenTTL, err := time.ParseDuration(viper.GetString("TOKEN_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetInt("DB_PORT"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			Name:         viper.GetString("DB_NAME"),
			SSLMode:      viper.GetString("DB_SSLMODE"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Queue: QueueConfig{
			URL: viper.GetString("AMQP_URL"),
		},
		SMS: SMSConfig{
			Username: viper.GetString("AT_USERNAME"),
			APIKey:   viper.GetString("AT_API_KEY"),
			BaseURL:  viper.GetString("AT_BASE_URL"),
			Sender:   viper.GetString("AT_SENDER"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		Superuser: SuperuserConfig{
			Username:  viper.GetString("SUPERUSER_USERNAME"),
			Password:  viper.GetString("SUPERUSER_PASSWORD"),
			Email:     viper.GetString("SUPERUSER_EMAIL"),
			FirstName: viper.GetString("SUPERUSER_FIRST_NAME"),
			LastName:  viper.GetString("SUPERUSER_LAST_NAME"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
