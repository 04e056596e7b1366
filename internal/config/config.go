package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the keyword/value connection string for the database.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// connection URL used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// KafkaConfig holds Kafka broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ServiceConfig holds all configuration for the venue booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	StatusInterval time.Duration
	DBConfig       DatabaseConfig
	JWTConfig      JWTConfig
	KafkaConfig    KafkaConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables,
// falling back to development defaults for everything except the JWT secret.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("service_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("status_refresh_interval", "1m")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "venue_booking")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "venueworks.")
	v.SetDefault("jwt_access_ttl", "15m")
	v.SetDefault("jwt_refresh_ttl", "168h")

	secret := v.GetString("jwt_secret")
	if secret == "" {
		return nil, fmt.Errorf("BOOKING_JWT_SECRET is required")
	}

	interval := v.GetDuration("status_refresh_interval")
	if interval <= 0 {
		return nil, fmt.Errorf("status refresh interval must be positive, got %q", v.GetString("status_refresh_interval"))
	}

	port := v.GetString("service_port")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:           port,
		AppEnv:         v.GetString("app_env"),
		StatusInterval: interval,
		DBConfig: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		JWTConfig: JWTConfig{
			Secret:     secret,
			AccessTTL:  v.GetDuration("jwt_access_ttl"),
			RefreshTTL: v.GetDuration("jwt_refresh_ttl"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("kafka_brokers"), ","),
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
	}, nil
}
