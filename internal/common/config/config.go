package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultJWTSecret is the signing secret used when JWT_SECRET is unset. It is
// only accepted in development.
const DefaultJWTSecret = "change-me-in-production"

// ErrInsecureJWTSecret is returned when a non-development environment runs
// with an empty or default signing secret.
var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value outside development")

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	AccessTTLH int
}

// Validate rejects the built-in secret unless appEnv is development.
func (c JWTConfig) Validate(appEnv string) error {
	if appEnv == "development" {
		return nil
	}
	if c.Secret == "" || c.Secret == DefaultJWTSecret {
		return ErrInsecureJWTSecret
	}
	return nil
}

// KafkaConfig holds broker settings. An empty broker list disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RedisConfig holds cache settings. An empty address disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads an optional .env file and binds environment variables under the
// given prefix (e.g. RENTAL_DB_HOST).
func Load(prefix string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL_HOURS", 24*7)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ORIGINS", "*")

	return v, nil
}

// GetServicePort returns the listen address for the HTTP server.
func GetServicePort(v *viper.Viper, key string) string {
	port := v.GetString(key)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// GetAppEnv returns the application environment name.
func GetAppEnv(v *viper.Viper) string {
	return strings.ToLower(v.GetString("APP_ENV"))
}

// LoadDatabaseConfig reads database settings; dbNameKey selects the database name variable.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) DatabaseConfig {
	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString(dbNameKey),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

// LoadJWTConfig reads token settings.
func LoadJWTConfig(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		AccessTTLH: v.GetInt("JWT_ACCESS_TTL_HOURS"),
	}
}

// LoadKafkaConfig reads broker settings from a comma separated list.
func LoadKafkaConfig(v *viper.Viper, topicKey string) KafkaConfig {
	return KafkaConfig{
		Brokers: SplitList(v.GetString("KAFKA_BROKERS")),
		Topic:   v.GetString(topicKey),
	}
}

// LoadRedisConfig reads cache settings.
func LoadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
