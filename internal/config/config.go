package config

import (
	"fmt"

	"github.com/outdoor-rental/service-rental/internal/common/config"
)

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	DBConfig      config.DatabaseConfig
	JWTConfig     config.JWTConfig
	KafkaConfig   config.KafkaConfig
	KafkaGroupID  string
	RedisConfig   config.RedisConfig
	CORSOrigins   []string
	MigrationsDir string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads configuration from environment variables prefixed with RENTAL_.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("RENTAL")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("KAFKA_TOPIC", "rental.booking.events")
	v.SetDefault("KAFKA_GROUP_ID", "service-rental-activity")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	appEnv := config.GetAppEnv(v)
	jwtConfig := config.LoadJWTConfig(v)
	if err := jwtConfig.Validate(appEnv); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", appEnv, err)
	}

	return &ServiceConfig{
		Port:          config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:        appEnv,
		DBConfig:      config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:     jwtConfig,
		KafkaConfig:   config.LoadKafkaConfig(v, "KAFKA_TOPIC"),
		KafkaGroupID:  v.GetString("KAFKA_GROUP_ID"),
		RedisConfig:   config.LoadRedisConfig(v),
		CORSOrigins:   config.SplitList(v.GetString("CORS_ORIGINS")),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		AdminName:     v.GetString("ADMIN_NAME"),
	}, nil
}
