package utils

import (
	"encoding/json"
	"fieldfuze-scheduler/models"

	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

var defaultConfigPaths = []string{".", "./configs", "../", "../../"}

// nestedKeys maps the sections of config.json onto the flat keys of models.Config
var nestedKeys = map[string]string{
	"app.name":                  "app_name",
	"app.version":               "app_version",
	"app.env":                   "app_env",
	"app.host":                  "app_host",
	"app.port":                  "app_port",
	"jwt.secret":                "jwt_secret",
	"jwt.expires_in":            "jwt_expires_in",
	"aws.region":                "aws_region",
	"aws.access_key_id":         "aws_access_key_id",
	"aws.secret_access_key":     "aws_secret_access_key",
	"aws.dynamodb_endpoint":     "dynamodb_endpoint",
	"aws.dynamodb_table_prefix": "dynamodb_table_prefix",
	"redis.addr":                "redis_addr",
	"redis.password":            "redis_password",
	"redis.db":                  "redis_db",
	"redis.ttl":                 "calendar_cache_ttl",
	"rabbitmq.url":              "rabbitmq_url",
	"rabbitmq.exchange":         "reschedule_exchange",
	"rabbitmq.publish_timeout":  "publish_timeout",
	"schedule.timezone":         "company_timezone",
	"schedule.debounce":         "reposition_debounce",
	"schedule.start_hour":       "schedule_start_hour",
	"schedule.end_hour":         "schedule_end_hour",
	"worker.cron_schedule":      "worker_cron_schedule",
	"logging.level":             "log_level",
	"logging.format":            "log_format",
	"cors.origins":              "cors_origins",
}

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	return LoadFrom(defaultConfigPaths...)
}

// LoadFrom reads config.json from the first of paths that has one, then
// applies environment variables over it
func LoadFrom(paths ...string) (*models.Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	flattenNestedConfig(v)

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "FieldFuze Scheduler")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	// JWT defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expires_in", 30*time.Minute)

	// AWS defaults
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	// Redis defaults, empty address disables the cache
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("calendar_cache_ttl", 5*time.Minute)

	// RabbitMQ defaults, empty URL disables notifications
	v.SetDefault("rabbitmq_url", "")
	v.SetDefault("reschedule_exchange", "fieldfuze.schedule")
	v.SetDefault("publish_timeout", 5*time.Second)

	// Scheduling defaults
	v.SetDefault("company_timezone", "UTC")
	v.SetDefault("reposition_debounce", 400*time.Millisecond)
	v.SetDefault("schedule_start_hour", 7)
	v.SetDefault("schedule_end_hour", 20)

	// Worker defaults
	v.SetDefault("worker_cron_schedule", "0 */5 * * * *")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// CORS defaults
	v.SetDefault("cors_origins", []string{"*"})

	// Base Path default
	v.SetDefault("basePath", "/api/v1")

	// setup tables to create
	v.SetDefault("tables", []string{"appointments", "technicians"})
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == defaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if _, err := time.LoadLocation(c.CompanyTimezone); err != nil {
		return fmt.Errorf("invalid company_timezone %q: %w", c.CompanyTimezone, err)
	}

	if c.ScheduleStartHour < 0 || c.ScheduleEndHour > 24 || c.ScheduleStartHour >= c.ScheduleEndHour {
		return fmt.Errorf("invalid schedule hours %d-%d", c.ScheduleStartHour, c.ScheduleEndHour)
	}

	if c.RepositionDebounce < 0 {
		return fmt.Errorf("reposition_debounce must not be negative")
	}

	// In production, we should have AWS credentials set
	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// flattenNestedConfig copies nested config.json sections onto flat keys.
// Environment variables keep precedence over the file.
func flattenNestedConfig(v *viper.Viper) {
	for nested, flat := range nestedKeys {
		if _, ok := os.LookupEnv(strings.ToUpper(flat)); ok {
			continue
		}
		if v.IsSet(nested) {
			v.Set(flat, v.Get(nested))
		}
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ") // 4 spaces indent
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}
