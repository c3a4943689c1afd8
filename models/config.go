package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Redis window cache, disabled when RedisAddr is empty
	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisPassword    string        `mapstructure:"redis_password"`
	RedisDB          int           `mapstructure:"redis_db"`
	CalendarCacheTTL time.Duration `mapstructure:"calendar_cache_ttl"`

	// RabbitMQ reschedule notifications, disabled when RabbitMQURL is empty
	RabbitMQURL        string        `mapstructure:"rabbitmq_url"`
	RescheduleExchange string        `mapstructure:"reschedule_exchange"`
	PublishTimeout     time.Duration `mapstructure:"publish_timeout"`

	// Scheduling
	CompanyTimezone    string        `mapstructure:"company_timezone"`
	RepositionDebounce time.Duration `mapstructure:"reposition_debounce"`
	ScheduleStartHour  int           `mapstructure:"schedule_start_hour"`
	ScheduleEndHour    int           `mapstructure:"schedule_end_hour"`

	// Worker
	WorkerCronSchedule string `mapstructure:"worker_cron_schedule"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`
}

// Location resolves CompanyTimezone, falling back to time.Local when unset or unknown.
func (c *Config) Location() *time.Location {
	if c == nil || c.CompanyTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.CompanyTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}
