package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion      string `yaml:"aws_region"`
	DynamoDBTable  string `yaml:"dynamodb_table"`
	ParentIndex    string `yaml:"parent_index"` // GSI1 - entities by parent
	EventBusName   string `yaml:"event_bus_name"`
	EventSource    string `yaml:"event_source"`
	DynamoEndpoint string `yaml:"dynamodb_endpoint"` // local DynamoDB for development

	// Lambda configuration
	IsLambda           bool   `yaml:"is_lambda"`
	LambdaFunctionName string `yaml:"-"`

	// Resilience
	BreakerMaxFailures int `yaml:"breaker_max_failures"`
	BreakerTimeoutSecs int `yaml:"breaker_timeout_seconds"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Feature flags
	EnableMetrics  bool     `yaml:"enable_metrics"`
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoadConfig loads configuration from environment variables, then applies
// the YAML file named by CONFIG_FILE on top when it is set.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:  getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "funder")),
		ParentIndex:    getEnv("PARENT_INDEX_NAME", "ParentIndex"),
		EventBusName:   getEnv("EVENT_BUS_NAME", "funder-events"),
		EventSource:    getEnv("EVENT_SOURCE", "funder.entities"),
		DynamoEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),

		// Lambda configuration
		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		BreakerMaxFailures: getEnvInt("BREAKER_MAX_FAILURES", 5),
		BreakerTimeoutSecs: getEnvInt("BREAKER_TIMEOUT_SECONDS", 30),

		// Logging and features
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		EnableMetrics:  getEnvBool("ENABLE_METRICS", true),
		EnableCORS:     getEnvBool("ENABLE_CORS", true),
		AllowedOrigins: []string{"*"},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// LoadFile overlays the YAML file at path. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.BreakerMaxFailures <= 0 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be positive")
	}
	if c.Environment == "production" {
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
		if c.DynamoEndpoint != "" {
			return fmt.Errorf("DYNAMODB_ENDPOINT must not be set in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
