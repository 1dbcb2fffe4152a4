package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Export    ExportConfig
	RateLimit RateLimitConfig
	Providers ProvidersConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_automations"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration. An empty Addr disables the shared rate limiter.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds the service token settings guarding the trigger API
type JWTConfig struct {
	ServiceSecret string        `envconfig:"JWT_SERVICE_SECRET"`
	Issuer        string        `envconfig:"JWT_ISSUER" default:"meeting-automations"`
	TokenExpiry   time.Duration `envconfig:"JWT_TOKEN_EXPIRY" default:"720h"`
}

// ExportConfig tunes the export dispatcher
type ExportConfig struct {
	Concurrency     int           `envconfig:"EXPORT_CONCURRENCY" default:"1"`
	StepTimeout     time.Duration `envconfig:"EXPORT_STEP_TIMEOUT" default:"30s"`
	MaxRetries      uint64        `envconfig:"EXPORT_MAX_RETRIES" default:"3"`
	RetryInitial    time.Duration `envconfig:"EXPORT_RETRY_INITIAL" default:"500ms"`
	RetryMaxElapsed time.Duration `envconfig:"EXPORT_RETRY_MAX_ELAPSED" default:"20s"`
	Timezone        string        `envconfig:"EXPORT_TIMEZONE" default:"UTC"`
	RefreshSkew     time.Duration `envconfig:"EXPORT_REFRESH_SKEW" default:"5m"`
}

// RateLimitConfig holds per-provider request rates, keyed by step type
type RateLimitConfig struct {
	RPS   map[string]float64 `envconfig:"RATE_LIMIT_RPS" default:"notion:3,slack:1,hubspot:10,linear:5,monday:5,salesforce:10"`
	Burst map[string]int     `envconfig:"RATE_LIMIT_BURST" default:"notion:3,slack:3,hubspot:10,linear:5,monday:5,salesforce:10"`
}

// ProvidersConfig holds provider endpoints and OAuth clients
type ProvidersConfig struct {
	Notion     NotionConfig
	Slack      SlackConfig
	HubSpot    HubSpotConfig
	Linear     LinearConfig
	Monday     MondayConfig
	Salesforce SalesforceConfig
}

// NotionConfig holds Notion API settings
type NotionConfig struct {
	BaseURL string `envconfig:"NOTION_API_URL" default:"https://api.notion.com"`
	Version string `envconfig:"NOTION_API_VERSION" default:"2022-06-28"`
}

// SlackConfig holds Slack Web API settings
type SlackConfig struct {
	APIURL string `envconfig:"SLACK_API_URL" default:"https://slack.com/api/"`
}

// HubSpotConfig holds HubSpot API and OAuth client settings
type HubSpotConfig struct {
	BaseURL      string `envconfig:"HUBSPOT_API_URL" default:"https://api.hubapi.com"`
	TokenURL     string `envconfig:"HUBSPOT_TOKEN_URL" default:"https://api.hubapi.com/oauth/v1/token"`
	ClientID     string `envconfig:"HUBSPOT_CLIENT_ID"`
	ClientSecret string `envconfig:"HUBSPOT_CLIENT_SECRET"`
}

// LinearConfig holds Linear GraphQL settings
type LinearConfig struct {
	URL string `envconfig:"LINEAR_API_URL" default:"https://api.linear.app/graphql"`
}

// MondayConfig holds Monday.com GraphQL settings
type MondayConfig struct {
	URL        string `envconfig:"MONDAY_API_URL" default:"https://api.monday.com/v2"`
	APIVersion string `envconfig:"MONDAY_API_VERSION" default:"2024-01"`
}

// SalesforceConfig holds Salesforce REST settings
type SalesforceConfig struct {
	APIVersion string `envconfig:"SALESFORCE_API_VERSION" default:"v59.0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.ServiceSecret == "" {
		return fmt.Errorf("JWT_SERVICE_SECRET is required")
	}
	if c.Providers.HubSpot.ClientID == "" || c.Providers.HubSpot.ClientSecret == "" {
		return fmt.Errorf("HUBSPOT_CLIENT_ID and HUBSPOT_CLIENT_SECRET are required for token refresh")
	}
	if c.Export.Concurrency < 1 {
		return fmt.Errorf("EXPORT_CONCURRENCY must be at least 1")
	}
	if _, err := time.LoadLocation(c.Export.Timezone); err != nil {
		return fmt.Errorf("invalid EXPORT_TIMEZONE %q: %w", c.Export.Timezone, err)
	}
	return nil
}

// Location returns the timezone used to format meeting timestamps
func (c *ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
