package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the gateway. It is assembled once at
// startup and treated as read-only afterwards; handlers receive it explicitly
// rather than reading the environment ad hoc.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Admin   AdminConfig   `yaml:"admin"`
	Shopify ShopifyConfig `yaml:"shopify"`
	Zendesk ZendeskConfig `yaml:"zendesk"`
	SMTP    SMTPConfig    `yaml:"smtp"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GetHost returns the configured host, defaulting to all interfaces
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "0.0.0.0"
	}
	return s.Host
}

// GetPort returns the configured port, defaulting to 8080
func (s ServerConfig) GetPort() int {
	if s.Port == 0 {
		return 8080
	}
	return s.Port
}

// AdminConfig holds the admin and store-owner credential pairs plus the
// token signing secret.
type AdminConfig struct {
	AdminEmail         string `yaml:"admin_email"`
	AdminPassword      string `yaml:"admin_password"`
	StoreOwnerEmail    string `yaml:"store_owner_email"`
	StoreOwnerPassword string `yaml:"store_owner_password"`
	JWTSecret          string `yaml:"jwt_secret"`
}

// Configured reports whether the mandatory admin settings are present.
// The store-owner pair is optional.
func (a AdminConfig) Configured() bool {
	return a.AdminEmail != "" && a.AdminPassword != "" && a.JWTSecret != ""
}

// ShopifyConfig holds Shopify Admin API credentials
type ShopifyConfig struct {
	StoreDomain    string `yaml:"store_domain"`
	AccessToken    string `yaml:"access_token"`
	RESTVersion    string `yaml:"rest_version"`
	GraphQLVersion string `yaml:"graphql_version"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Configured reports whether the Shopify credentials are present.
func (s ShopifyConfig) Configured() bool {
	return s.StoreDomain != "" && s.AccessToken != ""
}

// GetRESTVersion returns the metaobjects API version
func (s ShopifyConfig) GetRESTVersion() string {
	if s.RESTVersion == "" {
		return "2024-01"
	}
	return s.RESTVersion
}

// GetGraphQLVersion returns the GraphQL API version
func (s ShopifyConfig) GetGraphQLVersion() string {
	if s.GraphQLVersion == "" {
		return "2024-10"
	}
	return s.GraphQLVersion
}

// Timeout returns the per-call timeout for Shopify requests
func (s ShopifyConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ZendeskConfig holds Zendesk API credentials
type ZendeskConfig struct {
	Email          string `yaml:"email"`
	APIToken       string `yaml:"api_token"`
	Subdomain      string `yaml:"subdomain"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Configured reports whether the Zendesk credentials are present.
func (z ZendeskConfig) Configured() bool {
	return z.Email != "" && z.APIToken != ""
}

// GetSubdomain returns the Zendesk subdomain with the account default
func (z ZendeskConfig) GetSubdomain() string {
	if z.Subdomain == "" {
		return "highsierravendingcoffee"
	}
	return z.Subdomain
}

// Timeout returns the per-call timeout for Zendesk requests
func (z ZendeskConfig) Timeout() time.Duration {
	if z.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(z.TimeoutSeconds) * time.Second
}

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	SupportEmail   string `yaml:"support_email"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Configured reports whether the SMTP credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

// GetPort returns the SMTP port, defaulting to 587 (submission)
func (s SMTPConfig) GetPort() int {
	if s.Port == 0 {
		return 587
	}
	return s.Port
}

// GetSupportEmail returns the fixed support destination address
func (s SMTPConfig) GetSupportEmail() string {
	if s.SupportEmail == "" {
		return "contact@highsierravendingcoffee.com"
	}
	return s.SupportEmail
}

// Timeout returns the dial/send timeout for SMTP
func (s SMTPConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Load reads configuration from a YAML file. A missing file is not an
// error; every setting can come from the environment instead.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Admin.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.AdminPassword = v
	}
	if v := os.Getenv("STORE_OWNER_EMAIL"); v != "" {
		cfg.Admin.StoreOwnerEmail = v
	}
	if v := os.Getenv("STORE_OWNER_PASSWORD"); v != "" {
		cfg.Admin.StoreOwnerPassword = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}

	if v := os.Getenv("SHOPIFY_STORE_DOMAIN"); v != "" {
		cfg.Shopify.StoreDomain = v
	}
	if v := os.Getenv("SHOPIFY_ADMIN_ACCESS_TOKEN"); v != "" {
		cfg.Shopify.AccessToken = v
	}

	if v := os.Getenv("ZENDESK_EMAIL"); v != "" {
		cfg.Zendesk.Email = v
	}
	if v := os.Getenv("ZENDESK_API_TOKEN"); v != "" {
		cfg.Zendesk.APIToken = v
	}
	if v := os.Getenv("ZENDESK_SUBDOMAIN"); v != "" {
		cfg.Zendesk.Subdomain = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.SMTP.User = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("SUPPORT_EMAIL"); v != "" {
		cfg.SMTP.SupportEmail = v
	}

	return cfg, nil
}
