package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// Environment names accepted by ServerConfig.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Environment controls how much detail internal errors expose to clients.
	Environment     string `mapstructure:"environment"       validate:"required,oneof=development production test"`
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"    validate:"gt=0"`
	LogHealthChecks bool   `mapstructure:"log_health_checks"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
	// ClockSkew is the leeway applied to exp/iat checks.
	ClockSkew  time.Duration `mapstructure:"clock_skew"  validate:"gte=0"`
	BcryptCost int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// AdminConfig controls seeding of the default administrator account.
type AdminConfig struct {
	SeedDefault bool   `mapstructure:"seed_default"`
	Email       string `mapstructure:"email"        validate:"omitempty,email"`
	Password    string `mapstructure:"password"     validate:"omitempty,min=6,max=72"`
}
