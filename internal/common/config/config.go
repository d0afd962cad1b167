// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Engine       EngineConfig       `mapstructure:"engine"`
	Capabilities CapabilitiesConfig `mapstructure:"capabilities"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EngineConfig holds the tuning knobs of the retrieval core.
type EngineConfig struct {
	DefaultLimit    int `mapstructure:"default_limit"`     // per-domain cap for plain queries
	ListingLimit    int `mapstructure:"listing_limit"`     // per-domain cap for listing queries
	CountingLimit   int `mapstructure:"counting_limit"`    // per-domain cap for counting queries
	FetchCap        int `mapstructure:"fetch_cap"`         // hard cap on rows read per store call
	ContextBudget   int `mapstructure:"context_budget"`    // soft size budget for the rendered text, bytes
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"` // context cache TTL, 0 disables
	ForecastDays    int `mapstructure:"forecast_days"`     // default cash-flow horizon
	RatiosPeriod    int `mapstructure:"ratios_period"`     // default ratio window, days
}

// CapabilitiesConfig flags which optional data domains exist in this
// deployment. Resolved once at startup and injected; never probed per call.
type CapabilitiesConfig struct {
	Opportunities bool `mapstructure:"opportunities"`
	Pipelines     bool `mapstructure:"pipelines"`
	Projects      bool `mapstructure:"projects"`
	Tasks         bool `mapstructure:"tasks"`
	Vacations     bool `mapstructure:"vacations"`
	Expenses      bool `mapstructure:"expenses"`
	Transactions  bool `mapstructure:"transactions"`
	TimeEntries   bool `mapstructure:"time_entries"`
	Invoices      bool `mapstructure:"invoices"`
	Quotes        bool `mapstructure:"quotes"`
	Calendar      bool `mapstructure:"calendar"`
	Employees     bool `mapstructure:"employees"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
