// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Completion CompletionConfig `mapstructure:"completion"`
	Warehouse  WarehouseConfig  `mapstructure:"warehouse"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Invoice    InvoiceConfig    `mapstructure:"invoice"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	MetricsPort     int    `mapstructure:"metrics_port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// CompletionConfig holds settings for the chat completion API used by the
// synthesizer, summarizer, and conversational renderer.
type CompletionConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	Deployment     string `mapstructure:"deployment"`
	APIVersion     string `mapstructure:"api_version"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WarehouseConfig holds the analytics warehouse connection settings.
// A fresh connection is opened per statement, so pool sizes stay small.
type WarehouseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	Schema         string `mapstructure:"schema"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"sslmode"`
	QueryTimeout   int    `mapstructure:"query_timeout"`   // milliseconds
	ConnectTimeout int    `mapstructure:"connect_timeout"` // milliseconds
}

// GetDSN returns the warehouse connection string
func (w WarehouseConfig) GetDSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		w.Host, w.Port, w.User, w.Password, w.Database, w.SSLMode,
	)
	if w.Schema != "" {
		dsn += fmt.Sprintf(" search_path=%s", w.Schema)
	}
	return dsn
}

type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	SummaryTTL int    `mapstructure:"summary_ttl"` // milliseconds
}

// InvoiceConfig holds settings for the invoice collaborator service.
type InvoiceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
