package config

import (
	"github.com/spf13/viper"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// NewDatabaseConfig creates a new database configuration using Viper
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:       viper.GetString(DBDriver),
		URL:          viper.GetString(DBURL),
		MaxOpenConns: viper.GetInt(DBMaxOpenConns),
		MaxIdleConns: viper.GetInt(DBMaxIdleConns),
	}
}

// GetConnectionString returns the PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return c.URL
}

// UsesPostgres reports whether documents live in PostgreSQL
func (c *DatabaseConfig) UsesPostgres() bool {
	return c.Driver == DriverPostgres
}
