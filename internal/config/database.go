package config

import (
	"time"

	"productstore-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig builds the pool configuration for the database layer
// from the already-loaded application config.
func (c *Config) LoadDatabaseConfig() *database.DBConfig {
	return &database.DBConfig{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.Database,
		SSLMode:  c.Database.SSLMode,

		MaxConns:          int32(c.Database.MaxConns),
		MinConns:          int32(c.Database.MinConns),
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,

		MaxRetries:     4,
		RetryDelay:     time.Second,
		ConnectTimeout: 5 * time.Second,
	}
}
