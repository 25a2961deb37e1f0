package config

import (
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/internal/infrastructure/mongodb"
)

// PostgresDBConfig chuyển DatabaseConfig sang database.DBConfig cho pgxpool
func (c *Config) PostgresDBConfig() *database.DBConfig {
	d := c.Database
	return &database.DBConfig{
		Host:              d.Host,
		Port:              d.Port,
		Username:          d.User,
		Password:          d.Password,
		DBName:            d.Name,
		SSLMode:           d.SSLMode,
		MaxConns:          int32(d.MaxConns),
		MinConns:          int32(d.MinConns),
		MaxConnLifetime:   d.MaxConnLifetime,
		MaxConnIdleTime:   d.MaxConnIdleTime,
		HealthCheckPeriod: d.HealthCheckPeriod,
		MaxRetries:        d.MaxRetries,
		RetryDelay:        d.RetryDelay,
		ConnectTimeout:    d.ConnectTimeout,
	}
}

func (c *Config) MongoDBConfig() *mongodb.MongoConfig {
	m := c.Mongo
	maxPool := uint64(0)
	if m.MaxPoolSize > 0 {
		maxPool = uint64(m.MaxPoolSize)
	}
	return &mongodb.MongoConfig{
		URI:            m.URI,
		Database:       m.Database,
		MaxPoolSize:    maxPool,
		ConnectTimeout: m.ConnectTimeout,
		MaxRetries:     m.MaxRetries,
		RetryDelay:     m.RetryDelay,
	}
}
