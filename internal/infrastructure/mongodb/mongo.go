package mongodb

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig chứa thông tin kết nối MongoDB
type MongoConfig struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// MongoDB quản lý client + database handle.
// Client an toàn cho concurrent use, tạo 1 lần cho cả app.
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	Config *MongoConfig
}

func NewMongoDB(config *MongoConfig) *MongoDB {
	return &MongoDB{Config: config}
}

// Connect thử kết nối với exponential backoff, giống PostgresDB.connectWithRetry.
// delay = RetryDelay * 2^(attempt-1)
func (m *MongoDB) Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(m.Config.URI).
		SetConnectTimeout(m.Config.ConnectTimeout).
		SetServerSelectionTimeout(m.Config.ConnectTimeout)
	if m.Config.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(m.Config.MaxPoolSize)
	}

	maxRetries := m.Config.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("[MONGO] connection attempt", map[string]interface{}{
			"attempt": attempt,
			"max":     maxRetries,
		})

		client, err := mongo.Connect(ctx, opts)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, m.Config.ConnectTimeout)
			err = client.Ping(pingCtx, readpref.Primary())
			cancel()
			if err == nil {
				m.Client = client
				m.DB = client.Database(m.Config.Database)
				logger.Info("[MONGO] connected", map[string]interface{}{
					"database": m.Config.Database,
				})
				return nil
			}
			_ = client.Disconnect(context.Background())
		}
		lastErr = err

		if attempt < maxRetries {
			delay := m.Config.RetryDelay * time.Duration(1<<uint(attempt-1))
			logger.Warn("[MONGO] connection failed, retrying", map[string]interface{}{
				"error": err.Error(),
				"delay": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("mongo connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect to mongo after %d attempts: %w", maxRetries, lastErr)
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Client.Ping(healthCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
