// Package database owns the MongoDB connection lifecycle. The service
// handle is constructed once at startup and injected into every
// component that needs persistence; it is closed during graceful
// shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
)

// Service wraps the Mongo client and the logical database it serves.
type Service struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against the configured URI and verifies the
// connection with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Service{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Database returns the logical database handle.
func (s *Service) Database() *mongo.Database {
	return s.db
}

// Health reports connectivity status for the health endpoint.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{
		"database": s.db.Name(),
	}

	start := time.Now()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
		return status
	}

	status["status"] = "up"
	status["ping"] = time.Since(start).String()
	return status
}

// Close disconnects the underlying client.
func (s *Service) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
