package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureIndexes creates the indexes the read paths rely on. Index
// creation is idempotent, so this runs unconditionally at startup.
func (s *Service) EnsureIndexes(ctx context.Context, logger *zap.Logger) error {
	// categoryIds backs the $in batch lookup of the read-time join.
	products := []mongo.IndexModel{
		{Keys: bson.D{{Key: "categoryIds", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	names, err := s.db.Collection(ProductsCollection).Indexes().CreateMany(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	logger.Info("Product indexes ensured", zap.Strings("indexes", names))

	categories := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	names, err = s.db.Collection(CategoriesCollection).Indexes().CreateMany(ctx, categories)
	if err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}
	logger.Info("Category indexes ensured", zap.Strings("indexes", names))

	return nil
}
