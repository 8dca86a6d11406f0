package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/internal/database"
	"catalog-sync/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository defines the interface for category document access
type CategoryRepository interface {
	Insert(ctx context.Context, category *domain.Category) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	FindAll(ctx context.Context) ([]*domain.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Category, error)
}

type categoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{coll: db.Collection(database.CategoriesCollection)}
}

// Insert persists a new category document and returns the assigned id
func (r *categoryRepository) Insert(ctx context.Context, category *domain.Category) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, bson.M{"name": category.Name})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert category: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return id, nil
}

// FindByID retrieves a category by its object id
func (r *categoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// FindAll retrieves every category document in the collection
func (r *categoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []*domain.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

// FindByIDs retrieves the categories matching any of the given ids in
// one batch lookup. Ids with no matching document are simply absent
// from the result; that is not an error.
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Category, error) {
	if len(ids) == 0 {
		return []*domain.Category{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories by ids: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []*domain.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}
