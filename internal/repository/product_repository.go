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
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product document access
type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	Replace(ctx context.Context, id primitive.ObjectID, product *domain.Product) (bool, error)
	UpdatePartial(ctx context.Context, id primitive.ObjectID, patch domain.ProductPatch) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{coll: db.Collection(database.ProductsCollection)}
}

// Insert persists a new product document. Identifier assignment belongs
// to the store: the caller's ID field is ignored and the assigned id is
// returned.
func (r *productRepository) Insert(ctx context.Context, product *domain.Product) (primitive.ObjectID, error) {
	doc := bson.M{
		"name":        product.Name,
		"about":       product.About,
		"price":       product.Price,
		"categoryIds": product.CategoryIDs,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert product: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return id, nil
}

// FindByID retrieves a product by its object id
func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindAll retrieves every product document in the collection
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Replace overwrites all mutable fields of an existing product. It
// reports false, not an error, when no document matched so the caller
// can translate that into a not-found response.
func (r *productRepository) Replace(ctx context.Context, id primitive.ObjectID, product *domain.Product) (bool, error) {
	doc := bson.M{
		"name":        product.Name,
		"about":       product.About,
		"price":       product.Price,
		"categoryIds": product.CategoryIDs,
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return false, fmt.Errorf("failed to replace product: %w", err)
	}

	return res.MatchedCount > 0, nil
}

// UpdatePartial applies only the fields present in the patch; untouched
// fields keep their stored values.
func (r *productRepository) UpdatePartial(ctx context.Context, id primitive.ObjectID, patch domain.ProductPatch) (bool, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.About != nil {
		set["about"] = *patch.About
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.CategoryIDs != nil {
		set["categoryIds"] = *patch.CategoryIDs
	}
	if len(set) == 0 {
		return false, errors.New("empty product patch")
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return res.MatchedCount > 0, nil
}

// Delete removes a product document, reporting whether one existed
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return res.DeletedCount > 0, nil
}
