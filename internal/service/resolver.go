package service

import (
	"context"

	"catalog-sync/internal/domain"
	"catalog-sync/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipResolver performs the read-time join from a product's
// categoryIds to full category documents. The store enforces no
// referential integrity, so ids referencing no stored category are
// silently dropped from the resolved list; resolution never fails on
// their account. This is the deliberate trade-off of join-on-read: no
// foreign key constraint, flexible reads.
type RelationshipResolver struct {
	categories repository.CategoryRepository
}

// NewRelationshipResolver creates a resolver over the category collection
func NewRelationshipResolver(categories repository.CategoryRepository) *RelationshipResolver {
	return &RelationshipResolver{categories: categories}
}

// ResolveOne joins a single product's categoryIds to category documents
func (r *RelationshipResolver) ResolveOne(ctx context.Context, product *domain.Product) (*domain.ResolvedProduct, error) {
	resolved, err := r.ResolveMany(ctx, []*domain.Product{product})
	if err != nil {
		return nil, err
	}
	return resolved[0], nil
}

// ResolveMany joins a set of products in a single batch lookup: the
// union of referenced ids is fetched once, then each product is
// projected against the result in its own categoryIds order.
func (r *RelationshipResolver) ResolveMany(ctx context.Context, products []*domain.Product) ([]*domain.ResolvedProduct, error) {
	union := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		for _, id := range p.CategoryIDs {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}

	matched, err := r.categories.FindByIDs(ctx, union)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*domain.Category, len(matched))
	for _, c := range matched {
		byID[c.ID] = c
	}

	resolved := make([]*domain.ResolvedProduct, 0, len(products))
	for _, p := range products {
		categories := []domain.Category{}
		for _, id := range p.CategoryIDs {
			if c, ok := byID[id]; ok {
				categories = append(categories, *c)
			}
		}
		resolved = append(resolved, &domain.ResolvedProduct{
			Product:    *p,
			Categories: categories,
		})
	}

	return resolved, nil
}
