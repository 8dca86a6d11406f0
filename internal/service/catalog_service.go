package service

import (
	"context"
	"errors"

	"catalog-sync/internal/domain"
	"catalog-sync/internal/identifier"
	"catalog-sync/internal/realtime"
	"catalog-sync/internal/repository"
)

var (
	// ErrEmptyPatch rejects a partial update that carries no fields.
	ErrEmptyPatch = errors.New("nothing to update")
)

// Broadcaster publishes mutation events to live subscribers. Publish is
// fire-and-forget and must only be called after the store has confirmed
// the mutation.
type Broadcaster interface {
	Publish(event realtime.Event)
}

// ProductInput is the validated full shape of a product, with category
// references still in their external string form.
type ProductInput struct {
	Name        string
	About       string
	Price       float64
	CategoryIDs []string
}

// ProductPatchInput is the validated partial shape: nil fields were
// absent from the request and stay untouched.
type ProductPatchInput struct {
	Name        *string
	About       *string
	Price       *float64
	CategoryIDs *[]string
}

// IsEmpty reports whether no field is present
func (p ProductPatchInput) IsEmpty() bool {
	return p.Name == nil && p.About == nil && p.Price == nil && p.CategoryIDs == nil
}

// CatalogService orchestrates every catalog operation: translate
// identifiers, persist, resolve relationships where the response needs
// them, then broadcast. Identifier decoding happens before any store
// access so malformed input never causes partial side effects, and
// broadcasting happens strictly after a confirmed write.
type CatalogService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.ResolvedProduct, error)
	ListProducts(ctx context.Context) ([]*domain.ResolvedProduct, error)
	GetProduct(ctx context.Context, id string) (*domain.ResolvedProduct, error)
	ReplaceProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	PatchProduct(ctx context.Context, id string, patch ProductPatchInput) (*domain.ResolvedProduct, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type catalogService struct {
	products    repository.ProductRepository
	categories  repository.CategoryRepository
	resolver    *RelationshipResolver
	broadcaster Broadcaster
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	broadcaster Broadcaster,
) CatalogService {
	return &catalogService{
		products:    products,
		categories:  categories,
		resolver:    NewRelationshipResolver(categories),
		broadcaster: broadcaster,
	}
}

// CreateProduct persists a new product and broadcasts a created event
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.ResolvedProduct, error) {
	categoryIDs, err := identifier.DecodeAll("categoryIds", input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		About:       input.About,
		Price:       input.Price,
		CategoryIDs: categoryIDs,
	}

	id, err := s.products.Insert(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id

	resolved, err := s.resolver.ResolveOne(ctx, product)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Publish(realtime.Event{Action: realtime.ActionCreated, Product: product})
	return resolved, nil
}

// ListProducts returns every product with its categories embedded
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.ResolvedProduct, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.resolver.ResolveMany(ctx, products)
}

// GetProduct returns one product with its categories embedded
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.ResolvedProduct, error) {
	oid, err := identifier.Decode("id", id)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	return s.resolver.ResolveOne(ctx, product)
}

// ReplaceProduct overwrites all fields of an existing product and
// broadcasts an updated event.
func (s *catalogService) ReplaceProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	oid, err := identifier.Decode("id", id)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := identifier.DecodeAll("categoryIds", input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          oid,
		Name:        input.Name,
		About:       input.About,
		Price:       input.Price,
		CategoryIDs: categoryIDs,
	}

	matched, err := s.products.Replace(ctx, oid, product)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, repository.ErrProductNotFound
	}

	s.broadcaster.Publish(realtime.Event{Action: realtime.ActionUpdated, Product: product})
	return product, nil
}

// PatchProduct applies a partial update, refetches the stored document
// and broadcasts a patched event carrying it.
func (s *catalogService) PatchProduct(ctx context.Context, id string, patch ProductPatchInput) (*domain.ResolvedProduct, error) {
	oid, err := identifier.Decode("id", id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	update := domain.ProductPatch{
		Name:  patch.Name,
		About: patch.About,
		Price: patch.Price,
	}
	if patch.CategoryIDs != nil {
		categoryIDs, err := identifier.DecodeAll("categoryIds", *patch.CategoryIDs)
		if err != nil {
			return nil, err
		}
		update.CategoryIDs = &categoryIDs
	}

	matched, err := s.products.UpdatePartial(ctx, oid, update)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, repository.ErrProductNotFound
	}

	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Publish(realtime.Event{Action: realtime.ActionPatched, Product: product})
	return s.resolver.ResolveOne(ctx, product)
}

// DeleteProduct removes a product and broadcasts a deleted event
// carrying the bare id.
func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	oid, err := identifier.Decode("id", id)
	if err != nil {
		return err
	}

	deleted, err := s.products.Delete(ctx, oid)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrProductNotFound
	}

	s.broadcaster.Publish(realtime.Event{Action: realtime.ActionDeleted, ProductID: identifier.Encode(oid)})
	return nil
}

// CreateCategory persists a new category
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{Name: name}

	id, err := s.categories.Insert(ctx, category)
	if err != nil {
		return nil, err
	}
	category.ID = id

	return category, nil
}

// ListCategories returns every raw category document
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.FindAll(ctx)
}
