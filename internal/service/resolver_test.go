package service

import (
	"context"
	"testing"

	"catalog-sync/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func storedCategory(repo *mockCategoryRepository, name string) *domain.Category {
	id, _ := repo.Insert(context.Background(), &domain.Category{Name: name})
	return &domain.Category{ID: id, Name: name}
}

func TestResolveOne_DropsUnmatchedIDsKeepsOrder(t *testing.T) {
	categories := newMockCategoryRepository()
	resolver := NewRelationshipResolver(categories)

	pizzas := storedCategory(categories, "pizzas")
	vegetarian := storedCategory(categories, "vegetarian")
	missing := primitive.NewObjectID()

	product := &domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        "margherita",
		CategoryIDs: []primitive.ObjectID{vegetarian.ID, missing, pizzas.ID},
	}

	resolved, err := resolver.ResolveOne(context.Background(), product)
	if err != nil {
		t.Fatalf("resolution must tolerate dangling references: %v", err)
	}

	if len(resolved.Categories) != 2 {
		t.Fatalf("expected 2 resolved categories, got %d", len(resolved.Categories))
	}
	// categoryIds order, with the dangling reference dropped.
	if resolved.Categories[0].ID != vegetarian.ID || resolved.Categories[1].ID != pizzas.ID {
		t.Errorf("categories out of order: %v", resolved.Categories)
	}
}

func TestResolveOne_EmptyCategoryIDs(t *testing.T) {
	resolver := NewRelationshipResolver(newMockCategoryRepository())

	product := &domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        "plain",
		CategoryIDs: []primitive.ObjectID{},
	}

	resolved, err := resolver.ResolveOne(context.Background(), product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Categories == nil {
		t.Fatal("categories must be an empty list, not nil")
	}
	if len(resolved.Categories) != 0 {
		t.Errorf("expected no categories, got %v", resolved.Categories)
	}
}

func TestResolveOne_DuplicateReferencesAreKept(t *testing.T) {
	categories := newMockCategoryRepository()
	resolver := NewRelationshipResolver(categories)

	pizzas := storedCategory(categories, "pizzas")

	product := &domain.Product{
		ID:          primitive.NewObjectID(),
		CategoryIDs: []primitive.ObjectID{pizzas.ID, pizzas.ID},
	}

	resolved, err := resolver.ResolveOne(context.Background(), product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved.Categories) != 2 {
		t.Errorf("duplicates are not deduplicated: got %d categories", len(resolved.Categories))
	}
}

func TestResolveMany_SingleBatchProjectsPerProduct(t *testing.T) {
	categories := newMockCategoryRepository()
	resolver := NewRelationshipResolver(categories)

	pizzas := storedCategory(categories, "pizzas")
	drinks := storedCategory(categories, "drinks")

	products := []*domain.Product{
		{ID: primitive.NewObjectID(), Name: "margherita", CategoryIDs: []primitive.ObjectID{pizzas.ID}},
		{ID: primitive.NewObjectID(), Name: "cola", CategoryIDs: []primitive.ObjectID{drinks.ID}},
		{ID: primitive.NewObjectID(), Name: "combo", CategoryIDs: []primitive.ObjectID{pizzas.ID, drinks.ID}},
		{ID: primitive.NewObjectID(), Name: "napkin", CategoryIDs: []primitive.ObjectID{}},
	}

	resolved, err := resolver.ResolveMany(context.Background(), products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 4 {
		t.Fatalf("expected 4 resolved products, got %d", len(resolved))
	}

	if len(resolved[0].Categories) != 1 || resolved[0].Categories[0].Name != "pizzas" {
		t.Errorf("margherita: %v", resolved[0].Categories)
	}
	if len(resolved[1].Categories) != 1 || resolved[1].Categories[0].Name != "drinks" {
		t.Errorf("cola: %v", resolved[1].Categories)
	}
	if len(resolved[2].Categories) != 2 ||
		resolved[2].Categories[0].Name != "pizzas" || resolved[2].Categories[1].Name != "drinks" {
		t.Errorf("combo: %v", resolved[2].Categories)
	}
	if resolved[3].Categories == nil || len(resolved[3].Categories) != 0 {
		t.Errorf("napkin: %v", resolved[3].Categories)
	}
}

func TestResolveMany_NoProducts(t *testing.T) {
	resolver := NewRelationshipResolver(newMockCategoryRepository())

	resolved, err := resolver.ResolveMany(context.Background(), []*domain.Product{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 0 {
		t.Errorf("expected empty result, got %v", resolved)
	}
}
