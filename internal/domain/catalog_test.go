package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolvedProduct_MarshalsFlattenedWithCategories(t *testing.T) {
	id := primitive.NewObjectID()
	categoryID := primitive.NewObjectID()

	resolved := ResolvedProduct{
		Product: Product{
			ID:          id,
			Name:        "margherita",
			About:       "tomato and mozzarella",
			Price:       9.5,
			CategoryIDs: []primitive.ObjectID{categoryID},
		},
		Categories: []Category{{ID: categoryID, Name: "pizzas"}},
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	// Embedded product fields are flattened, not nested under "Product".
	if decoded["_id"] != id.Hex() {
		t.Errorf("expected _id %q, got %v", id.Hex(), decoded["_id"])
	}
	if decoded["name"] != "margherita" {
		t.Errorf("expected name, got %v", decoded["name"])
	}
	if _, nested := decoded["Product"]; nested {
		t.Error("product fields must not be nested")
	}

	categories, ok := decoded["categories"].([]interface{})
	if !ok || len(categories) != 1 {
		t.Fatalf("expected one embedded category, got %v", decoded["categories"])
	}
}

func TestResolvedProduct_EmptyCategoriesMarshalAsEmptyList(t *testing.T) {
	resolved := ResolvedProduct{
		Product: Product{
			ID:          primitive.NewObjectID(),
			Name:        "plain",
			CategoryIDs: []primitive.ObjectID{},
		},
		Categories: []Category{},
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	if strings.Contains(string(payload), `"categories":null`) {
		t.Error(`categories must marshal as [], not null`)
	}
	if !strings.Contains(string(payload), `"categories":[]`) {
		t.Errorf("expected empty categories list in %s", payload)
	}
}

func TestProductPatch_IsEmpty(t *testing.T) {
	if !(ProductPatch{}).IsEmpty() {
		t.Error("zero patch must be empty")
	}

	name := "x"
	if (ProductPatch{Name: &name}).IsEmpty() {
		t.Error("patch with a field must not be empty")
	}

	ids := []primitive.ObjectID{}
	if (ProductPatch{CategoryIDs: &ids}).IsEmpty() {
		t.Error("patch with an explicit empty categoryIds must not be empty")
	}
}
