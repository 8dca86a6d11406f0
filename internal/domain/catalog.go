package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a product document in the catalog
type Product struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	About       string               `json:"about" bson:"about"`
	Price       float64              `json:"price" bson:"price"`
	CategoryIDs []primitive.ObjectID `json:"categoryIds" bson:"categoryIds"`
}

// Category represents a product category document
type Category struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}

// ResolvedProduct is the client-facing shape of a product with its
// categoryIds joined to full category documents. Categories is always
// non-nil; ids referencing no stored category are omitted.
type ResolvedProduct struct {
	Product    `bson:",inline"`
	Categories []Category `json:"categories"`
}

// ProductPatch carries a partial update. A nil field is absent and
// leaves the stored value untouched.
type ProductPatch struct {
	Name        *string               `bson:"name,omitempty"`
	About       *string               `bson:"about,omitempty"`
	Price       *float64              `bson:"price,omitempty"`
	CategoryIDs *[]primitive.ObjectID `bson:"categoryIds,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.About == nil && p.Price == nil && p.CategoryIDs == nil
}
