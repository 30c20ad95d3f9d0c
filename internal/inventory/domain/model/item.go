package model

import (
	"fmt"
	"strings"
)

// Categories is the fixed set of item categories.
var Categories = []string{
	"Fruits",
	"Vegetables",
	"Bakery Products",
	"Dairy Products",
	"Cleaning Products",
	"Household Items",
}

// Units is the fixed set of measurement units.
var Units = []string{
	"Kilogram (kg)",
	"Gram (g)",
	"Each",
}

// InventoryItem is one line item in a user's collection. Name doubles
// as the document key under users/{uid}/inventory/{name} and is
// immutable after creation.
type InventoryItem struct {
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int64   `json:"quantity" bson:"quantity"`
	Category string  `json:"category" bson:"category"`
	Unit     string  `json:"unit" bson:"unit"`
	ImageURL string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// Validate rejects items that must not cross the adapter boundary.
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("item name is required")
	}
	if i.Price < 0 {
		return fmt.Errorf("item price must be non-negative")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("item quantity must be non-negative")
	}
	return nil
}

// Value returns the item's contribution to the store total.
func (i *InventoryItem) Value() float64 {
	return i.Price * float64(i.Quantity)
}

// ItemFields is the merge-write field set of an inventory document:
// everything except the name key.
type ItemFields struct {
	Price    float64 `json:"price" bson:"price"`
	Quantity int64   `json:"quantity" bson:"quantity"`
	Category string  `json:"category" bson:"category"`
	Unit     string  `json:"unit" bson:"unit"`
	ImageURL string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// ValidCategory reports whether c belongs to the fixed category set.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// ValidUnit reports whether u belongs to the fixed unit set.
func ValidUnit(u string) bool {
	for _, known := range Units {
		if known == u {
			return true
		}
	}
	return false
}
