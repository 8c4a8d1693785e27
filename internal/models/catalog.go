package models

import "fmt"

// ItemType distinguishes the two catalog tables. The value is always resolved
// through ValidateItemType before it reaches any SQL; request input never
// selects a table name directly.
type ItemType string

const (
	ItemTypeMenu    ItemType = "menu"
	ItemTypeProduct ItemType = "product"
)

// ValidateItemType whitelists the two known item types.
func ValidateItemType(raw string) (ItemType, error) {
	switch ItemType(raw) {
	case ItemTypeMenu, ItemTypeProduct:
		return ItemType(raw), nil
	default:
		return "", ValidationError{
			Field:   "item_type",
			Message: fmt.Sprintf("must be one of: %s, %s", ItemTypeMenu, ItemTypeProduct),
		}
	}
}

// CatalogItem is a sellable entity: a cafe-only menu item or a shippable
// product. Price is in whole currency units; stock never goes below zero.
type CatalogItem struct {
	ID          int64    `json:"id" db:"id"`
	Type        ItemType `json:"item_type"`
	Name        string   `json:"name" db:"name"`
	Price       int64    `json:"price" db:"price"`
	Stock       int      `json:"stock" db:"stock"`
	Description string   `json:"description,omitempty" db:"description"`
	Ships       bool     `json:"shippable"`
}

// Shippable reports whether the item is eligible for shipped fulfillment.
// Menu items are cafe-only; the storefront UI uses this, the order engine
// does not enforce it.
func (c CatalogItem) Shippable() bool {
	return c.Type == ItemTypeProduct
}
