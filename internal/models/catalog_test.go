package models

import "testing"

func TestCatalogItemShippable(t *testing.T) {
	menu := CatalogItem{Type: ItemTypeMenu, Name: "Kopi Susu"}
	if menu.Shippable() {
		t.Error("menu items are cafe-only and must not be shippable")
	}

	product := CatalogItem{Type: ItemTypeProduct, Name: "Biji Arabika 250g"}
	if !product.Shippable() {
		t.Error("products must be shippable")
	}
}
