package models

import (
	"fmt"
	"sort"
)

// CartLine is one selected item in a user's cart. Name and Price are carried
// with the line so the order can snapshot them at purchase time.
type CartLine struct {
	ItemID   int64    `json:"id"`
	ItemType ItemType `json:"type"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Quantity int      `json:"quantity"`
}

// Validate checks a single cart line. A line with quantity <= 0 must not
// exist; removal is modelled as deletion, never a zero quantity.
func (l CartLine) Validate(index int) error {
	prefix := fmt.Sprintf("cart[%d]", index)

	if l.ItemID <= 0 {
		return ValidationError{
			Field:   prefix + ".id",
			Message: "item id is required",
		}
	}
	if _, err := ValidateItemType(string(l.ItemType)); err != nil {
		return ValidationError{
			Field:   prefix + ".type",
			Message: "must be one of: menu, product",
		}
	}
	if l.Name == "" {
		return ValidationError{
			Field:   prefix + ".name",
			Message: "item name is required",
		}
	}
	if l.Price < 0 {
		return ValidationError{
			Field:   prefix + ".price",
			Message: "price cannot be negative",
		}
	}
	if l.Quantity <= 0 {
		return ValidationError{
			Field:   prefix + ".quantity",
			Message: "quantity must be greater than 0",
		}
	}
	return nil
}

// ValidateCartLines checks every line of a cart snapshot.
func ValidateCartLines(lines []CartLine) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for i, line := range lines {
		if err := line.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// SortCartLines orders lines by (type, id). Every transaction that touches
// stock rows walks its lines in this order so two concurrent checkouts over
// an overlapping item set always lock rows in the same sequence.
func SortCartLines(lines []CartLine) []CartLine {
	sorted := make([]CartLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ItemType != sorted[j].ItemType {
			return sorted[i].ItemType < sorted[j].ItemType
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})
	return sorted
}

// CartTotal sums price*quantity over the lines.
func CartTotal(lines []CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}
