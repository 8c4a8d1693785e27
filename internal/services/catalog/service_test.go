package catalog

import (
	"testing"

	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

func TestStockSQL(t *testing.T) {
	tests := []struct {
		name     string
		itemType models.ItemType
		wantGet  string
		wantDecr string
		wantErr  bool
	}{
		{
			name:     "menu item",
			itemType: models.ItemTypeMenu,
			wantGet:  database.GetMenuStockSQL,
			wantDecr: database.DecrementMenuStockSQL,
		},
		{
			name:     "product",
			itemType: models.ItemTypeProduct,
			wantGet:  database.GetProductStockSQL,
			wantDecr: database.DecrementProductStockSQL,
		},
		{
			name:     "unknown type",
			itemType: models.ItemType("vouchers"),
			wantErr:  true,
		},
		{
			name:     "injection style type",
			itemType: models.ItemType("menu; DROP TABLE products"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getSQL, decrementSQL, err := stockSQL(tt.itemType)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for item type %q", tt.itemType)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if getSQL != tt.wantGet {
				t.Errorf("wrong get query for %q", tt.itemType)
			}
			if decrementSQL != tt.wantDecr {
				t.Errorf("wrong decrement query for %q", tt.itemType)
			}
		})
	}
}
