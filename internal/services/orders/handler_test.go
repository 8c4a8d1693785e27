package orders

import "testing"

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		suffix string
		want   int64
	}{
		{
			name:   "order items path",
			path:   "/orders/42/items",
			prefix: "/orders/",
			suffix: "/items",
			want:   42,
		},
		{
			name:   "admin status path",
			path:   "/admin/orders/7/status",
			prefix: "/admin/orders/",
			suffix: "/status",
			want:   7,
		},
		{
			name:   "admin delete path without suffix",
			path:   "/admin/orders/15",
			prefix: "/admin/orders/",
			suffix: "",
			want:   15,
		},
		{
			name:   "missing id",
			path:   "/orders//items",
			prefix: "/orders/",
			suffix: "/items",
			want:   0,
		},
		{
			name:   "non numeric id",
			path:   "/orders/abc/items",
			prefix: "/orders/",
			suffix: "/items",
			want:   0,
		},
		{
			name:   "negative id",
			path:   "/admin/orders/-3",
			prefix: "/admin/orders/",
			suffix: "",
			want:   0,
		},
		{
			name:   "zero id",
			path:   "/admin/orders/0",
			prefix: "/admin/orders/",
			suffix: "",
			want:   0,
		},
		{
			name:   "wrong prefix",
			path:   "/carts/42/items",
			prefix: "/orders/",
			suffix: "/items",
			want:   0,
		},
		{
			name:   "missing suffix",
			path:   "/orders/42",
			prefix: "/orders/",
			suffix: "/items",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractOrderID(tt.path, tt.prefix, tt.suffix)
			if got != tt.want {
				t.Errorf("extractOrderID(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}
