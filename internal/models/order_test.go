package models

import (
	"testing"
)

func validCheckoutRequest() *CheckoutRequest {
	return &CheckoutRequest{
		UserID:          7,
		CustomerName:    "Siti Rahma",
		CustomerEmail:   "siti@example.com",
		CustomerPhone:   "081234567890",
		CustomerAddress: "Jl. Kenanga No. 5, Jakarta",
		Cart: []CartLine{
			{ItemID: 1, ItemType: ItemTypeMenu, Name: "Kopi Susu", Price: 25000, Quantity: 2},
		},
	}
}

func TestCheckoutRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *CheckoutRequest)
		wantErr bool
	}{
		{
			name:    "valid request",
			mutate:  func(req *CheckoutRequest) {},
			wantErr: false,
		},
		{
			name: "missing customer name",
			mutate: func(req *CheckoutRequest) {
				req.CustomerName = "   "
			},
			wantErr: true,
		},
		{
			name: "missing email",
			mutate: func(req *CheckoutRequest) {
				req.CustomerEmail = ""
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			mutate: func(req *CheckoutRequest) {
				req.CustomerEmail = "not-an-email"
			},
			wantErr: true,
		},
		{
			name: "missing phone",
			mutate: func(req *CheckoutRequest) {
				req.CustomerPhone = ""
			},
			wantErr: true,
		},
		{
			name: "missing address",
			mutate: func(req *CheckoutRequest) {
				req.CustomerAddress = "  "
			},
			wantErr: true,
		},
		{
			name: "empty cart",
			mutate: func(req *CheckoutRequest) {
				req.Cart = nil
			},
			wantErr: true,
		},
		{
			name: "zero quantity line",
			mutate: func(req *CheckoutRequest) {
				req.Cart[0].Quantity = 0
			},
			wantErr: true,
		},
		{
			name: "unknown item type",
			mutate: func(req *CheckoutRequest) {
				req.Cart[0].ItemType = "voucher"
			},
			wantErr: true,
		},
		{
			name: "negative price line",
			mutate: func(req *CheckoutRequest) {
				req.Cart[0].Price = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckoutRequest()
			tt.mutate(req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckoutRequestValidateTrimsFields(t *testing.T) {
	req := validCheckoutRequest()
	req.CustomerName = "  Siti Rahma  "
	req.CustomerEmail = " siti@example.com "

	if err := req.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if req.CustomerName != "Siti Rahma" {
		t.Errorf("expected trimmed name, got %q", req.CustomerName)
	}
	if req.CustomerEmail != "siti@example.com" {
		t.Errorf("expected trimmed email, got %q", req.CustomerEmail)
	}
}

func TestCheckoutRequestTotalAmount(t *testing.T) {
	req := validCheckoutRequest()
	req.Cart = []CartLine{
		{ItemID: 1, ItemType: ItemTypeMenu, Name: "Kopi Susu", Price: 25000, Quantity: 2},
		{ItemID: 3, ItemType: ItemTypeProduct, Name: "Biji Arabika 250g", Price: 90000, Quantity: 1},
	}

	if got, want := req.TotalAmount(), int64(140000); got != want {
		t.Errorf("TotalAmount() = %d, want %d", got, want)
	}
}

func TestValidateOrderStatus(t *testing.T) {
	if _, err := ValidateOrderStatus("completed"); err != nil {
		t.Errorf("expected completed to be valid, got %v", err)
	}
	if _, err := ValidateOrderStatus("shipped"); err == nil {
		t.Errorf("expected unknown status to be rejected")
	}
}
