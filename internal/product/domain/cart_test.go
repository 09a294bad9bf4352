package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartRecalculate(t *testing.T) {
	door := &Product{Price: 120}
	sink := &Product{Price: 35}

	tests := []struct {
		name           string
		items          []CartItem
		wantItems      int
		wantTotal      int
		wantTax        string
		wantOrderTotal string
	}{
		{
			name:           "empty cart has no shipping",
			items:          nil,
			wantTax:        "0",
			wantOrderTotal: "0",
		},
		{
			name:           "single item",
			items:          []CartItem{{Amount: 1, Product: door}},
			wantItems:      1,
			wantTotal:      120,
			wantTax:        "12",
			wantOrderTotal: "137",
		},
		{
			name:           "mixed amounts",
			items:          []CartItem{{Amount: 2, Product: door}, {Amount: 3, Product: sink}},
			wantItems:      5,
			wantTotal:      345,
			wantTax:        "34.5",
			wantOrderTotal: "384.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Cart{Shipping: DefaultShipping, TaxRate: DefaultTaxRate}
			c.Recalculate(tt.items)

			assert.Equal(t, tt.wantItems, c.NumItemsInCart)
			assert.Equal(t, tt.wantTotal, c.CartTotal)
			assert.Equal(t, tt.wantTax, c.Tax.String())
			assert.Equal(t, tt.wantOrderTotal, c.OrderTotal.String())
		})
	}
}
