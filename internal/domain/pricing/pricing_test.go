package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		currency string
		amount   int64
	}{
		{"india exact match", "IN", "INR", 15000},
		{"uk exact match", "GB", "GBP", 249},
		{"japan exact match", "JP", "JPY", 289},
		{"germany via eurozone", "DE", "EUR", 299},
		{"france via eurozone", "FR", "EUR", 299},
		{"unknown falls back to usd", "ZZ", "USD", 299},
		{"empty falls back to usd", "", "USD", 299},
		{"lowercase input", "in", "INR", 15000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := Resolve(tt.country)
			assert.Equal(t, tt.currency, tier.Currency)
			assert.Equal(t, tt.amount, tier.AmountMinor)
			assert.NotEmpty(t, tier.Symbol)
			assert.NotEmpty(t, tier.Display)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, Resolve("CA"), Resolve("CA"))
	}
}
