package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceIsRecurring(t *testing.T) {
	assert.True(t, (&Price{Type: PricingTypeRecurring}).IsRecurring())
	assert.False(t, (&Price{Type: PricingTypeOneTime}).IsRecurring())
}

func TestPriceTrialPeriodDays(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     int64
	}{
		{"no metadata", nil, 0},
		{"missing key", map[string]string{"other": "1"}, 0},
		{"valid", map[string]string{PriceMetadataTrialPeriodDays: "14"}, 14},
		{"zero", map[string]string{PriceMetadataTrialPeriodDays: "0"}, 0},
		{"not a number", map[string]string{PriceMetadataTrialPeriodDays: "two weeks"}, 0},
		{"negative", map[string]string{PriceMetadataTrialPeriodDays: "-7"}, 0},
		{"overflows int64", map[string]string{PriceMetadataTrialPeriodDays: "9223372036854775808"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Price{Metadata: tt.metadata}
			assert.Equal(t, tt.want, p.TrialPeriodDays())
		})
	}
}
