package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{-3.96, "-3.96"},
		{1234.5, "1234.50"},
		{0.005, "0.01"},
		{20547.945205479453, "20547.95"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in))
	}
}

func TestPercentAndOptional(t *testing.T) {
	assert.Equal(t, "50.00%", Percent(50))
	assert.Equal(t, "-16.50%", Percent(-16.5))

	v := 12.345
	assert.Equal(t, "12.35%", PercentPtr(&v))
	assert.Equal(t, "n/a", PercentPtr(nil))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "10", Amount(10, 8))
	assert.Equal(t, "0.000432", Amount(0.000432, 8))
	assert.Equal(t, "0", Amount(-0.000000001, 8))
	assert.Equal(t, "8.2192", Amount(8.219178082, 4))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "$12,345.68", Display(12345.678))
	assert.Equal(t, "-$3.96", Display(-3.96))
	assert.Equal(t, "$0", Display(0))
}
