package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSpec_Parse(t *testing.T) {
	tests := []struct {
		name    string
		spec    FieldSpec
		raw     string
		want    float64
		present bool
		wantErr error
	}{
		{"required ok", Required("x", Any), "12.5", 12.5, true, nil},
		{"required trims", Required("x", Any), "  7 ", 7, true, nil},
		{"required empty", Required("x", Any), "", 0, false, ErrMissingField},
		{"required blank", Required("x", Any), "   ", 0, false, ErrMissingField},
		{"required garbage", Required("x", Any), "1.2.3", 0, false, ErrInputParse},
		{"nan rejected", Required("x", Any), "NaN", 0, false, ErrInputParse},
		{"inf rejected", Required("x", Any), "+Inf", 0, false, ErrInputParse},
		{"exponent", Required("x", Any), "1e3", 1000, true, nil},
		{"positive zero", Required("x", Positive), "0", 0, false, ErrOutOfRange},
		{"divisor zero", Required("x", Divisor), "0", 0, false, ErrDivisionByZero},
		{"percent edge", Required("x", Percent), "100", 100, true, nil},
		{"default on empty", WithDefault("x", 4, Any), "", 4, true, nil},
		{"default on garbage", WithDefault("x", 4, Any), "four", 4, true, nil},
		{"default keeps range error", WithDefault("x", 0, Percent), "101", 0, false, ErrOutOfRange},
		{"fallback on range error", Fallback("x", 9, Positive), "-1", 9, true, nil},
		{"optional empty", Optional("x", Any), "", 0, false, nil},
		{"optional garbage", Optional("x", Any), "?", 0, false, ErrInputParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present, err := tt.spec.Parse(tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.present, present)
		})
	}
}

func TestFieldSpec_MustHave(t *testing.T) {
	_, err := Optional("price", Any).MustHave("")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "price", fe.Field)
	assert.Equal(t, "price: value is required", fe.Error())
}
