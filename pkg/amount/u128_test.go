package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseU128(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"small", "42", "42", false},
		{"yocto", "1000000000000000000000000", "1000000000000000000000000", false},
		{"max", "340282366920938463463374607431768211455", "340282366920938463463374607431768211455", false},
		{"overflow", "340282366920938463463374607431768211456", "", true},
		{"negative", "-1", "", true},
		{"fraction", "1.5", "", true},
		{"empty", "", "", true},
		{"garbage", "12abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseU128(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidU128(t *testing.T) {
	assert.True(t, ValidU128(decimal.NewFromInt(0)))
	assert.False(t, ValidU128(decimal.NewFromInt(-3)))
	assert.False(t, ValidU128(decimal.RequireFromString("0.5")))
	assert.False(t, ValidU128(MaxU128.Add(decimal.NewFromInt(1))))
}

func TestParseReference(t *testing.T) {
	v, err := ParseReference("9.98")
	require.NoError(t, err)
	assert.InDelta(t, 9.98, v, 1e-9)

	for _, bad := range []string{"abc", "NaN", "-1", "+Inf", ""} {
		_, err := ParseReference(bad)
		assert.Error(t, err, bad)
	}
}
