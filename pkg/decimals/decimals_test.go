package decimals

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBaseUnits(t *testing.T) {
	testcases := []struct {
		value    string
		expected string
	}{
		{"0", "0"},
		{"1", "0.000000000000000001"},
		{"1000000000000000000", "1"},
		{"100000000000000000000", "100"},
		{"90000000000000000000", "90"},
		{"1500000000000000000", "1.5"},
		{"123456789123456789123456789", "123456789.123456789123456789"},
	}
	for _, tc := range testcases {
		t.Run(tc.value, func(t *testing.T) {
			value, ok := new(big.Int).SetString(tc.value, 10)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, FromBaseUnits(value).String())
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.True(t, FromBaseUnits(nil).IsZero())
	})
}

func TestPercentFromRaw(t *testing.T) {
	testcases := []struct {
		value    string
		expected string
	}{
		{"0", "0"},
		{"1000000000", "10"},
		{"6000000000", "60"},
		{"4000000000", "40"},
		{"10000000000", "100"},
		{"250000000", "2.5"},
	}
	for _, tc := range testcases {
		t.Run(tc.value, func(t *testing.T) {
			value, ok := new(big.Int).SetString(tc.value, 10)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, PercentFromRaw(value).String())
		})
	}
}

func TestPowerOfTen(t *testing.T) {
	for n := int32(0); n <= 18; n++ {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			expected := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
			assert.Equal(t, expected.String(), PowerOfTen(n).String())
		})
	}
}
