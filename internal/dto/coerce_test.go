package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		value int
		valid bool
	}{
		{"number", `7`, 7, true},
		{"numeric string", `"42"`, 42, true},
		{"float string truncates", `"12.9"`, 12, true},
		{"float number truncates", `12.9`, 12, true},
		{"negative", `-3`, -3, true},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"garbage", `"abc"`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.value, f.Value)
			assert.Equal(t, tt.valid, f.Valid)
		})
	}
}

func TestFlexIntOr(t *testing.T) {
	assert.Equal(t, 10, FlexInt{}.Or(10))
	assert.Equal(t, 0, FlexInt{Value: 0, Valid: true}.Or(10))
	assert.Equal(t, 5, FlexInt{Value: 5, Valid: true}.Or(10))
}

func TestFlexIntInsideStruct(t *testing.T) {
	var req StockItemRequest
	payload := `{"name":"vis M8","category":"visserie","quantity":"abc","alert_threshold":""}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.False(t, req.Quantity.Valid)
	assert.False(t, req.AlertThreshold.Valid)
}

func TestFlexDecimalUnmarshal(t *testing.T) {
	var f FlexDecimal
	require.NoError(t, json.Unmarshal([]byte(`"19.99"`), &f))
	assert.True(t, f.Valid)
	assert.True(t, f.Value.Equal(decimal.RequireFromString("19.99")))

	f = FlexDecimal{}
	require.NoError(t, json.Unmarshal([]byte(`"not a price"`), &f))
	assert.False(t, f.Valid)
	assert.True(t, f.Or(decimal.Zero).IsZero())
}

func TestCoerceHelpers(t *testing.T) {
	assert.Equal(t, 3, CoerceInt("3", 0))
	assert.Equal(t, 3, CoerceInt(" 3 ", 0))
	assert.Equal(t, 12, CoerceInt("12.7", 0))
	assert.Equal(t, 5, CoerceInt("", 5))
	assert.Equal(t, 5, CoerceInt("abc", 5))

	assert.Equal(t, 2.5, CoerceFloat("2.5", 0))
	assert.Equal(t, 1.0, CoerceFloat("junk", 1.0))

	assert.True(t, CoerceDecimal("10.50").Equal(decimal.RequireFromString("10.5")))
	assert.True(t, CoerceDecimal("").IsZero())
	assert.True(t, CoerceDecimal("n/a").IsZero())
}
