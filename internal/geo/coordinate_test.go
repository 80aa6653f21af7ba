package geo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuantize_SevenPlaces(t *testing.T) {
	d := decimal.RequireFromString("48.12345678912")
	assert.Equal(t, "48.1234568", Quantize(d).String())
}

func TestQuantize_BankersRounding(t *testing.T) {
	// Exactly halfway values round to the even neighbor.
	assert.Equal(t, "48.1234568", Quantize(decimal.RequireFromString("48.12345675")).String())
	assert.Equal(t, "48.1234568", Quantize(decimal.RequireFromString("48.12345685")).String())
}

func TestQuantize_ShortValuesUnchanged(t *testing.T) {
	d := decimal.RequireFromString("48.5")
	assert.True(t, Quantize(d).Equal(d))
}

func TestQuantize_Deterministic(t *testing.T) {
	d := decimal.RequireFromString("9.98765432199")
	first := Quantize(d)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.String(), Quantize(d).String())
	}
}

func TestQuantizeFloat_Deterministic(t *testing.T) {
	first := QuantizeFloat(9.123456789)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.String(), QuantizeFloat(9.123456789).String())
	}
}
