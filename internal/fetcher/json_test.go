package fetcher

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRawArray_KeepsNumbersExact(t *testing.T) {
	records, err := DecodeRawArray(strings.NewReader(`[{"id": 42, "lat": 48.1234567}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, json.Number("42"), records[0]["id"])
	assert.Equal(t, json.Number("48.1234567"), records[0]["lat"])
}

func TestDecodeRawArray_NotAnArray(t *testing.T) {
	_, err := DecodeRawArray(strings.NewReader(`{"id": 42}`))
	assert.Error(t, err)
}

func TestDecodeObject(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	obj, err := DecodeObject[payload](strings.NewReader(`{"name": "p1"}`))
	require.NoError(t, err)
	assert.Equal(t, "p1", obj.Name)
}
