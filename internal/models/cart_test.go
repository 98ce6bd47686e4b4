package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLineUnmarshalCatalog(t *testing.T) {
	var line CartLine
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "qty": 2}`), &line))

	assert.False(t, line.Custom)
	assert.Equal(t, int64(3), line.ProductID)
	assert.Equal(t, 2, line.Qty)
}

func TestCartLineUnmarshalCustom(t *testing.T) {
	var line CartLine
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id": "custom-1", "name": "Gift", "qty": 1, "price": 7.5}`), &line))

	assert.True(t, line.Custom)
	assert.Equal(t, "Gift", line.Name)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 7.5, line.Price)
}

func TestCartLineUnmarshalNumericString(t *testing.T) {
	var line CartLine
	require.NoError(t, json.Unmarshal([]byte(`{"id": "7", "qty": 1}`), &line))

	assert.False(t, line.Custom)
	assert.Equal(t, int64(7), line.ProductID)
}

func TestCartLineUnmarshalRejectsBadID(t *testing.T) {
	var line CartLine

	err := json.Unmarshal([]byte(`{"id": "gift", "qty": 1}`), &line)
	assert.True(t, IsValidation(err))

	err = json.Unmarshal([]byte(`{"qty": 1}`), &line)
	assert.True(t, IsValidation(err))

	err = json.Unmarshal([]byte(`{"id": true, "qty": 1}`), &line)
	assert.True(t, IsValidation(err))
}

func TestCartUnmarshalMixed(t *testing.T) {
	var cart []CartLine
	require.NoError(t, json.Unmarshal(
		[]byte(`[{"id": 1, "qty": 2}, {"id": "custom-9", "name": "Engraving", "qty": 1, "price": 12}]`),
		&cart))

	require.Len(t, cart, 2)
	assert.False(t, cart[0].Custom)
	assert.True(t, cart[1].Custom)
	assert.Equal(t, "Engraving", cart[1].Name)
}
