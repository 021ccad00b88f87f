package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(`{"name":"milk","extra":1}`, &out))
	assert.Equal(t, "milk", out.Name)
}

func TestParseJSONStrictRejectsUnknownFields(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	assert.Error(t, ParseJSONStrict(`{"name":"milk","extra":1}`, &out))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var out map[string]interface{}
	assert.Error(t, ParseJSON(`{"a":1}{"b":2}`, &out))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
