package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardConfig struct {
	Board string `json:"board" validate:"required"`
	Group string `json:"group" validate:"required"`
	Name  string `json:"boardName"`
}

func TestDecodeAndValidate(t *testing.T) {
	v := New()

	var ok boardConfig
	require.NoError(t, v.DecodeAndValidate(json.RawMessage(`{"board":"1","group":"topics"}`), &ok))
	assert.Equal(t, "topics", ok.Group)

	var missing boardConfig
	err := v.DecodeAndValidate(json.RawMessage(`{"boardName":"Roadmap"}`), &missing)
	require.Error(t, err)
	assert.Equal(t, "board is required, group is required", err.Error())

	var empty boardConfig
	assert.Error(t, v.DecodeAndValidate(nil, &empty))

	var malformed boardConfig
	err = v.DecodeAndValidate(json.RawMessage(`{"board":`), &malformed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed config")
}
