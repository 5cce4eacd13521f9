package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalJSON(t *testing.T) {
	type payload struct {
		Email Optional[string] `json:"email"`
	}

	data, err := json.Marshal(payload{Email: Some("anna@example.com")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"anna@example.com"}`, string(data))

	data, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"email":null}`), &decoded))
	assert.False(t, decoded.Email.IsSet)

	require.NoError(t, json.Unmarshal([]byte(`{"email":"ben@example.com"}`), &decoded))
	assert.Equal(t, "ben@example.com", decoded.Email.UnwrapOr(""))
}

func TestOptionalScan(t *testing.T) {
	var o Optional[string]

	require.NoError(t, o.Scan(nil))
	assert.False(t, o.IsSet)
	assert.Equal(t, "fallback", o.UnwrapOr("fallback"))

	require.NoError(t, o.Scan("drums"))
	assert.True(t, o.IsSet)
	assert.Equal(t, "drums", o.Val)
}

func TestOptionalValue(t *testing.T) {
	v, err := Some("drums").Value()
	require.NoError(t, err)
	assert.Equal(t, "drums", v)

	v, err = None[string]().Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
