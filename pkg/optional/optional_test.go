package optional_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prakasa-labs/products-api/pkg/optional"
)

func TestOptionalUnmarshalJSON(t *testing.T) {
	type payload struct {
		Description optional.Optional[string] `json:"description"`
	}

	t.Run("absent key", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

		assert.False(t, p.Description.Present())
		assert.Nil(t, p.Description.Value())
	})

	t.Run("explicit null", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &p))

		assert.True(t, p.Description.Present())
		assert.Nil(t, p.Description.Value())
	})

	t.Run("value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"description":"hello"}`), &p))

		assert.True(t, p.Description.Present())
		require.NotNil(t, p.Description.Value())
		assert.Equal(t, "hello", *p.Description.Value())
	})

	t.Run("wrong type", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"description":42}`), &p))
	})
}

func TestOptionalConstructors(t *testing.T) {
	v := optional.FromValue(5)
	assert.True(t, v.Present())
	assert.Equal(t, 5, *v.Value())

	n := optional.Null[int]()
	assert.True(t, n.Present())
	assert.Nil(t, n.Value())

	var zero optional.Optional[int]
	assert.False(t, zero.Present())
}

func TestOptionalMarshalJSON(t *testing.T) {
	b, err := json.Marshal(optional.FromValue("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(b))

	b, err = json.Marshal(optional.Null[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
