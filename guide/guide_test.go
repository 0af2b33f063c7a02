package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Default(t *testing.T) {
	content, err := Get("")
	require.NoError(t, err)
	assert.Contains(t, content, "# sulaiman")
}

func TestGet_Missing(t *testing.T) {
	_, err := Get("nope")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.Contains(t, names, "extensions")
	assert.Contains(t, names, "permissions")
	assert.NotContains(t, names, "guide")
	for _, n := range names {
		_, err := Get(n)
		assert.NoError(t, err, n)
	}
}
