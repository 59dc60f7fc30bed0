package keynames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	c, err := Code("ESCAPE")
	require.NoError(t, err)
	assert.Equal(t, 256, c)

	_, err = Code("hyper")
	assert.ErrorContains(t, err, `unsupported quit key "hyper"`)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"enter", "escape", "f10", "q", "space"}, Names())
}
