package kbdctl

import (
	"testing"

	"github.com/fosdem/trianglefan/lib/kbdctl/keynames"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	shouldClose bool
}

func (f *fakeWindow) SetShouldClose(value bool) {
	f.shouldClose = value
}

func TestQuitKeySetsCloseFlag(t *testing.T) {
	w := &fakeWindow{}
	handle := QuitHandler(glfw.KeyEscape, w)

	handle(glfw.KeyEscape, glfw.Press)
	assert.True(t, w.shouldClose)
}

func TestOtherKeysLeaveCloseFlag(t *testing.T) {
	w := &fakeWindow{}
	handle := QuitHandler(glfw.KeyEscape, w)

	for _, k := range []glfw.Key{glfw.KeyQ, glfw.KeySpace, glfw.KeyA, glfw.KeyEnter} {
		handle(k, glfw.Press)
	}
	handle(glfw.KeyEscape, glfw.Release)
	handle(glfw.KeyEscape, glfw.Repeat)

	assert.False(t, w.shouldClose)
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Escape")
	require.NoError(t, err)
	assert.Equal(t, glfw.KeyEscape, k)

	k, err = ParseKey("q")
	require.NoError(t, err)
	assert.Equal(t, glfw.KeyQ, k)

	_, err = ParseKey("hyper")
	assert.Error(t, err)
}

func TestKeyNamesMatchGLFW(t *testing.T) {
	want := map[string]glfw.Key{
		"escape": glfw.KeyEscape,
		"q":      glfw.KeyQ,
		"space":  glfw.KeySpace,
		"enter":  glfw.KeyEnter,
		"f10":    glfw.KeyF10,
	}
	for _, name := range keynames.Names() {
		k, err := ParseKey(name)
		require.NoError(t, err)
		assert.Equal(t, want[name], k, name)
	}
}
