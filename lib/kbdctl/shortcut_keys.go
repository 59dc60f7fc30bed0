package kbdctl

import (
	"log/slog"

	"github.com/fosdem/trianglefan/lib/kbdctl/keynames"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "kbdctl")
}

// Closer is the part of *glfw.Window the quit key needs.
type Closer interface {
	SetShouldClose(value bool)
}

// ParseKey resolves a key name from the config.
func ParseKey(name string) (glfw.Key, error) {
	c, err := keynames.Code(name)
	if err != nil {
		return glfw.KeyUnknown, err
	}
	return glfw.Key(c), nil
}

// QuitHandler sets the close flag on target when quitKey is pressed.
// Releases, repeats and every other key are ignored.
func QuitHandler(quitKey glfw.Key, target Closer) func(key glfw.Key, action glfw.Action) {
	return func(key glfw.Key, action glfw.Action) {
		if action != glfw.Press || key != quitKey {
			return
		}
		logger().Info("told to quit, exiting")
		target.SetShouldClose(true)
	}
}

func SetupShortcutKeys(window *glfw.Window, quitKey glfw.Key) {
	handle := QuitHandler(quitKey, window)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		handle(key, action)
	})
}

func Poll() {
	glfw.PollEvents()
}
