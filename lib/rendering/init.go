package rendering

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.2-core/gl"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "rendering")
}

// Init loads the GL entry points for the current context.
func Init() error {
	err := gl.Init()
	if err != nil {
		return fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	vendor := gl.GoStr(gl.GetString(gl.VENDOR))
	renderer := gl.GoStr(gl.GetString(gl.RENDERER))
	version := gl.GoStr(gl.GetString(gl.VERSION))
	logger().Info(fmt.Sprintf("OpenGL version %s / %s / %s", vendor, renderer, version))

	return nil
}

// GLError is an error flag reported by glGetError.
type GLError uint32

func (e GLError) Error() string {
	switch uint32(e) {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("GL error 0x%04x", uint32(e))
	}
}

// CheckError drains the driver's error flags and returns the first one.
func CheckError() error {
	var first error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == nil {
			first = GLError(code)
		}
	}
	return first
}
