// Package gltest gives tests a current OpenGL 3.2 core context backed by a
// hidden GLFW window. Tests are skipped where no display is available.
package gltest

import (
	"runtime"
	"testing"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Context makes a fresh context current on the calling goroutine's OS
// thread and tears it down when the test ends.
func Context(t testing.TB) *glfw.Window {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	window, err := hiddenWindow(t.Name())
	if err != nil {
		t.Skipf("no OpenGL 3.2 context available: %s", err)
	}
	t.Cleanup(glfw.Terminate)
	t.Cleanup(window.Destroy)

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		t.Skipf("could not load OpenGL: %s", err)
	}
	return window
}

// hiddenWindow recovers the NotInitialized panic the first hint raises
// when glfw.Init swallowed a platform error.
func hiddenWindow(title string) (window *glfw.Window, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		glfwErr, ok := r.(*glfw.Error)
		if !ok {
			panic(r)
		}
		glfw.Terminate()
		window, err = nil, glfwErr
	}()

	if err := glfw.Init(); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err = glfw.CreateWindow(64, 64, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	return window, nil
}

// NoError fails the test if the driver has an error flag set.
func NoError(t testing.TB) {
	t.Helper()
	if code := gl.GetError(); code != gl.NO_ERROR {
		t.Fatalf("OpenGL error 0x%04x", code)
	}
}
