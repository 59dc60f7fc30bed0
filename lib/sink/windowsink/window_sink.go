package windowsink

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fosdem/trianglefan/lib/config"
	"github.com/fosdem/trianglefan/lib/rendering"
	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "windowsink")
}

// WindowSink owns the GLFW library lifetime and the single window whose
// context everything is drawn with.
type WindowSink struct {
	Window *glfw.Window

	cfg        *config.WindowCfg
	glfwInited bool
}

func New(cfg *config.WindowCfg) *WindowSink {
	return &WindowSink{cfg: cfg}
}

// Start creates the window and makes its context current on the calling
// thread, which must stay locked to its goroutine.
func (w *WindowSink) Start() error {
	if w.Window != nil {
		return nil
	}
	window, err := w.makeWindow()
	if err != nil {
		w.Close()
		return err
	}
	w.Window = window
	return nil
}

// ErrInit wraps every failure to bring up GLFW itself, including the
// platform errors glfw.Init only logs.
var ErrInit = errors.New("failed to initialize GLFW")

// guard turns a GLFW error panic into *err. glfw.Init reports only
// APIUnavailable to the caller; any other init failure surfaces as a
// NotInitialized panic from the next GLFW call.
func guard(err *error) {
	r := recover()
	if r == nil {
		return
	}
	glfwErr, ok := r.(*glfw.Error)
	if !ok {
		panic(r)
	}
	*err = fmt.Errorf("%w: %w", ErrInit, glfwErr)
}

func (w *WindowSink) makeWindow() (window *glfw.Window, err error) {
	logger().Debug("Initializing window")
	defer guard(&err)

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	w.glfwInited = true

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if w.cfg.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	window, err = glfw.CreateWindow(w.cfg.Width, w.cfg.Height, w.cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize window: %w", err)
	}

	window.MakeContextCurrent()

	err = rendering.Init()
	if err != nil {
		window.Destroy()
		return nil, err
	}

	glfw.SwapInterval(*w.cfg.SwapInterval)

	width, height := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width int, height int) {
		logger().Debug(fmt.Sprintf("framebuffer resized to %dx%d", width, height))
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	logger().Info(fmt.Sprintf("window %q with %dx%d framebuffer", w.cfg.Title, width, height))

	return window, nil
}

func (w *WindowSink) ShouldClose() bool {
	return w.Window.ShouldClose()
}

// RequestClose sets the same flag the close button and the quit key set.
func (w *WindowSink) RequestClose() {
	w.Window.SetShouldClose(true)
}

func (w *WindowSink) SwapBuffers() {
	w.Window.SwapBuffers()
}

// Close destroys the window and shuts GLFW down. It is safe to call after
// a failed Start.
func (w *WindowSink) Close() {
	if w.Window != nil {
		w.Window.Destroy()
		w.Window = nil
	}
	if w.glfwInited {
		glfw.Terminate()
		w.glfwInited = false
	}
}

// Time is the GLFW clock in seconds since initialisation.
func (w *WindowSink) Time() float64 {
	return glfw.GetTime()
}

// ReportError prints err in the "[!] {# code} description" form. Errors
// that did not come from GLFW get code -1.
func ReportError(err error) {
	code, desc := -1, err.Error()
	var glfwErr *glfw.Error
	if errors.As(err, &glfwErr) {
		code, desc = int(glfwErr.Code), glfwErr.Desc
	}
	logger().Error(fmt.Sprintf("[!] {# %d} %s", code, desc))
}
