package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fosdem/trianglefan/lib/api"
	"github.com/fosdem/trianglefan/lib/config"
	"github.com/fosdem/trianglefan/lib/kbdctl"
	"github.com/fosdem/trianglefan/lib/metrics"
	"github.com/fosdem/trianglefan/lib/rendering"
	"github.com/fosdem/trianglefan/lib/rendering/shaders"
	"github.com/fosdem/trianglefan/lib/sink/windowsink"
	"github.com/fosdem/trianglefan/lib/stats"
	"github.com/fosdem/trianglefan/lib/utils"
	"github.com/fosdem/trianglefan/lib/watch"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "demo")
}

// Demo is the window, the GL state drawn into it and the optional helpers
// around the render loop. All methods must be called from the thread that
// ran Setup.
type Demo struct {
	cfg     *config.Config
	window  *windowsink.WindowSink
	loader  *shaders.Loader
	glvars  *rendering.GLVars
	watcher *watch.ShaderWatcher
	stats   *stats.Stats
	api     *api.Api

	// GLErrors counts frames after which the driver reported an error.
	GLErrors uint64
}

func New(cfg *config.Config) *Demo {
	return &Demo{
		cfg:    cfg,
		window: windowsink.New(&cfg.Window),
		loader: &shaders.Loader{DebugSource: cfg.Shaders.DebugSource},
		stats:  stats.New(),
	}
}

// Setup opens the window, uploads the mesh and links the shader program.
// On error everything acquired so far has been released.
func (d *Demo) Setup() (err error) {
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	bgColour, err := utils.ColourParse(d.cfg.Render.ClearColour)
	if err != nil {
		return err
	}
	quitKey, err := kbdctl.ParseKey(d.cfg.QuitKey)
	if err != nil {
		return err
	}

	err = d.window.Start()
	if err != nil {
		return err
	}
	kbdctl.SetupShortcutKeys(d.window.Window, quitKey)

	mesh, err := rendering.TriangleFan().Upload()
	if err != nil {
		return err
	}

	program, err := d.loader.BuildGLProgram(d.cfg.Shaders.Vertex.String(), d.cfg.Shaders.Fragment.String())
	if err != nil {
		mesh.Delete()
		return fmt.Errorf("failed to load shader: %w", err)
	}
	d.glvars = rendering.NewGLVars(program, mesh, bgColour, *d.cfg.Render.Wireframe)
	d.glvars.Start()

	if d.cfg.Shaders.HotReload {
		d.watcher, err = watch.New(d.cfg.Shaders.Vertex.String(), d.cfg.Shaders.Fragment.String())
		if err != nil {
			return err
		}
		d.watcher.Start()
	}

	d.api, err = api.ServeInBackground(d.cfg.Api, d.stats)
	if err != nil {
		return err
	}
	return nil
}

// Program is the handle of the program currently drawn with.
func (d *Demo) Program() uint32 {
	if d.glvars == nil {
		return 0
	}
	return d.glvars.Program
}

// Loop renders until the window is asked to close, either by the window
// system, the quit key or the configured frame limit. It returns the
// number of frames presented.
func (d *Demo) Loop() uint64 {
	var frames uint64
	var deltaTimer utils.DeltaTimer
	for !d.window.ShouldClose() {
		if d.watcher != nil && d.watcher.Pending() {
			d.reload()
		}

		now := d.window.Time()
		d.glvars.DrawFrame(now)
		if err := rendering.CheckError(); err != nil {
			d.GLErrors++
			metrics.GLErrors.Inc()
			logger().Warn(fmt.Sprintf("frame %d: %s", frames, err))
		}

		d.window.SwapBuffers()
		kbdctl.Poll()

		frames++
		if dt, ok := deltaTimer.Next(now); ok {
			metrics.FrameTime.Observe(dt.Seconds())
		}
		metrics.FramesRendered.Inc()
		d.stats.Update()

		if d.cfg.Render.MaxFrames != 0 && frames >= d.cfg.Render.MaxFrames {
			logger().Info(fmt.Sprintf("rendered %d frames, closing", frames))
			d.window.RequestClose()
		}
	}
	return frames
}

func (d *Demo) reload() {
	logger().Info("shader source changed, rebuilding program")
	program, err := d.loader.BuildGLProgram(d.cfg.Shaders.Vertex.String(), d.cfg.Shaders.Fragment.String())
	if err != nil {
		metrics.ShaderReloads.WithLabelValues("failed").Inc()
		logger().Error(fmt.Sprintf("keeping the previous program: %s", err))
		return
	}
	d.glvars.SetProgram(program)
	d.stats.ShaderReloaded()
	metrics.ShaderReloads.WithLabelValues("ok").Inc()
}

// Close releases the GL objects, stops the helpers and shuts the window
// system down.
func (d *Demo) Close() {
	if d.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := d.api.Shutdown(ctx)
		cancel()
		if err != nil {
			logger().Warn(fmt.Sprintf("could not stop web server: %s", err))
		}
		d.api = nil
	}
	if d.watcher != nil {
		err := d.watcher.Close()
		if err != nil {
			logger().Warn(fmt.Sprintf("could not stop shader watcher: %s", err))
		}
		d.watcher = nil
	}
	if d.glvars != nil {
		d.glvars.Delete()
		d.glvars = nil
	}
	d.window.Close()
}

// Run is the whole program: setup, render loop, teardown.
func Run(cfg *config.Config) error {
	d := New(cfg)
	err := d.Setup()
	if err != nil {
		return err
	}
	defer d.Close()

	frames := d.Loop()
	logger().Info(fmt.Sprintf("window closed after %d frames", frames))
	return nil
}
