package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trianglefan_frames_rendered_total",
		Help: "Total number of frames drawn and presented",
	})
	FrameTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trianglefan_frame_seconds",
		Help:    "Time between consecutive presented frames",
		Buckets: []float64{0.001, 0.004, 0.008, 0.017, 0.033, 0.05, 0.1, 0.25},
	})
	ShaderCompileFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trianglefan_shader_compile_failures_total",
		Help: "Total number of shaders the driver refused to compile",
	}, []string{"kind"})
	ShaderReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trianglefan_shader_reloads_total",
		Help: "Total number of hot reloads of the shader program by outcome",
	}, []string{"result"})
	GLErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trianglefan_gl_errors_total",
		Help: "Total number of OpenGL error flags observed after drawing",
	})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
