package shaders

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fosdem/trianglefan/lib/metrics"
	"github.com/go-gl/gl/v3.2-core/gl"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "shaders")
}

// Kind selects the pipeline stage a shader object is created for.
type Kind uint32

const (
	Vertex   Kind = gl.VERTEX_SHADER
	Fragment Kind = gl.FRAGMENT_SHADER
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// CompileError carries the driver's info log for a shader that did not
// compile.
type CompileError struct {
	Kind Kind
	Path string
	Log  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader %s: %s", e.Kind, e.Path, e.Log)
}

// Loader turns shader files into compiled shader objects. The zero value
// is ready to use.
type Loader struct {
	// DebugSource logs the full source text at debug level before
	// compiling.
	DebugSource bool
}

// Load compiles the shader at path with a zero-value Loader.
func Load(path string, kind Kind) (uint32, error) {
	var l Loader
	return l.Load(path, kind)
}

// Load reads path and compiles it as a shader of the given kind. It
// returns the shader handle, or 0 and an error. A current GL context is
// only needed once the file has been read.
func (l *Loader) Load(path string, kind Kind) (uint32, error) {
	source, err := ReadSource(path)
	if err != nil {
		return 0, err
	}

	if l.DebugSource {
		logger().Debug(fmt.Sprintf("%s shader source from %s:\n%s", kind, path, source))
	}

	shader, err := compileShader(source, kind)
	if err != nil {
		metrics.ShaderCompileFailures.WithLabelValues(kind.String()).Inc()
		if ce, ok := err.(*CompileError); ok {
			ce.Path = path
		}
		return 0, err
	}
	return shader, nil
}

// ReadSource returns the full text of a shader file. The file is closed
// on every return path.
func ReadSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open shader: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			logger().Warn(fmt.Sprintf("could not close %s: %s", path, err))
		}
	}(f)

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("could not stat %s: %w", path, err)
	}

	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", path, err)
	}
	if info.Mode().IsRegular() && int64(len(b)) < info.Size() {
		return "", fmt.Errorf("short read on %s: got %d of %d bytes", path, len(b), info.Size())
	}
	return string(b), nil
}

func compileShader(source string, kind Kind) (uint32, error) {
	shader := gl.CreateShader(uint32(kind))
	if shader == 0 {
		return 0, fmt.Errorf("could not create %s shader object", kind)
	}

	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader, 1, csources, &size)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		clog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(clog))
		gl.DeleteShader(shader)

		return 0, &CompileError{Kind: kind, Log: strings.TrimRight(clog, "\x00")}
	}

	return shader, nil
}
