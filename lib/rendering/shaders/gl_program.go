package shaders

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
)

// Vertex attribute slots. They are bound by name before linking, so the
// GLSL 1.50 sources need no layout qualifiers.
const (
	AttribPosition uint32 = 0
	AttribColour   uint32 = 1
)

var attribNames = map[uint32]string{
	AttribPosition: "position",
	AttribColour:   "colour",
}

// LinkError carries the driver's info log for a program that did not link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// BuildGLProgram loads both shader files and links them into one program.
func (l *Loader) BuildGLProgram(vertexPath, fragmentPath string) (uint32, error) {
	vertexShader, err := l.Load(vertexPath, Vertex)
	if err != nil {
		return 0, fmt.Errorf("could not get vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := l.Load(fragmentPath, Fragment)
	if err != nil {
		return 0, fmt.Errorf("could not get fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program, err := newProgram(vertexShader, fragmentShader)
	if err != nil {
		return 0, err
	}
	logger().Info(fmt.Sprintf("linked program %d from %s and %s", program, vertexPath, fragmentPath))
	return program, nil
}

func newProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()

	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	for slot, name := range attribNames {
		gl.BindAttribLocation(program, slot, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		logmsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logmsg))
		gl.DeleteProgram(program)

		return 0, &LinkError{Log: strings.TrimRight(logmsg, "\x00")}
	}

	// detached shaders are freed by the deferred DeleteShader calls
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)

	return program, nil
}
