package rendering

import (
	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLVars is the GL state the render loop draws with: one program and one
// uploaded mesh.
type GLVars struct {
	Program   uint32
	Mesh      *MeshBuffers
	BGColour  mgl32.Vec4
	Wireframe bool

	// -1 when the program has no time uniform
	TimeUniform int32
}

func NewGLVars(program uint32, mesh *MeshBuffers, bgColour mgl32.Vec4, wireframe bool) *GLVars {
	g := &GLVars{
		Mesh:      mesh,
		BGColour:  bgColour,
		Wireframe: wireframe,
	}
	g.SetProgram(program)
	return g
}

func (g *GLVars) Start() {
	gl.ClearColor(g.BGColour[0], g.BGColour[1], g.BGColour[2], g.BGColour[3])
}

// SetProgram replaces the program drawn with, deleting the old one.
func (g *GLVars) SetProgram(program uint32) {
	if g.Program != 0 && g.Program != program {
		gl.DeleteProgram(g.Program)
	}
	g.Program = program
	g.TimeUniform = gl.GetUniformLocation(program, gl.Str("time\x00"))
}

// DrawFrame draws the mesh as a triangle fan. t is the clock value handed
// to the program's time uniform, if it has one.
func (g *GLVars) DrawFrame(t float64) {
	if g.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(g.Program)
	if g.TimeUniform != -1 {
		gl.Uniform1f(g.TimeUniform, float32(t))
	}
	gl.BindVertexArray(g.Mesh.VAO)

	gl.DrawArrays(gl.TRIANGLE_FAN, 0, g.Mesh.Count)
}

// Delete releases the program and the mesh buffers.
func (g *GLVars) Delete() {
	gl.UseProgram(0)
	gl.BindVertexArray(0)
	if g.Program != 0 {
		gl.DeleteProgram(g.Program)
		g.Program = 0
	}
	if g.Mesh != nil {
		g.Mesh.Delete()
	}
}
