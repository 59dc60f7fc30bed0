package rendering

import (
	"fmt"

	"github.com/fosdem/trianglefan/lib/rendering/shaders"
	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const f32 = 4

// Mesh holds per-vertex positions and colours. Colours[i] belongs to
// Positions[i].
type Mesh struct {
	Positions []mgl32.Vec3
	Colours   []mgl32.Vec3
}

// LegacyColours is the colour list the demo first shipped with. It has one
// entry fewer than TriangleFan has vertices, so the last vertex read past
// the end of the colour buffer.
var LegacyColours = []mgl32.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// TriangleFan is the quad drawn by the demo: three corners of a triangle
// and a fourth point closing the fan.
func TriangleFan() *Mesh {
	return &Mesh{
		Positions: []mgl32.Vec3{
			{-0.5, -0.5, 0},
			{0.5, -0.5, 0},
			{0, 0.5, 0},
			{0.5, 0.5, 0},
		},
		Colours: append(append([]mgl32.Vec3{}, LegacyColours...), mgl32.Vec3{1, 1, 1}),
	}
}

func (m *Mesh) Validate() error {
	if len(m.Positions) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(m.Colours) != len(m.Positions) {
		return fmt.Errorf("mesh has %d colours for %d vertices", len(m.Colours), len(m.Positions))
	}
	return nil
}

func (m *Mesh) VertexCount() int32 {
	return int32(len(m.Positions))
}

func flatten(v []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func (m *Mesh) PositionData() []float32 {
	return flatten(m.Positions)
}

func (m *Mesh) ColourData() []float32 {
	return flatten(m.Colours)
}

// MeshBuffers are the GL objects holding an uploaded mesh.
type MeshBuffers struct {
	VAO         uint32
	PositionVBO uint32
	ColourVBO   uint32
	Count       int32
}

// Upload copies the mesh into two static buffers and records both
// attribute bindings in a new vertex array.
func (m *Mesh) Upload() (*MeshBuffers, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := &MeshBuffers{Count: m.VertexCount()}

	b.PositionVBO = staticBuffer(m.PositionData())
	b.ColourVBO = staticBuffer(m.ColourData())

	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.PositionVBO)
	gl.VertexAttribPointerWithOffset(shaders.AttribPosition, 3, gl.FLOAT, false, 3*f32, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ColourVBO)
	gl.VertexAttribPointerWithOffset(shaders.AttribColour, 3, gl.FLOAT, false, 3*f32, 0)

	gl.EnableVertexAttribArray(shaders.AttribPosition)
	gl.EnableVertexAttribArray(shaders.AttribColour)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := CheckError(); err != nil {
		b.Delete()
		return nil, fmt.Errorf("could not upload mesh: %w", err)
	}
	return b, nil
}

func staticBuffer(data []float32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*f32, gl.Ptr(data), gl.STATIC_DRAW)
	return id
}

func (b *MeshBuffers) Delete() {
	gl.DeleteVertexArrays(1, &b.VAO)
	gl.DeleteBuffers(1, &b.PositionVBO)
	gl.DeleteBuffers(1, &b.ColourVBO)
}
