package rendering

import (
	"testing"

	"github.com/fosdem/trianglefan/lib/rendering/gltest"
	"github.com/fosdem/trianglefan/lib/rendering/shaders"
	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleFanSizes(t *testing.T) {
	m := TriangleFan()

	assert.Len(t, m.PositionData(), 4*3)
	assert.Len(t, m.ColourData(), 4*3)
	assert.Equal(t, int32(4), m.VertexCount())
	assert.NoError(t, m.Validate())
	assert.Equal(t, []float32{-0.5, -0.5, 0, 0.5, -0.5, 0, 0, 0.5, 0, 0.5, 0.5, 0}, m.PositionData())
}

func TestLegacyColoursAreShort(t *testing.T) {
	m := TriangleFan()
	m.Colours = LegacyColours

	assert.Len(t, m.ColourData(), 3*3)
	assert.EqualError(t, m.Validate(), "mesh has 3 colours for 4 vertices")

	_, err := m.Upload()
	assert.Error(t, err, "an invalid mesh must not reach the GPU")
}

func TestTriangleFanDoesNotAliasLegacyColours(t *testing.T) {
	m := TriangleFan()
	m.Colours[0] = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, LegacyColours[0])
}

func TestEmptyMesh(t *testing.T) {
	assert.Error(t, (&Mesh{}).Validate())
}

func TestUploadCreatesDistinctBuffers(t *testing.T) {
	gltest.Context(t)

	b, err := TriangleFan().Upload()
	require.NoError(t, err)
	defer b.Delete()

	assert.NotZero(t, b.VAO)
	assert.NotZero(t, b.PositionVBO)
	assert.NotZero(t, b.ColourVBO)
	assert.NotEqual(t, b.PositionVBO, b.ColourVBO)
	assert.Equal(t, int32(4), b.Count)

	var size int32
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ColourVBO)
	gl.GetBufferParameteriv(gl.ARRAY_BUFFER, gl.BUFFER_SIZE, &size)
	assert.Equal(t, int32(4*3*f32), size)
	gltest.NoError(t)
}

func TestDrawFrame(t *testing.T) {
	gltest.Context(t)

	var l shaders.Loader
	program, err := l.BuildGLProgram("shaders/testdata/passthrough.vert", "shaders/testdata/solid.frag")
	require.NoError(t, err)
	b, err := TriangleFan().Upload()
	require.NoError(t, err)

	g := NewGLVars(program, b, mgl32.Vec4{0, 0, 0, 1}, true)
	assert.Equal(t, int32(-1), g.TimeUniform)
	g.Start()
	g.DrawFrame(1.5)
	assert.NoError(t, CheckError())

	g.Delete()
	assert.Zero(t, g.Program)
}
