package renderer

import (
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goshaderhost/program"
)

// corners of the full-screen quad in counter-clockwise order.
var corners = [4]struct{ x, y, u, v float32 }{
	{-1, -1, 0, 0},
	{1, -1, 1, 0},
	{1, 1, 1, 1},
	{-1, 1, 0, 1},
}

var quadIndices = []uint32{0, 1, 2, 0, 2, 3}

// quadVertices interleaves the quad corners in the order and sizes of layout.
// Attributes other than position and texCoord are zero-filled.
func quadVertices(layout program.Layout) []float32 {
	data := make([]float32, 0, len(corners)*int(layout.Stride()))
	for _, c := range corners {
		for _, a := range layout {
			var comps []float32
			switch a.Name {
			case "position":
				comps = []float32{c.x, c.y, 0, 1}
			case "texCoord":
				comps = []float32{c.u, c.v, 0, 0}
			default:
				comps = make([]float32, 4)
			}
			data = append(data, comps[:a.Size]...)
		}
	}
	return data
}

// Quad owns the vertex array, vertex buffer and index buffer of the
// full-screen quad.
type Quad struct {
	layout  program.Layout
	vao     uint32
	vbo     uint32
	ebo     uint32
	enabled []uint32
}

func NewQuad(layout program.Layout) (*Quad, error) {
	for _, a := range layout {
		if a.Size < 1 || a.Size > 4 {
			return nil, fmt.Errorf("attribute %s has %d components", a.Name, a.Size)
		}
	}
	q := &Quad{layout: layout}
	vertices := quadVertices(layout)

	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.GenBuffers(1, &q.ebo)

	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	return q, nil
}

// Bind points the quad's attributes at the locations p resolved. It must be
// called whenever the active program changes.
func (q *Quad) Bind(p *program.Program) error {
	gl.BindVertexArray(q.vao)
	defer gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)

	for _, loc := range q.enabled {
		gl.DisableVertexAttribArray(loc)
	}
	q.enabled = q.enabled[:0]

	stride := q.layout.Stride() * 4
	for _, a := range q.layout {
		loc, ok := p.AttribLocation(a.Name)
		if !ok {
			if a.Required {
				return &program.AttributeError{Name: a.Name}
			}
			continue
		}
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), a.Size, gl.FLOAT, false, stride, gl.PtrOffset(int(q.layout.Offset(a.Name)*4)))
		q.enabled = append(q.enabled, uint32(loc))
	}
	log.Printf("Bound quad attributes to program %d", p.Handle())
	return nil
}

func (q *Quad) Draw(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(q.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (q *Quad) Destroy() {
	gl.DeleteBuffers(1, &q.ebo)
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
}
