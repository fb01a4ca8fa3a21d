package effect

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// Vert is an outline vertex in pixel space.
type Vert struct {
	Pos mgl32.Vec2
}

// TexVert is a textured quad vertex.
type TexVert struct {
	Pos mgl32.Vec2
	UV  mgl32.Vec2
}

type VertexAttrib struct {
	Slot       uint32
	Components int32
	Offset     int
}

// VertexLayout describes float attributes interleaved in one buffer.
type VertexLayout struct {
	Stride  int
	Attribs []VertexAttrib
}

var (
	VertLayout = VertexLayout{
		Stride:  int(unsafe.Sizeof(Vert{})),
		Attribs: []VertexAttrib{{Slot: 0, Components: 2, Offset: 0}},
	}

	TexVertLayout = VertexLayout{
		Stride: int(unsafe.Sizeof(TexVert{})),
		Attribs: []VertexAttrib{
			{Slot: 0, Components: 2, Offset: 0},
			{Slot: 1, Components: 2, Offset: 8},
		},
	}
)

func (l VertexLayout) validate(recordSize int) error {

	if l.Stride != recordSize {
		return errors.Newf("layout stride=[%d] does not match vertex size=[%d]", l.Stride, recordSize)
	}

	if len(l.Attribs) < 1 {
		return errors.New("layout has no attributes")
	}

	for _, attr := range l.Attribs {
		if attr.Components < 1 || attr.Components > 4 {
			return errors.Newf("attribute slot=[%d] has invalid component count=[%d]", attr.Slot, attr.Components)
		}
		if attr.Offset < 0 || attr.Offset+int(attr.Components)*4 > l.Stride {
			return errors.Newf("attribute slot=[%d] does not fit in stride=[%d]", attr.Slot, l.Stride)
		}
	}

	return nil
}

// GeometryBuffer is static vertex data on the device. There is no update path:
// new geometry means a new buffer.
type GeometryBuffer struct {
	dev    Device
	vao    uint32
	vbo    uint32
	count  int
	layout VertexLayout
}

// UploadGeometry copies vertices into a new buffer described by layout.
// An empty slice gives a buffer that draws nothing.
func UploadGeometry[V any](dev Device, vertices []V, layout VertexLayout) (*GeometryBuffer, error) {

	var zero V
	recordSize := int(unsafe.Sizeof(zero))

	if xErr := layout.validate(recordSize); xErr != nil {
		return nil, xErr
	}

	var data []byte
	if len(vertices) > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*recordSize)
	}

	geo := &GeometryBuffer{
		dev:    dev,
		count:  len(vertices),
		layout: layout,
	}

	geo.vao = dev.GenVertexArray()
	geo.vbo = dev.GenBuffer()

	dev.BindVertexArray(geo.vao)
	dev.BindBuffer(ArrayBuffer, geo.vbo)
	dev.BufferData(ArrayBuffer, data, StaticDraw)

	for _, attr := range layout.Attribs {
		dev.VertexAttribPointer(attr.Slot, attr.Components, int32(layout.Stride), attr.Offset)
		dev.EnableVertexAttribArray(attr.Slot)
	}

	dev.BindVertexArray(0)
	dev.BindBuffer(ArrayBuffer, 0)

	return geo, nil
}

func (geo *GeometryBuffer) Count() int {
	return geo.count
}

func (geo *GeometryBuffer) Layout() VertexLayout {
	return geo.layout
}

// Draw issues one draw call over every vertex with the given topology.
func (geo *GeometryBuffer) Draw(mode uint32) {

	if geo.count == 0 {
		return
	}

	geo.dev.BindVertexArray(geo.vao)
	geo.dev.DrawArrays(mode, 0, int32(geo.count))
	geo.dev.BindVertexArray(0)
}

func (geo *GeometryBuffer) Delete() {
	if geo.vao == 0 {
		return
	}
	geo.dev.DeleteVertexArray(geo.vao)
	geo.dev.DeleteBuffer(geo.vbo)
	geo.vao = 0
	geo.vbo = 0
}
