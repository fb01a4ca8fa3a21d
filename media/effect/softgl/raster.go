package softgl

import (
	"encoding/binary"
	"image"
	"math"
	"strings"

	"github.com/chwjbn/vector-hub/media/effect"
)

// procedural quad used by programs that read gl_VertexID instead of attributes
var quadCorners = [4][2]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

type target struct {
	color   *texture
	stencil *renderbuffer
}

func (t *texture) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	rowLen := t.width * 4
	for y := 0; y < t.height; y++ {
		src := t.pix[(t.height-1-y)*rowLen : (t.height-y)*rowLen]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

func (t *texture) sample(u float32, v float32) [4]float32 {
	if !t.defined || t.width == 0 || t.height == 0 {
		return [4]float32{0, 0, 0, 1}
	}
	x := clampInt(int(math.Floor(float64(u*float32(t.width)))), 0, t.width-1)
	y := clampInt(int(math.Floor(float64(v*float32(t.height)))), 0, t.height-1)
	i := (y*t.width + x) * 4
	return [4]float32{
		float32(t.pix[i]) / 255,
		float32(t.pix[i+1]) / 255,
		float32(t.pix[i+2]) / 255,
		float32(t.pix[i+3]) / 255,
	}
}

func (d *Device) resolveTarget(fboId uint32) (target, bool) {
	if d.framebufferStatus(fboId) != effect.FramebufferComplete {
		return target{}, false
	}
	if fboId == 0 {
		return target{color: d.surface}, true
	}
	fb := d.objects[fboId].(*framebuffer)
	var t target
	if fb.color != 0 {
		t.color = d.objects[fb.color].(*texture)
	}
	if fb.depthStencil != 0 {
		t.stencil = d.objects[fb.depthStencil].(*renderbuffer)
	}
	return t, true
}

func (d *Device) Clear(mask uint32) {
	d.record("Clear", clearMaskName(mask))

	t, ok := d.resolveTarget(d.drawFbo)
	if !ok {
		d.setError(effect.InvalidFramebufferOperation)
		return
	}

	if mask&effect.ColorBufferBit != 0 && t.color != nil {
		c := toBytes(d.clearColor)
		for i := 0; i < len(t.color.pix); i += 4 {
			copy(t.color.pix[i:i+4], c[:])
		}
	}

	if mask&effect.StencilBufferBit != 0 && t.stencil != nil {
		wm := uint8(d.stencilWriteMask)
		v := uint8(d.clearStencil) & wm
		for i := range t.stencil.stencil {
			t.stencil.stencil[i] = (t.stencil.stencil[i] &^ wm) | v
		}
	}
}

type vertexOut struct {
	x, y float32
	u, v float32
}

func (d *Device) DrawArrays(mode uint32, first int32, count int32) {
	d.record("DrawArrays", enumName(mode), first, count)

	if mode != effect.Triangles && mode != effect.TriangleStrip && mode != effect.TriangleFan {
		d.setError(effect.InvalidEnum)
		return
	}
	if first < 0 || count < 0 {
		d.setError(effect.InvalidValue)
		return
	}

	prog, ok := d.objects[d.currentProgram].(*program)
	if !ok || !prog.linked {
		d.setError(effect.InvalidOperation)
		return
	}

	// core profile: no drawing without a vertex array object
	vao, ok := d.objects[d.vertexArray].(*vertexArray)
	if !ok {
		d.setError(effect.InvalidOperation)
		return
	}

	t, ok := d.resolveTarget(d.drawFbo)
	if !ok {
		d.setError(effect.InvalidFramebufferOperation)
		return
	}

	verts := make([]vertexOut, 0, count)
	for i := first; i < first+count; i++ {
		out, ok := d.shadeVertex(prog, vao, int(i))
		if !ok {
			d.setError(effect.InvalidOperation)
			return
		}
		verts = append(verts, out)
	}

	for _, tri := range assemble(mode, len(verts)) {
		d.rasterize(prog, t, verts[tri[0]], verts[tri[1]], verts[tri[2]])
	}
}

func assemble(mode uint32, n int) [][3]int {
	var tris [][3]int
	switch mode {
	case effect.Triangles:
		for i := 0; i+2 < n; i += 3 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case effect.TriangleStrip:
		for i := 0; i+2 < n; i++ {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case effect.TriangleFan:
		for i := 1; i+1 < n; i++ {
			tris = append(tris, [3]int{0, i, i + 1})
		}
	}
	return tris
}

func readVec2(b *buffer, a attrib, index int) ([2]float32, bool) {
	off := a.offset + index*int(a.stride)
	if a.size < 2 || off < 0 || off+8 > len(b.data) {
		return [2]float32{}, false
	}
	x := math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:]))
	y := math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+4:]))
	return [2]float32{x, y}, true
}

// shadeVertex mirrors the vertex stages this repo ships: position from slot 0
// (or the gl_VertexID quad), then transform, mat and scale when the program
// declares them.
func (d *Device) shadeVertex(prog *program, vao *vertexArray, index int) (vertexOut, bool) {

	var pos, uv [2]float32

	if strings.Contains(prog.vertexSrc, "gl_VertexID") {
		corner := quadCorners[index%4]
		uv = corner
		pos = [2]float32{corner[0]*2 - 1, corner[1]*2 - 1}
	} else {
		a := vao.attribs[0]
		b, ok := d.objects[a.buffer].(*buffer)
		if !a.enabled || !ok {
			return vertexOut{}, false
		}
		if pos, ok = readVec2(b, a, index); !ok {
			return vertexOut{}, false
		}
		if a1 := vao.attribs[1]; a1.enabled {
			b1, ok := d.objects[a1.buffer].(*buffer)
			if !ok {
				return vertexOut{}, false
			}
			if uv, ok = readVec2(b1, a1, index); !ok {
				return vertexOut{}, false
			}
		}

		if u, ok := prog.uniforms["transform"]; ok {
			pos[0] += u.floats[0]
			pos[1] += u.floats[1]
		}
		if u, ok := prog.uniforms["mat"]; ok {
			m := u.floats
			pos = [2]float32{m[0]*pos[0] + m[2]*pos[1], m[1]*pos[0] + m[3]*pos[1]}
		}
		if u, ok := prog.uniforms["scale"]; ok {
			pos[0] *= u.floats[0]
			pos[1] *= u.floats[1]
		}
	}

	vp := d.viewport
	return vertexOut{
		x: float32(vp[0]) + (pos[0]+1)*float32(vp[2])/2,
		y: float32(vp[1]) + (pos[1]+1)*float32(vp[3])/2,
		u: uv[0],
		v: uv[1],
	}, true
}

// shadeFragment mirrors the fragment stages: a flat color uniform, otherwise
// the first sampler.
func (d *Device) shadeFragment(prog *program, u float32, v float32) [4]float32 {
	if c, ok := prog.uniforms["color"]; ok && c.typ == "vec4" {
		return c.floats
	}
	for _, un := range prog.uniforms {
		if un.typ != "sampler2D" {
			continue
		}
		if un.ints < 0 || un.ints >= maxTextureUnits {
			return [4]float32{0, 0, 0, 1}
		}
		tex, ok := d.objects[d.units[un.ints].tex2D].(*texture)
		if !ok {
			return [4]float32{0, 0, 0, 1}
		}
		c := tex.sample(u, v)
		if !strings.Contains(prog.fragmentSrc, ".rgb") {
			return c
		}
		return [4]float32{c[0], c[1], c[2], 1}
	}
	return [4]float32{1, 1, 1, 1}
}

func edge(a vertexOut, b vertexOut, px float32, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (d *Device) rasterize(prog *program, t target, a vertexOut, b vertexOut, c vertexOut) {

	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	vp := d.viewport
	minX := maxInt(int(math.Floor(float64(min3(a.x, b.x, c.x)))), int(vp[0]), 0)
	minY := maxInt(int(math.Floor(float64(min3(a.y, b.y, c.y)))), int(vp[1]), 0)
	maxX := minInt(int(math.Ceil(float64(max3(a.x, b.x, c.x)))), int(vp[0]+vp[2]), t.color.width)
	maxY := minInt(int(math.Ceil(float64(max3(a.y, b.y, c.y)))), int(vp[1]+vp[3]), t.color.height)

	useStencil := d.enabled[effect.StencilTest] && t.stencil != nil

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5

			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			if useStencil && !d.stencilPasses(t.stencil, x, y) {
				continue
			}

			u := w0*a.u + w1*b.u + w2*c.u
			v := w0*a.v + w1*b.v + w2*c.v

			col := toBytes(d.shadeFragment(prog, u, v))
			i := (y*t.color.width + x) * 4
			copy(t.color.pix[i:i+4], col[:])
		}
	}
}

func (d *Device) stencilPasses(rb *renderbuffer, x int, y int) bool {
	if x >= rb.width || y >= rb.height {
		return false
	}
	i := y*rb.width + x
	s := uint32(rb.stencil[i])
	ref := uint32(d.stencilRef)
	mask := d.stencilValueMask

	pass := false
	switch d.stencilFunc {
	case effect.Always:
		pass = true
	case effect.Never:
		pass = false
	case effect.Equal:
		pass = ref&mask == s&mask
	case effect.NotEqual:
		pass = ref&mask != s&mask
	}

	op := d.stencilFail
	if pass {
		op = d.stencilPass
	}
	if op == effect.Replace {
		wm := uint8(d.stencilWriteMask)
		rb.stencil[i] = (rb.stencil[i] &^ wm) | (uint8(ref) & wm)
	}

	return pass
}

func (d *Device) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter uint32) {
	d.record("BlitFramebuffer", srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, clearMaskName(mask), enumName(filter))

	src, okSrc := d.resolveTarget(d.readFbo)
	dst, okDst := d.resolveTarget(d.drawFbo)
	if !okSrc || !okDst {
		d.setError(effect.InvalidFramebufferOperation)
		return
	}
	if mask&effect.ColorBufferBit == 0 || src.color == nil || dst.color == nil {
		return
	}

	srcW := srcX1 - srcX0
	srcH := srcY1 - srcY0
	dstW := dstX1 - dstX0
	dstH := dstY1 - dstY0
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return
	}
	if (src.color.samples > 0 || dst.color.samples > 0) && (srcW != dstW || srcH != dstH) {
		d.setError(effect.InvalidOperation)
		return
	}

	for y := maxInt(int(dstY0), 0, 0); y < minInt(int(dstY1), dst.color.height, dst.color.height); y++ {
		for x := maxInt(int(dstX0), 0, 0); x < minInt(int(dstX1), dst.color.width, dst.color.width); x++ {
			sx := int(srcX0) + int((float32(x-int(dstX0))+0.5)*float32(srcW)/float32(dstW))
			sy := int(srcY0) + int((float32(y-int(dstY0))+0.5)*float32(srcH)/float32(dstH))
			if sx < 0 || sy < 0 || sx >= src.color.width || sy >= src.color.height {
				continue
			}
			si := (sy*src.color.width + sx) * 4
			di := (y*dst.color.width + x) * 4
			copy(dst.color.pix[di:di+4], src.color.pix[si:si+4])
		}
	}
}

func (d *Device) ReadPixels(x int32, y int32, width int32, height int32, pix []byte) {
	d.record("ReadPixels", x, y, width, height)

	src, ok := d.resolveTarget(d.readFbo)
	if !ok || src.color == nil {
		d.setError(effect.InvalidFramebufferOperation)
		return
	}
	if src.color.samples > 0 {
		d.setError(effect.InvalidOperation)
		return
	}

	rowLen := alignUp(int(width)*4, int(d.packAlignment))
	if len(pix) < rowLen*(int(height)-1)+int(width)*4 {
		d.setError(effect.InvalidOperation)
		return
	}

	for row := 0; row < int(height); row++ {
		sy := int(y) + row
		if sy < 0 || sy >= src.color.height {
			continue
		}
		for col := 0; col < int(width); col++ {
			sx := int(x) + col
			if sx < 0 || sx >= src.color.width {
				continue
			}
			si := (sy*src.color.width + sx) * 4
			di := row*rowLen + col*4
			copy(pix[di:di+4], src.color.pix[si:si+4])
		}
	}
}

// StencilAt reads the stencil value of the draw framebuffer at x, y.
func (d *Device) StencilAt(x int, y int) (uint8, bool) {
	t, ok := d.resolveTarget(d.drawFbo)
	if !ok || t.stencil == nil || x < 0 || y < 0 || x >= t.stencil.width || y >= t.stencil.height {
		return 0, false
	}
	return t.stencil.stencil[y*t.stencil.width+x], true
}

func toBytes(c [4]float32) [4]uint8 {
	var out [4]uint8
	for i, f := range c {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		out[i] = uint8(f*255 + 0.5)
	}
	return out
}

func clearMaskName(mask uint32) string {
	var names []string
	if mask&effect.ColorBufferBit != 0 {
		names = append(names, "COLOR")
	}
	if mask&effect.DepthBufferBit != 0 {
		names = append(names, "DEPTH")
	}
	if mask&effect.StencilBufferBit != 0 {
		names = append(names, "STENCIL")
	}
	return strings.Join(names, "|")
}

func clampInt(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a int, b int, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxInt(a int, b int, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a float32, b float32, c float32) float32 {
	return float32(math.Min(float64(a), math.Min(float64(b), float64(c))))
}

func max3(a float32, b float32, c float32) float32 {
	return float32(math.Max(float64(a), math.Max(float64(b), float64(c))))
}
