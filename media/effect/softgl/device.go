// Package softgl is a software implementation of effect.Device. It keeps every
// GL object in memory, counts live objects per kind, records the command stream
// and rasterizes draws with one sample per pixel, so a frame rendered through it
// can be read back and inspected without a GPU.
package softgl

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/chwjbn/vector-hub/media/effect"
)

const maxTextureUnits = 16

type shader struct {
	stage    uint32
	src      string
	compiled bool
	log      string
}

type uniform struct {
	name   string
	typ    string
	loc    int32
	floats [4]float32
	ints   int32
}

type program struct {
	attached    []uint32
	linked      bool
	log         string
	uniforms    map[string]*uniform
	byLoc       map[int32]*uniform
	vertexSrc   string
	fragmentSrc string
}

type buffer struct {
	data []byte
}

type attrib struct {
	enabled bool
	size    int32
	stride  int32
	offset  int
	buffer  uint32
}

type vertexArray struct {
	attribs [16]attrib
}

type texture struct {
	target  uint32
	defined bool
	width   int
	height  int
	samples int
	pix     []uint8
}

type renderbuffer struct {
	defined bool
	width   int
	height  int
	samples int
	stencil []uint8
}

type framebuffer struct {
	color        uint32
	depthStencil uint32
}

type textureUnit struct {
	tex2D   uint32
	tex2DMS uint32
}

// Device is a single-threaded software GL context with a default framebuffer
// of a fixed size acting as the window surface.
type Device struct {
	// MaxSamples is the largest sample count multisample storage accepts.
	MaxSamples int

	// FailPresent, when set, is returned by SwapBuffers.
	FailPresent error

	nextId  uint32
	objects map[uint32]interface{}

	surface *texture
	front   *image.RGBA

	currentProgram uint32
	arrayBuffer    uint32
	vertexArray    uint32
	activeUnit     int
	units          [maxTextureUnits]textureUnit
	readFbo        uint32
	drawFbo        uint32
	renderbuffer   uint32

	viewport     [4]int32
	clearColor   [4]float32
	clearStencil int32
	enabled      map[uint32]bool

	stencilFunc      uint32
	stencilRef       int32
	stencilValueMask uint32
	stencilFail      uint32
	stencilDepthFail uint32
	stencilPass      uint32
	stencilWriteMask uint32

	unpackAlignment int32
	packAlignment   int32

	pendingError uint32
	presents     int
	calls        []string
}

var _ effect.Device = (*Device)(nil)
var _ effect.Surface = (*Device)(nil)

// New creates a device whose default framebuffer is width x height.
func New(width int, height int) *Device {
	d := &Device{
		MaxSamples:       16,
		nextId:           1,
		objects:          make(map[uint32]interface{}),
		enabled:          make(map[uint32]bool),
		stencilFunc:      effect.Always,
		stencilValueMask: 0xFF,
		stencilFail:      effect.Keep,
		stencilDepthFail: effect.Keep,
		stencilPass:      effect.Keep,
		stencilWriteMask: 0xFF,
		unpackAlignment:  4,
		packAlignment:    4,
	}
	d.SetSurfaceSize(width, height)
	return d
}

// SetSurfaceSize reallocates the default framebuffer, as a window resize would.
// The viewport is left alone.
func (d *Device) SetSurfaceSize(width int, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	d.surface = &texture{
		target:  effect.Texture2D,
		defined: true,
		width:   width,
		height:  height,
		pix:     make([]uint8, width*height*4),
	}
	if d.viewport == [4]int32{} {
		d.viewport = [4]int32{0, 0, int32(width), int32(height)}
	}
}

func (d *Device) alloc(obj interface{}) uint32 {
	id := d.nextId
	d.nextId++
	d.objects[id] = obj
	return id
}

func (d *Device) setError(code uint32) {
	if d.pendingError == effect.NoError {
		d.pendingError = code
	}
}

func (d *Device) record(name string, args ...interface{}) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	d.calls = append(d.calls, name+"("+strings.Join(parts, ",")+")")
}

// Calls returns every recorded command since the last ResetCalls.
func (d *Device) Calls() []string {
	return append([]string(nil), d.calls...)
}

func (d *Device) ResetCalls() {
	d.calls = nil
}

// Live counts objects of a kind that have been created and not deleted. Kinds
// are "shader", "program", "buffer", "vertexarray", "texture", "renderbuffer"
// and "framebuffer".
func (d *Device) Live(kind string) int {
	return d.LiveObjects()[kind]
}

func (d *Device) LiveObjects() map[string]int {
	counts := make(map[string]int)
	for _, obj := range d.objects {
		counts[kindName(obj)]++
	}
	return counts
}

func (d *Device) LiveTotal() int {
	return len(d.objects)
}

// LiveSummary is a stable text form of LiveObjects for test failures.
func (d *Device) LiveSummary() string {
	counts := d.LiveObjects()
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, kind := range kinds {
		parts[i] = fmt.Sprintf("%s=%d", kind, counts[kind])
	}
	return strings.Join(parts, " ")
}

func kindName(obj interface{}) string {
	switch obj.(type) {
	case *shader:
		return "shader"
	case *program:
		return "program"
	case *buffer:
		return "buffer"
	case *vertexArray:
		return "vertexarray"
	case *texture:
		return "texture"
	case *renderbuffer:
		return "renderbuffer"
	case *framebuffer:
		return "framebuffer"
	}
	return "unknown"
}

// InjectError queues a GL error as if the last command had raised it.
func (d *Device) InjectError(code uint32) {
	d.setError(code)
}

func (d *Device) Enabled(capability uint32) bool {
	return d.enabled[capability]
}

func (d *Device) ViewportRect() [4]int32 {
	return d.viewport
}

// Presented is the number of successful SwapBuffers calls.
func (d *Device) Presented() int {
	return d.presents
}

// Screen is the image shown by the last SwapBuffers, top row first.
func (d *Device) Screen() *image.RGBA {
	return d.front
}

func (d *Device) SwapBuffers() error {
	d.record("SwapBuffers")
	if d.FailPresent != nil {
		return d.FailPresent
	}
	d.front = d.surface.image()
	d.presents++
	return nil
}

func (d *Device) GetError() uint32 {
	code := d.pendingError
	d.pendingError = effect.NoError
	return code
}

// shaders

func (d *Device) CreateShader(stage uint32) uint32 {
	if stage != effect.VertexShader && stage != effect.FragmentShader {
		d.setError(effect.InvalidEnum)
		return 0
	}
	id := d.alloc(&shader{stage: stage})
	d.record("CreateShader", enumName(stage))
	return id
}

func (d *Device) shader(id uint32) *shader {
	s, ok := d.objects[id].(*shader)
	if !ok {
		d.setError(effect.InvalidValue)
		return nil
	}
	return s
}

func (d *Device) ShaderSource(id uint32, src string) {
	if s := d.shader(id); s != nil {
		s.src = src
	}
}

func (d *Device) CompileShader(id uint32) {
	d.record("CompileShader", id)
	s := d.shader(id)
	if s == nil {
		return
	}
	s.log = checkSource(s.src)
	s.compiled = s.log == ""
}

func (d *Device) ShaderCompiled(id uint32) bool {
	s := d.shader(id)
	return s != nil && s.compiled
}

func (d *Device) ShaderInfoLog(id uint32) string {
	if s := d.shader(id); s != nil {
		return s.log
	}
	return ""
}

func (d *Device) DeleteShader(id uint32) {
	if id == 0 {
		return
	}
	if _, ok := d.objects[id].(*shader); ok {
		delete(d.objects, id)
		d.record("DeleteShader", id)
	}
}

// programs

func (d *Device) CreateProgram() uint32 {
	id := d.alloc(&program{})
	d.record("CreateProgram")
	return id
}

func (d *Device) program(id uint32) *program {
	p, ok := d.objects[id].(*program)
	if !ok {
		d.setError(effect.InvalidValue)
		return nil
	}
	return p
}

func (d *Device) AttachShader(programId uint32, shaderId uint32) {
	p := d.program(programId)
	if p == nil || d.shader(shaderId) == nil {
		return
	}
	p.attached = append(p.attached, shaderId)
}

func (d *Device) DetachShader(programId uint32, shaderId uint32) {
	p := d.program(programId)
	if p == nil {
		return
	}
	for i, id := range p.attached {
		if id == shaderId {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			return
		}
	}
	d.setError(effect.InvalidOperation)
}

func (d *Device) LinkProgram(id uint32) {
	d.record("LinkProgram", id)
	p := d.program(id)
	if p == nil {
		return
	}

	p.linked = false
	p.uniforms = nil
	p.byLoc = nil

	var vertex, fragment *shader
	for _, sid := range p.attached {
		s := d.shader(sid)
		if s == nil {
			continue
		}
		if !s.compiled {
			p.log = "error: linking with uncompiled shader"
			return
		}
		switch s.stage {
		case effect.VertexShader:
			vertex = s
		case effect.FragmentShader:
			fragment = s
		}
	}

	if vertex == nil || fragment == nil {
		p.log = "error: program lacks a vertex or fragment shader"
		return
	}

	uniforms, log := linkStages(vertex.src, fragment.src)
	if log != "" {
		p.log = log
		return
	}

	p.log = ""
	p.linked = true
	p.uniforms = uniforms
	p.byLoc = make(map[int32]*uniform, len(uniforms))
	for _, u := range uniforms {
		p.byLoc[u.loc] = u
	}
	p.vertexSrc = vertex.src
	p.fragmentSrc = fragment.src
}

func (d *Device) ProgramLinked(id uint32) bool {
	p := d.program(id)
	return p != nil && p.linked
}

func (d *Device) ProgramInfoLog(id uint32) string {
	if p := d.program(id); p != nil {
		return p.log
	}
	return ""
}

func (d *Device) UseProgram(id uint32) {
	d.record("UseProgram", id)
	if id == 0 {
		d.currentProgram = 0
		return
	}
	p := d.program(id)
	if p == nil || !p.linked {
		d.setError(effect.InvalidOperation)
		return
	}
	d.currentProgram = id
}

func (d *Device) DeleteProgram(id uint32) {
	if id == 0 {
		return
	}
	if _, ok := d.objects[id].(*program); ok {
		delete(d.objects, id)
		if d.currentProgram == id {
			d.currentProgram = 0
		}
		d.record("DeleteProgram", id)
	}
}

func (d *Device) GetUniformLocation(id uint32, name string) int32 {
	p := d.program(id)
	if p == nil {
		return -1
	}
	if !p.linked {
		d.setError(effect.InvalidOperation)
		return -1
	}
	u, ok := p.uniforms[name]
	if !ok {
		return -1
	}
	return u.loc
}

func (d *Device) currentUniform(loc int32, types ...string) *uniform {
	if loc == -1 {
		return nil
	}
	p, ok := d.objects[d.currentProgram].(*program)
	if !ok {
		d.setError(effect.InvalidOperation)
		return nil
	}
	u, ok := p.byLoc[loc]
	if !ok {
		d.setError(effect.InvalidOperation)
		return nil
	}
	for _, typ := range types {
		if u.typ == typ {
			return u
		}
	}
	d.setError(effect.InvalidOperation)
	return nil
}

func (d *Device) Uniform1i(loc int32, v int32) {
	d.record("Uniform1i", loc, v)
	if u := d.currentUniform(loc, "int", "sampler2D", "bool"); u != nil {
		u.ints = v
	}
}

func (d *Device) Uniform2f(loc int32, x float32, y float32) {
	d.record("Uniform2f", loc, x, y)
	if u := d.currentUniform(loc, "vec2"); u != nil {
		u.floats = [4]float32{x, y}
	}
}

func (d *Device) Uniform4f(loc int32, x float32, y float32, z float32, w float32) {
	d.record("Uniform4f", loc, x, y, z, w)
	if u := d.currentUniform(loc, "vec4"); u != nil {
		u.floats = [4]float32{x, y, z, w}
	}
}

func (d *Device) UniformMatrix2fv(loc int32, m [4]float32) {
	d.record("UniformMatrix2fv", loc, m)
	if u := d.currentUniform(loc, "mat2"); u != nil {
		u.floats = m
	}
}

// UniformValue returns the floats stored for a uniform of a program, for tests.
func (d *Device) UniformValue(programId uint32, name string) ([4]float32, bool) {
	p, ok := d.objects[programId].(*program)
	if !ok || p.uniforms == nil {
		return [4]float32{}, false
	}
	u, ok := p.uniforms[name]
	if !ok {
		return [4]float32{}, false
	}
	return u.floats, true
}

// buffers and vertex arrays

func (d *Device) GenBuffer() uint32 {
	return d.alloc(&buffer{})
}

func (d *Device) BindBuffer(target uint32, id uint32) {
	if target != effect.ArrayBuffer {
		d.setError(effect.InvalidEnum)
		return
	}
	if id != 0 {
		if _, ok := d.objects[id].(*buffer); !ok {
			d.setError(effect.InvalidOperation)
			return
		}
	}
	d.arrayBuffer = id
}

func (d *Device) BufferData(target uint32, data []byte, usage uint32) {
	b, ok := d.objects[d.arrayBuffer].(*buffer)
	if target != effect.ArrayBuffer || !ok {
		d.setError(effect.InvalidOperation)
		return
	}
	b.data = append([]byte(nil), data...)
}

func (d *Device) DeleteBuffer(id uint32) {
	if _, ok := d.objects[id].(*buffer); ok {
		delete(d.objects, id)
		if d.arrayBuffer == id {
			d.arrayBuffer = 0
		}
	}
}

func (d *Device) GenVertexArray() uint32 {
	return d.alloc(&vertexArray{})
}

func (d *Device) BindVertexArray(id uint32) {
	if id != 0 {
		if _, ok := d.objects[id].(*vertexArray); !ok {
			d.setError(effect.InvalidOperation)
			return
		}
	}
	d.vertexArray = id
}

func (d *Device) boundVertexArray() *vertexArray {
	vao, ok := d.objects[d.vertexArray].(*vertexArray)
	if !ok {
		d.setError(effect.InvalidOperation)
		return nil
	}
	return vao
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	vao := d.boundVertexArray()
	if vao == nil || int(index) >= len(vao.attribs) {
		return
	}
	vao.attribs[index].enabled = true
}

func (d *Device) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	vao := d.boundVertexArray()
	if vao == nil || int(index) >= len(vao.attribs) {
		return
	}
	if d.arrayBuffer == 0 {
		d.setError(effect.InvalidOperation)
		return
	}
	a := &vao.attribs[index]
	a.size = size
	a.stride = stride
	a.offset = offset
	a.buffer = d.arrayBuffer
}

func (d *Device) DeleteVertexArray(id uint32) {
	if _, ok := d.objects[id].(*vertexArray); ok {
		delete(d.objects, id)
		if d.vertexArray == id {
			d.vertexArray = 0
		}
	}
}

// textures

func (d *Device) GenTexture() uint32 {
	return d.alloc(&texture{})
}

func (d *Device) ActiveTexture(unit uint32) {
	d.record("ActiveTexture", unit-effect.Texture0)
	if unit < effect.Texture0 || unit >= effect.Texture0+maxTextureUnits {
		d.setError(effect.InvalidEnum)
		return
	}
	d.activeUnit = int(unit - effect.Texture0)
}

func (d *Device) BindTexture(target uint32, id uint32) {
	d.record("BindTexture", enumName(target), id)
	if id != 0 {
		tex, ok := d.objects[id].(*texture)
		if !ok {
			d.setError(effect.InvalidOperation)
			return
		}
		if tex.target != 0 && tex.target != target {
			d.setError(effect.InvalidOperation)
			return
		}
		tex.target = target
	}
	switch target {
	case effect.Texture2D:
		d.units[d.activeUnit].tex2D = id
	case effect.Texture2DMultisample:
		d.units[d.activeUnit].tex2DMS = id
	default:
		d.setError(effect.InvalidEnum)
	}
}

func (d *Device) boundTexture(target uint32) *texture {
	var id uint32
	switch target {
	case effect.Texture2D:
		id = d.units[d.activeUnit].tex2D
	case effect.Texture2DMultisample:
		id = d.units[d.activeUnit].tex2DMS
	}
	tex, ok := d.objects[id].(*texture)
	if !ok {
		d.setError(effect.InvalidOperation)
		return nil
	}
	return tex
}

func (d *Device) TexParameteri(target uint32, pname uint32, param int32) {
	d.boundTexture(target)
}

func (d *Device) PixelStorei(pname uint32, param int32) {
	if param != 1 && param != 2 && param != 4 && param != 8 {
		d.setError(effect.InvalidValue)
		return
	}
	switch pname {
	case effect.UnpackAlignment:
		d.unpackAlignment = param
	case effect.PackAlignment:
		d.packAlignment = param
	default:
		d.setError(effect.InvalidEnum)
	}
}

func (d *Device) TexImage2D(target uint32, internalFormat int32, width int32, height int32, format uint32, pix []byte) {
	d.record("TexImage2D", enumName(target), width, height)
	tex := d.boundTexture(target)
	if tex == nil {
		return
	}
	if width < 0 || height < 0 {
		d.setError(effect.InvalidValue)
		return
	}

	channels := 4
	switch format {
	case effect.RGBA:
	case effect.RGB:
		channels = 3
	default:
		d.setError(effect.InvalidEnum)
		return
	}

	w, h := int(width), int(height)
	tex.defined = true
	tex.width = w
	tex.height = h
	tex.samples = 0
	tex.pix = make([]uint8, w*h*4)

	if pix == nil {
		return
	}

	rowLen := alignUp(w*channels, int(d.unpackAlignment))
	if len(pix) < rowLen*(h-1)+w*channels {
		d.setError(effect.InvalidOperation)
		return
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := y*rowLen + x*channels
			di := (y*w + x) * 4
			tex.pix[di] = pix[si]
			tex.pix[di+1] = pix[si+1]
			tex.pix[di+2] = pix[si+2]
			tex.pix[di+3] = 0xFF
			if channels == 4 {
				tex.pix[di+3] = pix[si+3]
			}
		}
	}
}

func (d *Device) TexImage2DMultisample(target uint32, samples int32, internalFormat uint32, width int32, height int32) {
	d.record("TexImage2DMultisample", samples, width, height)
	tex := d.boundTexture(target)
	if tex == nil {
		return
	}
	if target != effect.Texture2DMultisample || width < 0 || height < 0 || samples < 1 {
		d.setError(effect.InvalidValue)
		return
	}
	if int(samples) > d.MaxSamples {
		d.setError(effect.InvalidOperation)
		return
	}
	tex.defined = true
	tex.width = int(width)
	tex.height = int(height)
	tex.samples = int(samples)
	tex.pix = make([]uint8, int(width)*int(height)*4)
}

func (d *Device) DeleteTexture(id uint32) {
	if _, ok := d.objects[id].(*texture); !ok {
		return
	}
	delete(d.objects, id)
	for i := range d.units {
		if d.units[i].tex2D == id {
			d.units[i].tex2D = 0
		}
		if d.units[i].tex2DMS == id {
			d.units[i].tex2DMS = 0
		}
	}
}

// renderbuffers

func (d *Device) GenRenderbuffer() uint32 {
	return d.alloc(&renderbuffer{})
}

func (d *Device) BindRenderbuffer(id uint32) {
	if id != 0 {
		if _, ok := d.objects[id].(*renderbuffer); !ok {
			d.setError(effect.InvalidOperation)
			return
		}
	}
	d.renderbuffer = id
}

func (d *Device) RenderbufferStorageMultisample(samples int32, internalFormat uint32, width int32, height int32) {
	d.record("RenderbufferStorageMultisample", samples, enumName(internalFormat), width, height)
	rb, ok := d.objects[d.renderbuffer].(*renderbuffer)
	if !ok {
		d.setError(effect.InvalidOperation)
		return
	}
	if width < 0 || height < 0 || samples < 0 {
		d.setError(effect.InvalidValue)
		return
	}
	if int(samples) > d.MaxSamples {
		d.setError(effect.InvalidOperation)
		return
	}
	rb.defined = true
	rb.width = int(width)
	rb.height = int(height)
	rb.samples = int(samples)
	rb.stencil = make([]uint8, int(width)*int(height))
}

func (d *Device) DeleteRenderbuffer(id uint32) {
	if _, ok := d.objects[id].(*renderbuffer); ok {
		delete(d.objects, id)
		if d.renderbuffer == id {
			d.renderbuffer = 0
		}
	}
}

// framebuffers

func (d *Device) GenFramebuffer() uint32 {
	return d.alloc(&framebuffer{})
}

func (d *Device) BindFramebuffer(target uint32, id uint32) {
	d.record("BindFramebuffer", enumName(target), id)
	if id != 0 {
		if _, ok := d.objects[id].(*framebuffer); !ok {
			d.setError(effect.InvalidOperation)
			return
		}
	}
	switch target {
	case effect.Framebuffer:
		d.readFbo = id
		d.drawFbo = id
	case effect.ReadFramebuffer:
		d.readFbo = id
	case effect.DrawFramebuffer:
		d.drawFbo = id
	default:
		d.setError(effect.InvalidEnum)
	}
}

func (d *Device) boundFramebuffer(target uint32) (uint32, bool) {
	switch target {
	case effect.Framebuffer, effect.DrawFramebuffer:
		return d.drawFbo, true
	case effect.ReadFramebuffer:
		return d.readFbo, true
	}
	d.setError(effect.InvalidEnum)
	return 0, false
}

func (d *Device) FramebufferTexture2D(target uint32, attachment uint32, texTarget uint32, id uint32) {
	fboId, ok := d.boundFramebuffer(target)
	if !ok {
		return
	}
	fb, ok := d.objects[fboId].(*framebuffer)
	if !ok {
		d.setError(effect.InvalidOperation)
		return
	}
	if attachment != effect.ColorAttachment0 {
		d.setError(effect.InvalidEnum)
		return
	}
	if id != 0 {
		tex, ok := d.objects[id].(*texture)
		if !ok || tex.target != texTarget {
			d.setError(effect.InvalidOperation)
			return
		}
	}
	fb.color = id
}

func (d *Device) FramebufferRenderbuffer(target uint32, attachment uint32, id uint32) {
	fboId, ok := d.boundFramebuffer(target)
	if !ok {
		return
	}
	fb, ok := d.objects[fboId].(*framebuffer)
	if !ok {
		d.setError(effect.InvalidOperation)
		return
	}
	if attachment != effect.DepthStencilAttachment {
		d.setError(effect.InvalidEnum)
		return
	}
	if id != 0 {
		if _, ok := d.objects[id].(*renderbuffer); !ok {
			d.setError(effect.InvalidOperation)
			return
		}
	}
	fb.depthStencil = id
}

func (d *Device) CheckFramebufferStatus(target uint32) uint32 {
	fboId, ok := d.boundFramebuffer(target)
	if !ok {
		return 0
	}
	status := d.framebufferStatus(fboId)
	d.record("CheckFramebufferStatus", enumName(status))
	return status
}

func (d *Device) framebufferStatus(fboId uint32) uint32 {
	if fboId == 0 {
		if d.surface.width == 0 || d.surface.height == 0 {
			return effect.FramebufferUnsupported
		}
		return effect.FramebufferComplete
	}

	fb, ok := d.objects[fboId].(*framebuffer)
	if !ok {
		return effect.FramebufferUnsupported
	}

	if fb.color == 0 && fb.depthStencil == 0 {
		return effect.FramebufferIncompleteMissingAttachment
	}

	samples := -1
	if fb.color != 0 {
		tex, ok := d.objects[fb.color].(*texture)
		if !ok || !tex.defined || tex.width == 0 || tex.height == 0 {
			return effect.FramebufferIncompleteAttachment
		}
		samples = tex.samples
	}

	if fb.depthStencil != 0 {
		rb, ok := d.objects[fb.depthStencil].(*renderbuffer)
		if !ok || !rb.defined || rb.width == 0 || rb.height == 0 {
			return effect.FramebufferIncompleteAttachment
		}
		if samples >= 0 && rb.samples != samples {
			return effect.FramebufferIncompleteMultisample
		}
	}

	return effect.FramebufferComplete
}

func (d *Device) DeleteFramebuffer(id uint32) {
	if _, ok := d.objects[id].(*framebuffer); !ok {
		return
	}
	delete(d.objects, id)
	if d.readFbo == id {
		d.readFbo = 0
	}
	if d.drawFbo == id {
		d.drawFbo = 0
	}
}

// fixed function state

func (d *Device) Viewport(x int32, y int32, width int32, height int32) {
	d.record("Viewport", x, y, width, height)
	if width < 0 || height < 0 {
		d.setError(effect.InvalidValue)
		return
	}
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(r float32, g float32, b float32, a float32) {
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Device) ClearStencil(s int32) {
	d.clearStencil = s
}

func (d *Device) Enable(capability uint32) {
	d.record("Enable", enumName(capability))
	d.enabled[capability] = true
}

func (d *Device) Disable(capability uint32) {
	d.record("Disable", enumName(capability))
	d.enabled[capability] = false
}

func (d *Device) StencilFunc(fn uint32, ref int32, mask uint32) {
	d.record("StencilFunc", enumName(fn), ref, fmt.Sprintf("0x%X", mask))
	d.stencilFunc = fn
	d.stencilRef = ref
	d.stencilValueMask = mask
}

func (d *Device) StencilOp(sfail uint32, dpfail uint32, dppass uint32) {
	d.record("StencilOp", enumName(sfail), enumName(dpfail), enumName(dppass))
	d.stencilFail = sfail
	d.stencilDepthFail = dpfail
	d.stencilPass = dppass
}

func (d *Device) StencilMask(mask uint32) {
	d.record("StencilMask", fmt.Sprintf("0x%X", mask))
	d.stencilWriteMask = mask
}

func alignUp(n int, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

func enumName(v uint32) string {
	switch v {
	case effect.TriangleFan:
		return "GL_TRIANGLE_FAN"
	case effect.TriangleStrip:
		return "GL_TRIANGLE_STRIP"
	case effect.Triangles:
		return "GL_TRIANGLES"
	case effect.VertexShader:
		return "GL_VERTEX_SHADER"
	case effect.FragmentShader:
		return "GL_FRAGMENT_SHADER"
	case effect.Texture2D:
		return "GL_TEXTURE_2D"
	case effect.Texture2DMultisample:
		return "GL_TEXTURE_2D_MULTISAMPLE"
	case effect.Framebuffer:
		return "GL_FRAMEBUFFER"
	case effect.ReadFramebuffer:
		return "GL_READ_FRAMEBUFFER"
	case effect.DrawFramebuffer:
		return "GL_DRAW_FRAMEBUFFER"
	case effect.Depth24Stencil8:
		return "GL_DEPTH24_STENCIL8"
	case effect.StencilTest:
		return "GL_STENCIL_TEST"
	case effect.Multisample:
		return "GL_MULTISAMPLE"
	case effect.Always:
		return "GL_ALWAYS"
	case effect.Equal:
		return "GL_EQUAL"
	case effect.NotEqual:
		return "GL_NOTEQUAL"
	case effect.Never:
		return "GL_NEVER"
	case effect.Keep:
		return "GL_KEEP"
	case effect.Replace:
		return "GL_REPLACE"
	case effect.Nearest:
		return "GL_NEAREST"
	case effect.Linear:
		return "GL_LINEAR"
	}
	if name := effect.FramebufferStatusName(v); v != 0 && !strings.HasSuffix(name, "UNKNOWN") {
		return name
	}
	return fmt.Sprintf("0x%04X", v)
}
