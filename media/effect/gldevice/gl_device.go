// Package gldevice implements effect.Device on top of go-gl's OpenGL 3.3 core
// bindings. The context must be current on the calling thread.
package gldevice

import (
	"strings"
	"unsafe"

	"github.com/chwjbn/vector-hub/glog"
	"github.com/chwjbn/vector-hub/media/effect"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
)

type GlDevice struct{}

var _ effect.Device = (*GlDevice)(nil)

// New loads the GL function pointers for the current context.
func New() (*GlDevice, error) {

	if glErr := gl.Init(); glErr != nil {
		return nil, errors.Wrap(glErr, "gl.Init")
	}

	glog.InfoF("opengl version=[%s] renderer=[%s]", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	return &GlDevice{}, nil
}

type getObjIv func(uint32, uint32, *int32)
type getObjInfoLog func(uint32, int32, *int32, *uint8)

func objStatus(glHandle uint32, param uint32, getObjIvFn getObjIv) bool {
	var success int32
	getObjIvFn(glHandle, param, &success)
	return success != gl.FALSE
}

func objInfoLog(glHandle uint32, getObjIvFn getObjIv, getObjInfoLogFn getObjInfoLog) string {

	var logLength int32
	getObjIvFn(glHandle, gl.INFO_LOG_LENGTH, &logLength)

	if logLength < 1 {
		return ""
	}

	logStr := strings.Repeat("\x00", int(logLength+1))
	log := gl.Str(logStr)
	getObjInfoLogFn(glHandle, logLength, nil, log)

	return gl.GoStr(log)
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (d *GlDevice) CreateShader(stage uint32) uint32 {
	return gl.CreateShader(stage)
}

func (d *GlDevice) ShaderSource(shader uint32, src string) {
	glSrc, freeFn := gl.Strs(src + "\x00")
	defer freeFn()
	gl.ShaderSource(shader, 1, glSrc, nil)
}

func (d *GlDevice) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (d *GlDevice) ShaderCompiled(shader uint32) bool {
	return objStatus(shader, gl.COMPILE_STATUS, gl.GetShaderiv)
}

func (d *GlDevice) ShaderInfoLog(shader uint32) string {
	return objInfoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
}

func (d *GlDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *GlDevice) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *GlDevice) AttachShader(program uint32, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *GlDevice) DetachShader(program uint32, shader uint32) {
	gl.DetachShader(program, shader)
}

func (d *GlDevice) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (d *GlDevice) ProgramLinked(program uint32) bool {
	return objStatus(program, gl.LINK_STATUS, gl.GetProgramiv)
}

func (d *GlDevice) ProgramInfoLog(program uint32) string {
	return objInfoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
}

func (d *GlDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *GlDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *GlDevice) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GlDevice) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *GlDevice) Uniform2f(location int32, x float32, y float32) {
	gl.Uniform2f(location, x, y)
}

func (d *GlDevice) Uniform4f(location int32, x float32, y float32, z float32, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (d *GlDevice) UniformMatrix2fv(location int32, m [4]float32) {
	gl.UniformMatrix2fv(location, 1, false, &m[0])
}

func (d *GlDevice) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (d *GlDevice) BindBuffer(target uint32, buffer uint32) {
	gl.BindBuffer(target, buffer)
}

func (d *GlDevice) BufferData(target uint32, data []byte, usage uint32) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (d *GlDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (d *GlDevice) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *GlDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *GlDevice) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *GlDevice) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, false, stride, uintptr(offset))
}

func (d *GlDevice) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *GlDevice) GenTexture() uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	return texture
}

func (d *GlDevice) ActiveTexture(unit uint32) {
	gl.ActiveTexture(unit)
}

func (d *GlDevice) BindTexture(target uint32, texture uint32) {
	gl.BindTexture(target, texture)
}

func (d *GlDevice) TexParameteri(target uint32, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (d *GlDevice) PixelStorei(pname uint32, param int32) {
	gl.PixelStorei(pname, param)
}

func (d *GlDevice) TexImage2D(target uint32, internalFormat int32, width int32, height int32, format uint32, pix []byte) {
	gl.TexImage2D(target, 0, internalFormat, width, height, 0, format, gl.UNSIGNED_BYTE, ptr(pix))
}

func (d *GlDevice) TexImage2DMultisample(target uint32, samples int32, internalFormat uint32, width int32, height int32) {
	gl.TexImage2DMultisample(target, samples, internalFormat, width, height, true)
}

func (d *GlDevice) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (d *GlDevice) GenRenderbuffer() uint32 {
	var renderbuffer uint32
	gl.GenRenderbuffers(1, &renderbuffer)
	return renderbuffer
}

func (d *GlDevice) BindRenderbuffer(renderbuffer uint32) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, renderbuffer)
}

func (d *GlDevice) RenderbufferStorageMultisample(samples int32, internalFormat uint32, width int32, height int32) {
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, internalFormat, width, height)
}

func (d *GlDevice) DeleteRenderbuffer(renderbuffer uint32) {
	gl.DeleteRenderbuffers(1, &renderbuffer)
}

func (d *GlDevice) GenFramebuffer() uint32 {
	var framebuffer uint32
	gl.GenFramebuffers(1, &framebuffer)
	return framebuffer
}

func (d *GlDevice) BindFramebuffer(target uint32, framebuffer uint32) {
	gl.BindFramebuffer(target, framebuffer)
}

func (d *GlDevice) FramebufferTexture2D(target uint32, attachment uint32, texTarget uint32, texture uint32) {
	gl.FramebufferTexture2D(target, attachment, texTarget, texture, 0)
}

func (d *GlDevice) FramebufferRenderbuffer(target uint32, attachment uint32, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, gl.RENDERBUFFER, renderbuffer)
}

func (d *GlDevice) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (d *GlDevice) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter uint32) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

func (d *GlDevice) DeleteFramebuffer(framebuffer uint32) {
	gl.DeleteFramebuffers(1, &framebuffer)
}

func (d *GlDevice) Viewport(x int32, y int32, width int32, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *GlDevice) ClearColor(r float32, g float32, b float32, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *GlDevice) ClearStencil(s int32) {
	gl.ClearStencil(s)
}

func (d *GlDevice) Clear(mask uint32) {
	gl.Clear(mask)
}

func (d *GlDevice) Enable(capability uint32) {
	gl.Enable(capability)
}

func (d *GlDevice) Disable(capability uint32) {
	gl.Disable(capability)
}

func (d *GlDevice) StencilFunc(fn uint32, ref int32, mask uint32) {
	gl.StencilFunc(fn, ref, mask)
}

func (d *GlDevice) StencilOp(sfail uint32, dpfail uint32, dppass uint32) {
	gl.StencilOp(sfail, dpfail, dppass)
}

func (d *GlDevice) StencilMask(mask uint32) {
	gl.StencilMask(mask)
}

func (d *GlDevice) DrawArrays(mode uint32, first int32, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (d *GlDevice) ReadPixels(x int32, y int32, width int32, height int32, pix []byte) {
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, ptr(pix))
}

func (d *GlDevice) GetError() uint32 {
	return gl.GetError()
}
