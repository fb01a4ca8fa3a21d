package effect

// Device is the rendering context handle. Every GL object and every state change
// goes through it, and it must only be used from the thread that owns the context.
//
// The enum values are the raw OpenGL 3.3 constants so the gldevice binding can pass
// them straight through.
type Device interface {
	CreateShader(stage uint32) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	DetachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x float32, y float32)
	Uniform4f(location int32, x float32, y float32, z float32, w float32)
	UniformMatrix2fv(location int32, m [4]float32)

	GenBuffer() uint32
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	DeleteBuffer(buffer uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, stride int32, offset int)
	DeleteVertexArray(vao uint32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target uint32, texture uint32)
	TexParameteri(target uint32, pname uint32, param int32)
	PixelStorei(pname uint32, param int32)
	TexImage2D(target uint32, internalFormat int32, width int32, height int32, format uint32, pix []byte)
	TexImage2DMultisample(target uint32, samples int32, internalFormat uint32, width int32, height int32)
	DeleteTexture(texture uint32)

	GenRenderbuffer() uint32
	BindRenderbuffer(renderbuffer uint32)
	RenderbufferStorageMultisample(samples int32, internalFormat uint32, width int32, height int32)
	DeleteRenderbuffer(renderbuffer uint32)

	GenFramebuffer() uint32
	BindFramebuffer(target uint32, framebuffer uint32)
	FramebufferTexture2D(target uint32, attachment uint32, texTarget uint32, texture uint32)
	FramebufferRenderbuffer(target uint32, attachment uint32, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter uint32)
	DeleteFramebuffer(framebuffer uint32)

	Viewport(x int32, y int32, width int32, height int32)
	ClearColor(r float32, g float32, b float32, a float32)
	ClearStencil(s int32)
	Clear(mask uint32)
	Enable(capability uint32)
	Disable(capability uint32)
	StencilFunc(fn uint32, ref int32, mask uint32)
	StencilOp(sfail uint32, dpfail uint32, dppass uint32)
	StencilMask(mask uint32)

	DrawArrays(mode uint32, first int32, count int32)
	ReadPixels(x int32, y int32, width int32, height int32, pix []byte)
	GetError() uint32
}

// Surface is the visible window the pipeline presents to.
type Surface interface {
	SwapBuffers() error
}

const (
	Triangles     uint32 = 0x0004
	TriangleStrip uint32 = 0x0005
	TriangleFan   uint32 = 0x0006

	FragmentShader uint32 = 0x8B30
	VertexShader   uint32 = 0x8B31

	ArrayBuffer uint32 = 0x8892
	StaticDraw  uint32 = 0x88E4

	Texture2D            uint32 = 0x0DE1
	Texture2DMultisample uint32 = 0x9100
	Texture0             uint32 = 0x84C0
	TextureMagFilter     uint32 = 0x2800
	TextureMinFilter     uint32 = 0x2801
	TextureWrapS         uint32 = 0x2802
	TextureWrapT         uint32 = 0x2803
	Nearest              uint32 = 0x2600
	Linear               uint32 = 0x2601
	ClampToEdge          uint32 = 0x812F

	UnpackAlignment uint32 = 0x0CF5
	PackAlignment   uint32 = 0x0D05

	RGB             uint32 = 0x1907
	RGBA            uint32 = 0x1908
	RGB8            uint32 = 0x8051
	RGBA8           uint32 = 0x8058
	UnsignedByte    uint32 = 0x1401
	Depth24Stencil8 uint32 = 0x88F0

	Framebuffer            uint32 = 0x8D40
	ReadFramebuffer        uint32 = 0x8CA8
	DrawFramebuffer        uint32 = 0x8CA9
	Renderbuffer           uint32 = 0x8D41
	ColorAttachment0       uint32 = 0x8CE0
	DepthStencilAttachment uint32 = 0x821A

	FramebufferComplete                    uint32 = 0x8CD5
	FramebufferIncompleteAttachment        uint32 = 0x8CD6
	FramebufferIncompleteMissingAttachment uint32 = 0x8CD7
	FramebufferUnsupported                 uint32 = 0x8CDD
	FramebufferIncompleteMultisample       uint32 = 0x8D56

	DepthBufferBit   uint32 = 0x00000100
	StencilBufferBit uint32 = 0x00000400
	ColorBufferBit   uint32 = 0x00004000

	StencilTest uint32 = 0x0B90
	Multisample uint32 = 0x809D

	Never    uint32 = 0x0200
	Equal    uint32 = 0x0202
	NotEqual uint32 = 0x0205
	Always   uint32 = 0x0207
	Keep     uint32 = 0x1E00
	Replace  uint32 = 0x1E01

	NoError                     uint32 = 0
	InvalidEnum                 uint32 = 0x0500
	InvalidValue                uint32 = 0x0501
	InvalidOperation            uint32 = 0x0502
	OutOfMemory                 uint32 = 0x0505
	InvalidFramebufferOperation uint32 = 0x0506
)

// ErrorName returns the symbolic name of a GL error code.
func ErrorName(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return "GL_UNKNOWN_ERROR"
}

// FramebufferStatusName returns the symbolic name of a framebuffer status.
func FramebufferStatusName(status uint32) string {
	switch status {
	case FramebufferComplete:
		return "GL_FRAMEBUFFER_COMPLETE"
	case FramebufferIncompleteAttachment:
		return "GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case FramebufferIncompleteMissingAttachment:
		return "GL_FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case FramebufferUnsupported:
		return "GL_FRAMEBUFFER_UNSUPPORTED"
	case FramebufferIncompleteMultisample:
		return "GL_FRAMEBUFFER_INCOMPLETE_MULTISAMPLE"
	}
	return "GL_FRAMEBUFFER_STATUS_UNKNOWN"
}
