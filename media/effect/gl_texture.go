package effect

import (
	"github.com/chwjbn/vector-hub/media/gimage"
	"github.com/cockroachdb/errors"
)

type GlTexture struct {
	dev     Device
	handle  uint32
	target  uint32
	texUnit uint32
	width   int
	height  int
}

func NewGlTexture(dev Device) *GlTexture {

	texture := &GlTexture{
		dev:    dev,
		handle: dev.GenTexture(),
		target: Texture2D,
	}

	texture.Bind(0)
	defer texture.UnBind()

	dev.TexParameteri(texture.target, TextureWrapS, int32(ClampToEdge))
	dev.TexParameteri(texture.target, TextureWrapT, int32(ClampToEdge))
	dev.TexParameteri(texture.target, TextureMinFilter, int32(Linear))
	dev.TexParameteri(texture.target, TextureMagFilter, int32(Linear))

	return texture
}

// SetPixmap uploads a tightly packed RGB image.
func (tex *GlTexture) SetPixmap(pix *gimage.Pixmap) error {

	if pix == nil || pix.Width < 1 || pix.Height < 1 {
		return errors.New("empty overlay pixmap")
	}

	if len(pix.Pix) != pix.Width*pix.Height*3 {
		return errors.Newf("unsupported pixmap layout, want %d bytes got %d", pix.Width*pix.Height*3, len(pix.Pix))
	}

	tex.Bind(0)
	defer tex.UnBind()

	// rows of 3-byte pixels are not 4-aligned in general
	tex.dev.PixelStorei(UnpackAlignment, 1)
	tex.dev.TexImage2D(tex.target, int32(RGB8), int32(pix.Width), int32(pix.Height), RGB, pix.Pix)
	tex.dev.PixelStorei(UnpackAlignment, 4)

	tex.width = pix.Width
	tex.height = pix.Height

	return nil
}

func (tex *GlTexture) Size() (int, int) {
	return tex.width, tex.height
}

// Bind makes the texture current on unit index unit (0 is GL_TEXTURE0).
func (tex *GlTexture) Bind(unit uint32) {
	tex.dev.ActiveTexture(Texture0 + unit)
	tex.dev.BindTexture(tex.target, tex.handle)
	tex.texUnit = Texture0 + unit
}

func (tex *GlTexture) UnBind() {
	if tex.texUnit != 0 {
		tex.dev.ActiveTexture(tex.texUnit)
	}
	tex.texUnit = 0
	tex.dev.BindTexture(tex.target, 0)
}

// SetUniform points the program's sampler at the unit the texture is bound to.
func (tex *GlTexture) SetUniform(prog *GlProgram, name string) error {
	if tex.texUnit == 0 {
		return errors.New("texture not bound")
	}
	return prog.SetSampler(name, int32(tex.texUnit-Texture0))
}

func (tex *GlTexture) Delete() {
	if tex.handle == 0 {
		return
	}
	tex.dev.DeleteTexture(tex.handle)
	tex.handle = 0
}
