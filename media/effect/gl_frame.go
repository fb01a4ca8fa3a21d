package effect

import (
	"image"

	"github.com/cockroachdb/errors"
)

// FrameSpec is what an OffscreenFrame is created from.
type FrameSpec struct {
	Width        int
	Height       int
	Samples      int
	DepthStencil bool
}

// OffscreenFrame owns a multisampled render target and the single-sampled target
// it resolves into. Frames are never resized in place.
type OffscreenFrame struct {
	dev  Device
	spec FrameSpec

	msFbo          uint32
	msColor        uint32
	msDepthStencil uint32

	resolveFbo uint32
	resolveTex uint32

	destroyed bool
}

// NewOffscreenFrame creates both targets and checks that they are complete.
// Whatever was created is released again when a check fails.
func NewOffscreenFrame(dev Device, spec FrameSpec) (*OffscreenFrame, error) {

	if spec.Samples < 1 {
		return nil, errors.Newf("invalid sample count=[%d]", spec.Samples)
	}

	frame := &OffscreenFrame{dev: dev, spec: spec}

	width := int32(spec.Width)
	height := int32(spec.Height)
	samples := int32(spec.Samples)

	// multisample target
	frame.msFbo = dev.GenFramebuffer()
	dev.BindFramebuffer(Framebuffer, frame.msFbo)

	frame.msColor = dev.GenTexture()
	dev.BindTexture(Texture2DMultisample, frame.msColor)
	dev.TexImage2DMultisample(Texture2DMultisample, samples, RGBA8, width, height)
	dev.BindTexture(Texture2DMultisample, 0)
	dev.FramebufferTexture2D(Framebuffer, ColorAttachment0, Texture2DMultisample, frame.msColor)

	if spec.DepthStencil {
		frame.msDepthStencil = dev.GenRenderbuffer()
		dev.BindRenderbuffer(frame.msDepthStencil)
		dev.RenderbufferStorageMultisample(samples, Depth24Stencil8, width, height)
		dev.BindRenderbuffer(0)
		dev.FramebufferRenderbuffer(Framebuffer, DepthStencilAttachment, frame.msDepthStencil)
	}

	if status := dev.CheckFramebufferStatus(Framebuffer); status != FramebufferComplete {
		dev.BindFramebuffer(Framebuffer, 0)
		frame.Destroy()
		return nil, &FramebufferIncompleteError{Target: "multisample", Status: status}
	}

	// resolve target
	frame.resolveFbo = dev.GenFramebuffer()
	dev.BindFramebuffer(Framebuffer, frame.resolveFbo)

	frame.resolveTex = dev.GenTexture()
	dev.BindTexture(Texture2D, frame.resolveTex)
	dev.TexImage2D(Texture2D, int32(RGBA8), width, height, RGBA, nil)
	dev.TexParameteri(Texture2D, TextureMinFilter, int32(Nearest))
	dev.TexParameteri(Texture2D, TextureMagFilter, int32(Nearest))
	dev.TexParameteri(Texture2D, TextureWrapS, int32(ClampToEdge))
	dev.TexParameteri(Texture2D, TextureWrapT, int32(ClampToEdge))
	dev.BindTexture(Texture2D, 0)
	dev.FramebufferTexture2D(Framebuffer, ColorAttachment0, Texture2D, frame.resolveTex)

	status := dev.CheckFramebufferStatus(Framebuffer)
	dev.BindFramebuffer(Framebuffer, 0)

	if status != FramebufferComplete {
		frame.Destroy()
		return nil, &FramebufferIncompleteError{Target: "resolve", Status: status}
	}

	return frame, nil
}

func (f *OffscreenFrame) Width() int {
	return f.spec.Width
}

func (f *OffscreenFrame) Height() int {
	return f.spec.Height
}

func (f *OffscreenFrame) Samples() int {
	return f.spec.Samples
}

func (f *OffscreenFrame) HasStencil() bool {
	return f.spec.DepthStencil
}

func (f *OffscreenFrame) Spec() FrameSpec {
	return f.spec
}

// Bounds is the full target rectangle in framebuffer coordinates.
func (f *OffscreenFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.spec.Width, f.spec.Height)
}

// Resize destroys f and returns a new frame of the same spec at the new size.
func (f *OffscreenFrame) Resize(width int, height int) (*OffscreenFrame, error) {
	spec := f.spec
	spec.Width = width
	spec.Height = height
	f.Destroy()
	return NewOffscreenFrame(f.dev, spec)
}

// BindDraw makes the multisample target the draw target and sets the viewport
// to cover it.
func (f *OffscreenFrame) BindDraw() {
	f.dev.BindFramebuffer(Framebuffer, f.msFbo)
	f.dev.Viewport(0, 0, int32(f.spec.Width), int32(f.spec.Height))
}

// Resolve copies color from the multisample target into the resolve target.
// Rectangles are in framebuffer coordinates with the origin bottom-left.
// Resolve pixels outside dst are not touched.
func (f *OffscreenFrame) Resolve(dst image.Rectangle, src image.Rectangle) error {

	if f.spec.Samples > 1 && dst.Size() != src.Size() {
		return errors.Newf("multisample resolve cannot scale src=[%v] dst=[%v]", src, dst)
	}

	f.dev.BindFramebuffer(ReadFramebuffer, f.msFbo)
	f.dev.BindFramebuffer(DrawFramebuffer, f.resolveFbo)
	f.dev.BlitFramebuffer(
		int32(src.Min.X), int32(src.Min.Y), int32(src.Max.X), int32(src.Max.Y),
		int32(dst.Min.X), int32(dst.Min.Y), int32(dst.Max.X), int32(dst.Max.Y),
		ColorBufferBit, Nearest)

	return nil
}

func (f *OffscreenFrame) BindResolveTexture(unit uint32) {
	f.dev.ActiveTexture(Texture0 + unit)
	f.dev.BindTexture(Texture2D, f.resolveTex)
}

func (f *OffscreenFrame) UnBindResolveTexture(unit uint32) {
	f.dev.ActiveTexture(Texture0 + unit)
	f.dev.BindTexture(Texture2D, 0)
}

// Snapshot reads the resolve target back, top row first.
func (f *OffscreenFrame) Snapshot() *image.RGBA {

	width := f.spec.Width
	height := f.spec.Height

	pixData := make([]uint8, width*height*4)

	f.dev.BindFramebuffer(ReadFramebuffer, f.resolveFbo)
	f.dev.ReadPixels(0, 0, int32(width), int32(height), pixData)
	f.dev.BindFramebuffer(ReadFramebuffer, 0)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowLen := width * 4
	for y := 0; y < height; y++ {
		srcRow := pixData[(height-1-y)*rowLen : (height-y)*rowLen]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], srcRow)
	}

	return img
}

// Destroy releases every object the frame owns. Only the first call does work.
func (f *OffscreenFrame) Destroy() {

	if f.destroyed {
		return
	}
	f.destroyed = true

	if f.msFbo != 0 {
		f.dev.DeleteFramebuffer(f.msFbo)
	}
	if f.msColor != 0 {
		f.dev.DeleteTexture(f.msColor)
	}
	if f.msDepthStencil != 0 {
		f.dev.DeleteRenderbuffer(f.msDepthStencil)
	}
	if f.resolveFbo != 0 {
		f.dev.DeleteFramebuffer(f.resolveFbo)
	}
	if f.resolveTex != 0 {
		f.dev.DeleteTexture(f.resolveTex)
	}

	f.msFbo, f.msColor, f.msDepthStencil = 0, 0, 0
	f.resolveFbo, f.resolveTex = 0, 0
}

func (f *OffscreenFrame) Destroyed() bool {
	return f.destroyed
}
