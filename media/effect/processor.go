package effect

import (
	"fmt"
	"image"
	"time"

	"github.com/chwjbn/vector-hub/glog"
	"github.com/chwjbn/vector-hub/media/gimage"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/loov/hrtime"
)

const (
	DefaultSamples    = 8
	DefaultStencilRef = 1

	colorUniform     = "color"
	matUniform       = "mat"
	transformUniform = "transform"
	overlayUniform   = "overlay"
	screenUniform    = "screen"

	overlayUnit = 0
	screenUnit  = 0
)

var (
	DefaultClearColor = mgl32.Vec4{0.2, 0.15, 0.4, 1.0}
	DefaultFillColor  = mgl32.Vec4{0.8, 0.5, 0.7, 1.0}
)

type PipelineConfig struct {
	Width      int
	Height     int
	Samples    int
	ClearColor mgl32.Vec4
	FillColor  mgl32.Vec4

	// Stencil forces the stencil attachment on or off. When nil it is on
	// exactly when the scene has an overlay.
	Stencil *bool

	ShaderDir     string
	DebugChecks   bool
	StatsInterval int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Width:         500,
		Height:        500,
		Samples:       DefaultSamples,
		ClearColor:    DefaultClearColor,
		FillColor:     DefaultFillColor,
		DebugChecks:   DebugBuild,
		StatsInterval: 600,
	}
}

// Scene is the static content of the pipeline: one outline and an optional
// overlay clipped to it. Coordinates are pixels around the surface centre.
type Scene struct {
	Outline       []mgl32.Vec2
	Overlay       *gimage.Pixmap
	Offset        mgl32.Vec2
	OverlayOffset mgl32.Vec2

	// Matrix is applied to every vertex after Offset. The zero value means
	// identity.
	Matrix mgl32.Mat2
}

type FrameStats struct {
	Frames    uint64
	Skipped   uint64
	LastFrame time.Duration
}

// Pipeline draws the scene into an offscreen multisample frame, resolves it and
// presents it on the surface. All calls must come from the context thread.
type Pipeline struct {
	mId      string
	mDev     Device
	mSurface Surface
	mConfig  PipelineConfig
	mBuilder *ProgramBuilder

	mMainProgram    *GlProgram
	mOverlayProgram *GlProgram
	mPostProgram    *GlProgram

	mOutline     *GeometryBuffer
	mOverlayQuad *GeometryBuffer
	mOverlayTex  *GlTexture
	mPostVAO     uint32

	mFrame   *OffscreenFrame
	mResizer *ResizeCoordinator
	mStats   FrameStats
}

// NewPipeline builds every GPU resource the pipeline needs. Any error here is
// fatal for the pipeline; partially built resources are released.
func NewPipeline(dev Device, surface Surface, cfg PipelineConfig, scene Scene) (*Pipeline, error) {

	p := &Pipeline{
		mId:      uuid.NewString(),
		mDev:     dev,
		mSurface: surface,
		mConfig:  cfg,
		mBuilder: NewProgramBuilder(dev),
	}

	xErr := p.init(scene)
	if xErr != nil {
		p.Destroy()
		return nil, xErr
	}

	glog.InfoF("pipeline=[%s] created size=[%dx%d] samples=[%d] stencil=[%v] overlay=[%v] outline=[%d]",
		p.mId, cfg.Width, cfg.Height, cfg.Samples, p.stencilEnabled(scene), scene.Overlay != nil, len(scene.Outline))

	return p, nil
}

func (p *Pipeline) init(scene Scene) error {

	var xErr error

	if p.mConfig.Samples < 1 {
		p.mConfig.Samples = DefaultSamples
	}

	matrix := scene.Matrix
	if matrix == (mgl32.Mat2{}) {
		matrix = mgl32.Ident2()
	}

	p.mDev.Enable(Multisample)

	p.mMainProgram, xErr = p.buildProgram(ShaderMain)
	if xErr != nil {
		return xErr
	}

	if xErr = p.setUniforms(p.mMainProgram, matrix, scene.Offset); xErr != nil {
		return xErr
	}
	if xErr = p.mMainProgram.SetVec4(colorUniform, p.mConfig.FillColor); xErr != nil {
		return xErr
	}

	p.mPostProgram, xErr = p.buildProgram(ShaderPost)
	if xErr != nil {
		return xErr
	}
	if xErr = p.mPostProgram.SetSampler(screenUniform, screenUnit); xErr != nil {
		return xErr
	}

	outline := make([]Vert, len(scene.Outline))
	for i, pt := range scene.Outline {
		outline[i] = Vert{Pos: pt}
	}

	p.mOutline, xErr = UploadGeometry(p.mDev, outline, VertLayout)
	if xErr != nil {
		return errors.Wrap(xErr, "upload outline")
	}

	programs := []*GlProgram{p.mMainProgram, p.mPostProgram}

	if scene.Overlay != nil {

		p.mOverlayProgram, xErr = p.buildProgram(ShaderOverlay)
		if xErr != nil {
			return xErr
		}

		if xErr = p.setUniforms(p.mOverlayProgram, matrix, scene.Offset.Add(scene.OverlayOffset)); xErr != nil {
			return xErr
		}
		if xErr = p.mOverlayProgram.SetSampler(overlayUniform, overlayUnit); xErr != nil {
			return xErr
		}

		p.mOverlayTex = NewGlTexture(p.mDev)
		if xErr = p.mOverlayTex.SetPixmap(scene.Overlay); xErr != nil {
			return errors.Wrap(xErr, "upload overlay texture")
		}

		p.mOverlayQuad, xErr = UploadGeometry(p.mDev, overlayQuad(scene.Overlay.Width, scene.Overlay.Height), TexVertLayout)
		if xErr != nil {
			return errors.Wrap(xErr, "upload overlay quad")
		}

		programs = append(programs, p.mOverlayProgram)
	}

	// the fullscreen pass has no attributes but core profile still wants a VAO
	p.mPostVAO = p.mDev.GenVertexArray()

	p.mResizer = NewResizeCoordinator(p.mDev, FrameSpec{
		Samples:      p.mConfig.Samples,
		DepthStencil: p.stencilEnabled(scene),
	}, programs...)

	p.mFrame, xErr = p.mResizer.Resize(nil, p.mConfig.Width, p.mConfig.Height)
	if xErr != nil {
		return xErr
	}

	p.debugCheck("init")

	return nil
}

func (p *Pipeline) stencilEnabled(scene Scene) bool {
	if p.mConfig.Stencil != nil {
		return *p.mConfig.Stencil
	}
	return scene.Overlay != nil
}

func (p *Pipeline) buildProgram(name string) (*GlProgram, error) {

	src, xErr := LoadShader(p.mConfig.ShaderDir, name)
	if xErr != nil {
		return nil, xErr
	}

	prog, xErr := p.mBuilder.Build(src.Vertex, src.Fragment)
	if xErr != nil {
		return nil, errors.Wrapf(xErr, "build program=[%s]", name)
	}

	return prog, nil
}

func (p *Pipeline) setUniforms(prog *GlProgram, matrix mgl32.Mat2, offset mgl32.Vec2) error {
	if xErr := prog.SetMat2(matUniform, matrix); xErr != nil {
		return xErr
	}
	return prog.SetVec2(transformUniform, offset)
}

// overlayQuad is a strip covering the image centred on the origin. The first
// image row maps to the top edge.
func overlayQuad(width int, height int) []TexVert {
	w := float32(width) / 2
	h := float32(height) / 2
	return []TexVert{
		{Pos: mgl32.Vec2{-w, -h}, UV: mgl32.Vec2{0, 1}},
		{Pos: mgl32.Vec2{-w, h}, UV: mgl32.Vec2{0, 0}},
		{Pos: mgl32.Vec2{w, -h}, UV: mgl32.Vec2{1, 1}},
		{Pos: mgl32.Vec2{w, h}, UV: mgl32.Vec2{1, 0}},
	}
}

// RenderFrame draws, resolves and presents one frame. A ResizeFailedError means
// the frame was skipped and the caller may carry on.
func (p *Pipeline) RenderFrame() error {

	if p.mResizer.Pending() {
		frame, xErr := p.mResizer.Retry(p.mFrame)
		p.mFrame = frame
		if xErr != nil {
			p.mStats.Skipped++
			return xErr
		}
	}

	start := hrtime.Now()

	frame := p.mFrame
	stencil := frame.HasStencil()

	frame.BindDraw()

	clearColor := p.mConfig.ClearColor
	p.mDev.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])

	clearMask := ColorBufferBit
	if stencil {
		p.mDev.StencilMask(0xFF)
		p.mDev.ClearStencil(0)
		clearMask |= StencilBufferBit
	}
	p.mDev.Clear(clearMask)

	p.drawOutline(stencil)

	if p.mOverlayQuad != nil {
		if xErr := p.drawOverlay(stencil); xErr != nil {
			return xErr
		}
	}

	p.debugCheck("offscreen passes")

	bounds := frame.Bounds()
	if xErr := frame.Resolve(bounds, bounds); xErr != nil {
		return xErr
	}

	if xErr := p.drawScreen(); xErr != nil {
		return xErr
	}

	p.debugCheck("screen pass")

	if xErr := p.mSurface.SwapBuffers(); xErr != nil {
		return &PresentationError{Cause: xErr}
	}

	p.mStats.Frames++
	p.mStats.LastFrame = hrtime.Since(start)

	if p.mConfig.DebugChecks && p.mConfig.StatsInterval > 0 && p.mStats.Frames%uint64(p.mConfig.StatsInterval) == 0 {
		glog.InfoF("pipeline=[%s] frames=[%d] skipped=[%d] last=[%v]",
			p.mId, p.mStats.Frames, p.mStats.Skipped, p.mStats.LastFrame)
	}

	return nil
}

// drawOutline is pass A. With a stencil attachment every covered pixel gets the
// reference value.
func (p *Pipeline) drawOutline(stencil bool) {

	if stencil {
		p.mDev.Enable(StencilTest)
		p.mDev.StencilFunc(Always, DefaultStencilRef, 0xFF)
		p.mDev.StencilOp(Keep, Keep, Replace)
		p.mDev.StencilMask(0xFF)
	}

	p.mMainProgram.Use()
	p.mOutline.Draw(TriangleFan)
}

// drawOverlay is pass B, clipped to the pixels pass A marked.
func (p *Pipeline) drawOverlay(stencil bool) error {

	if stencil {
		p.mDev.StencilFunc(Equal, DefaultStencilRef, 0xFF)
		p.mDev.StencilMask(0x00)
	}

	p.mOverlayProgram.Use()

	p.mOverlayTex.Bind(overlayUnit)
	defer p.mOverlayTex.UnBind()

	if xErr := p.mOverlayTex.SetUniform(p.mOverlayProgram, overlayUniform); xErr != nil {
		return xErr
	}

	p.mOverlayQuad.Draw(TriangleStrip)

	return nil
}

// drawScreen is pass C: the resolved image stretched over the visible surface.
func (p *Pipeline) drawScreen() error {

	viewport := p.mResizer.Viewport()

	p.mDev.BindFramebuffer(Framebuffer, 0)
	p.mDev.Viewport(0, 0, int32(viewport.Dx()), int32(viewport.Dy()))
	p.mDev.Disable(StencilTest)

	p.mPostProgram.Use()

	p.mFrame.BindResolveTexture(screenUnit)
	defer p.mFrame.UnBindResolveTexture(screenUnit)

	if xErr := p.mPostProgram.SetSampler(screenUniform, screenUnit); xErr != nil {
		return xErr
	}

	p.mDev.BindVertexArray(p.mPostVAO)
	p.mDev.DrawArrays(TriangleStrip, 0, 4)
	p.mDev.BindVertexArray(0)

	return nil
}

// Resize reacts to a surface size change.
func (p *Pipeline) Resize(width int, height int) error {
	frame, xErr := p.mResizer.Resize(p.mFrame, width, height)
	p.mFrame = frame
	return xErr
}

// ReloadShaders rebuilds every program that has a source pair in dir and
// returns how many were replaced.
func (p *Pipeline) ReloadShaders(dir string) (int, error) {

	programs := map[string]*GlProgram{
		ShaderMain:    p.mMainProgram,
		ShaderOverlay: p.mOverlayProgram,
		ShaderPost:    p.mPostProgram,
	}

	reloaded := 0
	for _, name := range []string{ShaderMain, ShaderOverlay, ShaderPost} {

		prog := programs[name]
		if prog == nil {
			continue
		}

		src, ok := DirShader(dir, name)
		if !ok {
			continue
		}

		if xErr := p.mBuilder.Rebuild(prog, src.Vertex, src.Fragment); xErr != nil {
			return reloaded, errors.Wrapf(xErr, "reload program=[%s]", name)
		}

		glog.InfoF("pipeline=[%s] reloaded program=[%s] from dir=[%s]", p.mId, name, dir)
		reloaded++
	}

	return reloaded, nil
}

// Snapshot reads back the last resolved frame.
func (p *Pipeline) Snapshot() (*image.RGBA, error) {
	if p.mFrame == nil || p.mResizer.Pending() {
		return nil, errors.New("no resolved frame available")
	}
	return p.mFrame.Snapshot(), nil
}

func (p *Pipeline) Frame() *OffscreenFrame {
	return p.mFrame
}

func (p *Pipeline) Resizer() *ResizeCoordinator {
	return p.mResizer
}

func (p *Pipeline) Stats() FrameStats {
	return p.mStats
}

func (p *Pipeline) Id() string {
	return p.mId
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline[%s]", p.mId)
}

func (p *Pipeline) debugCheck(where string) {
	if !p.mConfig.DebugChecks {
		return
	}
	pollGlErrors(p.mDev, where)
}

// Destroy releases every GPU object the pipeline owns.
func (p *Pipeline) Destroy() {

	if p.mFrame != nil {
		p.mFrame.Destroy()
		p.mFrame = nil
	}

	if p.mPostVAO != 0 {
		p.mDev.DeleteVertexArray(p.mPostVAO)
		p.mPostVAO = 0
	}

	for _, geo := range []*GeometryBuffer{p.mOutline, p.mOverlayQuad} {
		if geo != nil {
			geo.Delete()
		}
	}
	p.mOutline, p.mOverlayQuad = nil, nil

	if p.mOverlayTex != nil {
		p.mOverlayTex.Delete()
		p.mOverlayTex = nil
	}

	for _, prog := range []*GlProgram{p.mMainProgram, p.mOverlayProgram, p.mPostProgram} {
		if prog != nil {
			prog.Delete()
		}
	}
	p.mMainProgram, p.mOverlayProgram, p.mPostProgram = nil, nil, nil
}
