package main

import (
	"image/png"
	"os"

	"github.com/chwjbn/vector-hub/glib"
	"github.com/chwjbn/vector-hub/glog"
	"github.com/chwjbn/vector-hub/media/effect"
	"github.com/chwjbn/vector-hub/media/effect/gldevice"
	"github.com/chwjbn/vector-hub/media/effect/softgl"
	"github.com/chwjbn/vector-hub/media/gconfig"
	"github.com/chwjbn/vector-hub/media/gimage"
	"github.com/chwjbn/vector-hub/media/gshape"
	"github.com/chwjbn/vector-hub/media/gwindow"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

func buildScene(meta gconfig.RenderMeta) (effect.Scene, error) {

	var scene effect.Scene

	scene.Outline = gshape.Ellipse(meta.EllipseRadiusX, meta.EllipseRadiusY, meta.MinSegments, meta.SegmentLength)
	scene.Offset = mgl32.Vec2(meta.EllipseOffset)
	scene.OverlayOffset = mgl32.Vec2(meta.OverlayOffset)

	glog.InfoF("outline radius=[%vx%v] segments=[%d]", meta.EllipseRadiusX, meta.EllipseRadiusY, len(scene.Outline))

	if len(meta.OverlayPath) < 1 {
		return scene, nil
	}

	overlay, xErr := gimage.LoadFile(meta.OverlayPath)
	if xErr != nil {
		return scene, xErr
	}

	if meta.OverlayWidth > 0 {
		overlay = overlay.Scaled(meta.OverlayWidth, meta.OverlayHeight)
	}

	glog.InfoF("overlay file=[%s] size=[%dx%d]", meta.OverlayPath, overlay.Width, overlay.Height)

	scene.Overlay = overlay

	return scene, nil
}

func pipelineConfig(meta gconfig.RenderMeta, width int, height int) effect.PipelineConfig {

	cfg := effect.DefaultPipelineConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.Samples = meta.Samples
	cfg.ClearColor = mgl32.Vec4(meta.ClearColor)
	cfg.FillColor = mgl32.Vec4(meta.FillColor)
	cfg.Stencil = meta.Stencil
	cfg.ShaderDir = meta.ShaderDir
	if meta.DebugChecks != nil {
		cfg.DebugChecks = effect.DebugBuild && *meta.DebugChecks
	}
	cfg.StatsInterval = meta.StatsInterval

	return cfg
}

// renderApp forwards window events to the pipeline and decides which errors
// end the loop.
type renderApp struct {
	mPipeline *effect.Pipeline
	mLastSkip string
}

func (a *renderApp) OnResize(width int, height int) error {
	return a.handle(a.mPipeline.Resize(width, height))
}

func (a *renderApp) OnRedraw() error {
	return a.handle(a.mPipeline.RenderFrame())
}

func (a *renderApp) handle(xErr error) error {

	if xErr == nil {
		a.mLastSkip = ""
		return nil
	}

	if !effect.IsRecoverable(xErr) {
		return xErr
	}

	if msg := xErr.Error(); msg != a.mLastSkip {
		glog.WarnF("frame skipped: %s", msg)
		a.mLastSkip = msg
	}

	return nil
}

func runWindow(meta gconfig.RenderMeta, scene effect.Scene) error {

	window, xErr := gwindow.NewGlWindow(meta.WindowTitle, meta.WindowWidth, meta.WindowHeight, meta.VSync)
	if xErr != nil {
		return xErr
	}
	defer window.Destroy()

	dev, xErr := gldevice.New()
	if xErr != nil {
		return xErr
	}

	width, height := window.FramebufferSize()

	pipeline, xErr := effect.NewPipeline(dev, window, pipelineConfig(meta, width, height), scene)
	if xErr != nil {
		return errors.Wrap(xErr, "create pipeline")
	}
	defer pipeline.Destroy()

	var quit <-chan struct{}

	serv, xErr := glib.NewServ(glib.AppName(), meta.WindowTitle, "vector render pipeline")
	if xErr != nil {
		glog.WarnF("quit signal service unavailable:[%v]", xErr)
	} else {
		quit = serv.QuitChan()
		go serv.RunService()
	}

	app := &renderApp{mPipeline: pipeline}

	return window.Run(app, quit)
}

// runCapture renders a single frame on the software device and saves what
// was presented.
func runCapture(meta gconfig.RenderMeta, scene effect.Scene, capturePath string) error {

	dev := softgl.New(meta.WindowWidth, meta.WindowHeight)

	pipeline, xErr := effect.NewPipeline(dev, dev, pipelineConfig(meta, meta.WindowWidth, meta.WindowHeight), scene)
	if xErr != nil {
		return errors.Wrap(xErr, "create pipeline")
	}
	defer pipeline.Destroy()

	if xErr = pipeline.RenderFrame(); xErr != nil {
		return errors.Wrap(xErr, "render frame")
	}

	file, xErr := os.Create(capturePath)
	if xErr != nil {
		return errors.Wrapf(xErr, "create capture file=[%s]", capturePath)
	}
	defer file.Close()

	if xErr = png.Encode(file, dev.Screen()); xErr != nil {
		return errors.Wrapf(xErr, "encode capture file=[%s]", capturePath)
	}

	glog.InfoF("captured frame=[%dx%d] into file=[%s]", meta.WindowWidth, meta.WindowHeight, capturePath)

	return nil
}
