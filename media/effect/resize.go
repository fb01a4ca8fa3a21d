package effect

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

const scaleUniform = "scale"

// ResizeCoordinator keeps the viewport, the offscreen frame and the pixel to
// NDC scale in step with the surface size.
type ResizeCoordinator struct {
	dev      Device
	programs []*GlProgram
	spec     FrameSpec
	viewport image.Rectangle
	scale    mgl32.Vec2
	pending  bool
}

func NewResizeCoordinator(dev Device, spec FrameSpec, programs ...*GlProgram) *ResizeCoordinator {
	return &ResizeCoordinator{
		dev:      dev,
		programs: programs,
		spec:     spec,
	}
}

// Resize handles a surface size change and returns the frame to render into
// from now on.
//
// A size without area keeps current as is but leaves the resize pending. A
// frame that cannot be created leaves no frame at all. Both report a
// ResizeFailedError and are retried by Retry.
func (r *ResizeCoordinator) Resize(current *OffscreenFrame, width int, height int) (*OffscreenFrame, error) {

	r.spec.Width = width
	r.spec.Height = height

	if width <= 0 || height <= 0 {
		r.pending = true
		return current, &ResizeFailedError{Width: width, Height: height, Cause: errors.New("surface has no area")}
	}

	r.viewport = image.Rect(0, 0, width, height)
	r.dev.Viewport(0, 0, int32(width), int32(height))

	var frame *OffscreenFrame
	var frameErr error
	if current != nil && !current.Destroyed() {
		frame, frameErr = current.Resize(width, height)
	} else {
		frame, frameErr = NewOffscreenFrame(r.dev, r.spec)
	}

	r.scale = mgl32.Vec2{2 / float32(width), 2 / float32(height)}
	for _, prog := range r.programs {
		if !prog.Declares(scaleUniform) {
			continue
		}
		if xErr := prog.SetVec2(scaleUniform, r.scale); xErr != nil {
			return frame, xErr
		}
	}

	if frameErr != nil {
		r.pending = true
		return nil, &ResizeFailedError{Width: width, Height: height, Cause: frameErr}
	}

	r.pending = false

	return frame, nil
}

// Retry repeats the last requested resize.
func (r *ResizeCoordinator) Retry(current *OffscreenFrame) (*OffscreenFrame, error) {
	return r.Resize(current, r.spec.Width, r.spec.Height)
}

// Pending reports whether the last resize failed and the current frame, if any,
// does not match the surface.
func (r *ResizeCoordinator) Pending() bool {
	return r.pending
}

func (r *ResizeCoordinator) Viewport() image.Rectangle {
	return r.viewport
}

func (r *ResizeCoordinator) Scale() mgl32.Vec2 {
	return r.scale
}

func (r *ResizeCoordinator) Size() (int, int) {
	return r.spec.Width, r.spec.Height
}
