package gwindow

import (
	"github.com/chwjbn/vector-hub/glog"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.2/glfw"
)

// EventHandler receives the window events the render loop cares about. Both
// callbacks run on the thread that owns the GL context.
type EventHandler interface {
	OnResize(width int, height int) error
	OnRedraw() error
}

type GlWindow struct {
	mWindow  *glfw.Window
	mWidth   int
	mHeight  int
	mResized bool
}

// NewGlWindow initialises GLFW and opens a window with a current OpenGL 3.3
// core context. It must be called from the main thread.
func NewGlWindow(title string, width int, height int, vsync bool) (*GlWindow, error) {

	glErr := glfw.Init()
	if glErr != nil {
		return nil, errors.Wrap(glErr, "glfw.Init")
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, glErr := glfw.CreateWindow(width, height, title, nil, nil)
	if glErr != nil {
		glfw.Terminate()
		return nil, errors.Wrap(glErr, "glfw.CreateWindow")
	}

	if window == nil {
		glfw.Terminate()
		return nil, errors.New("glfw.CreateWindow faild")
	}

	window.MakeContextCurrent()

	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &GlWindow{mWindow: window}
	w.mWidth, w.mHeight = window.GetFramebufferSize()

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width int, height int) {
		w.mWidth = width
		w.mHeight = height
		w.mResized = true
	})

	window.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyQ || key == glfw.KeyEscape {
			win.SetShouldClose(true)
		}
	})

	glog.InfoF("window=[%s] created framebuffer=[%dx%d] vsync=[%v]", title, w.mWidth, w.mHeight, vsync)

	return w, nil
}

// FramebufferSize is the drawable size in pixels.
func (w *GlWindow) FramebufferSize() (int, int) {
	return w.mWidth, w.mHeight
}

// SwapBuffers presents the back buffer. GLFW reports a lost context by
// panicking, which is turned into an error here.
func (w *GlWindow) SwapBuffers() (xErr error) {

	defer func() {
		if r := recover(); r != nil {
			xErr = errors.Newf("glfw SwapBuffers panic:[%v]", r)
		}
	}()

	w.mWindow.SwapBuffers()

	return xErr
}

// Run pumps events until the window is closed, quit is closed or a handler
// returns an error. Resize events are coalesced to one per iteration.
func (w *GlWindow) Run(handler EventHandler, quit <-chan struct{}) error {

	for !w.mWindow.ShouldClose() {

		select {
		case <-quit:
			glog.Info("window loop quit requested")
			return nil
		default:
		}

		glfw.PollEvents()

		if w.mResized {
			w.mResized = false
			if xErr := handler.OnResize(w.mWidth, w.mHeight); xErr != nil {
				return xErr
			}
		}

		if xErr := handler.OnRedraw(); xErr != nil {
			return xErr
		}
	}

	glog.Info("window closed")

	return nil
}

func (w *GlWindow) Destroy() {
	if w.mWindow != nil {
		w.mWindow.Destroy()
		w.mWindow = nil
	}
	glfw.Terminate()
}
