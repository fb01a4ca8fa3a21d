package effect_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/chwjbn/vector-hub/media/effect"
	"github.com/chwjbn/vector-hub/media/effect/softgl"
	"github.com/chwjbn/vector-hub/media/gimage"
	"github.com/go-gl/mathgl/mgl32"
)

const flatVertex = `#version 330 core
layout (location = 0) in vec2 pos;
uniform vec2 scale;
void main() {
    gl_Position = vec4(scale * pos, 0.0, 1.0);
}
`

const flatFragment = `#version 330 core
uniform vec4 color;
out vec4 fragColor;
void main() {
    fragColor = color;
}
`

func newDevice(t *testing.T, width int, height int) *softgl.Device {
	t.Helper()
	return softgl.New(width, height)
}

func mustBuild(t *testing.T, dev effect.Device, vs string, fs string) *effect.GlProgram {
	t.Helper()
	prog, err := effect.NewProgramBuilder(dev).Build(vs, fs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return prog
}

// solidPixmap returns a w x h pixmap filled with c.
func solidPixmap(w int, h int, c color.RGBA) *gimage.Pixmap {
	pix := &gimage.Pixmap{Pix: make([]byte, w*h*3), Width: w, Height: h}
	for i := 0; i < len(pix.Pix); i += 3 {
		pix.Pix[i] = c.R
		pix.Pix[i+1] = c.G
		pix.Pix[i+2] = c.B
	}
	return pix
}

// splitPixmap is top half top, bottom half bottom.
func splitPixmap(w int, h int, top color.RGBA, bottom color.RGBA) *gimage.Pixmap {
	pix := solidPixmap(w, h, bottom)
	for y := 0; y < h/2; y++ {
		for x := 0; x < w; x++ {
			i := y*pix.Stride() + x*3
			pix.Pix[i] = top.R
			pix.Pix[i+1] = top.G
			pix.Pix[i+2] = top.B
		}
	}
	return pix
}

func vecColor(v mgl32.Vec4) color.RGBA {
	conv := func(f float32) uint8 {
		return uint8(f*255 + 0.5)
	}
	return color.RGBA{R: conv(v[0]), G: conv(v[1]), B: conv(v[2]), A: conv(v[3])}
}

// near allows one step of rounding difference per channel.
func near(a color.RGBA, b color.RGBA) bool {
	diff := func(x uint8, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return diff(a.R, b.R) <= 1 && diff(a.G, b.G) <= 1 && diff(a.B, b.B) <= 1 && diff(a.A, b.A) <= 1
}

func checkPixel(t *testing.T, img *image.RGBA, x int, y int, want color.RGBA) {
	t.Helper()
	if got := img.RGBAAt(x, y); !near(got, want) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func checkNoLeaks(t *testing.T, dev *softgl.Device) {
	t.Helper()
	if n := dev.LiveTotal(); n != 0 {
		t.Errorf("live objects after release = %d (%s), want 0", n, dev.LiveSummary())
	}
}
