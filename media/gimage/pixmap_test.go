package gimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quadrants(w int, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 0xFF}
			if x >= w/2 {
				c.R = 0xFF
			}
			if y >= h/2 {
				c.B = 0xFF
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	pix, err := Decode(encodePNG(t, quadrants(6, 4)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if pix.Width != 6 || pix.Height != 4 || len(pix.Pix) != 6*4*3 || pix.Stride() != 18 {
		t.Fatalf("pixmap = %dx%d len=%d", pix.Width, pix.Height, len(pix.Pix))
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{A: 0xFF}},
		{5, 0, color.RGBA{R: 0xFF, A: 0xFF}},
		{0, 3, color.RGBA{B: 0xFF, A: 0xFF}},
		{5, 3, color.RGBA{R: 0xFF, B: 0xFF, A: 0xFF}},
	}
	for _, tt := range tests {
		if got := pix.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode() of garbage succeeded")
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.SetRGBA(10, 10, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})
	src.SetRGBA(11, 10, color.RGBA{R: 4, G: 5, B: 6, A: 0xFF})

	pix := FromImage(src)
	if pix.Width != 2 || pix.Height != 1 {
		t.Fatalf("size = %dx%d", pix.Width, pix.Height)
	}
	if !bytes.Equal(pix.Pix, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Pix = %v", pix.Pix)
	}
}

func TestFromImageTranslucent(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
		want []byte
	}{
		{
			name: "nrgba half alpha",
			src: &image.NRGBA{
				Pix:    []uint8{200, 100, 50, 128},
				Stride: 4,
				Rect:   image.Rect(0, 0, 1, 1),
			},
			want: []byte{200, 100, 50},
		},
		{
			name: "nrgba zero alpha keeps color",
			src: &image.NRGBA{
				Pix:    []uint8{10, 20, 30, 0},
				Stride: 4,
				Rect:   image.Rect(0, 0, 1, 1),
			},
			want: []byte{10, 20, 30},
		},
		{
			name: "premultiplied rgba",
			src: &image.RGBA{
				Pix:    []uint8{100, 50, 25, 128},
				Stride: 4,
				Rect:   image.Rect(0, 0, 1, 1),
			},
			want: []byte{199, 99, 49},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := FromImage(tt.src)
			for i := range tt.want {
				d := int(pix.Pix[i]) - int(tt.want[i])
				if d < -1 || d > 1 {
					t.Fatalf("Pix = %v, want %v", pix.Pix, tt.want)
				}
			}
		})
	}
}

func TestScaled(t *testing.T) {
	pix := FromImage(quadrants(8, 8))

	if same := pix.Scaled(8, 8); same != pix {
		t.Error("Scaled() to the same size copied the pixmap")
	}

	half := pix.Scaled(4, 2)
	if half.Width != 4 || half.Height != 2 || len(half.Pix) != 4*2*3 {
		t.Fatalf("scaled = %dx%d len=%d", half.Width, half.Height, len(half.Pix))
	}
	if got := half.At(0, 0); got.R > 0x40 || got.B > 0x40 {
		t.Errorf("top left after scale = %v, want dark", got)
	}
	if got := half.At(3, 1); got.R < 0xC0 || got.B < 0xC0 {
		t.Errorf("bottom right after scale = %v, want magenta", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "overlay.png")
	if err := os.WriteFile(filePath, encodePNG(t, quadrants(2, 2)), 0o644); err != nil {
		t.Fatal(err)
	}

	pix, err := LoadFile(filePath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if pix.Width != 2 || pix.Height != 2 {
		t.Errorf("size = %dx%d", pix.Width, pix.Height)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("LoadFile() of a missing file succeeded")
	}
}
