package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chwjbn/vector-hub/media/effect"
	"github.com/chwjbn/vector-hub/media/gconfig"
)

func writePNG(t *testing.T, filePath string, img image.Image) {
	t.Helper()
	file, err := os.Create(filePath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatal(err)
	}
}

func loadMeta(t *testing.T, dir string, data string) gconfig.RenderMeta {
	t.Helper()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	meta, err := gconfig.GetRenderMeta(configPath)
	if err != nil {
		t.Fatalf("GetRenderMeta() error = %v", err)
	}
	return meta
}

func TestCaptureClipsOverlayToOutline(t *testing.T) {
	dir := t.TempDir()

	overlay := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for i := 0; i < len(overlay.Pix); i += 4 {
		overlay.Pix[i+1] = 0xFF
		overlay.Pix[i+3] = 0xFF
	}
	overlayPath := filepath.Join(dir, "overlay.png")
	writePNG(t, overlayPath, overlay)

	tests := []struct {
		name  string
		extra string
	}{
		{"no stencil key", ""},
		{"stencil ref zero", "stencil_ref: 0\n"},
		{"stencil ref seven", "stencil_ref: 7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := loadMeta(t, t.TempDir(), "overlay_path: "+overlayPath+"\n"+tt.extra)

			scene, err := buildScene(meta)
			if err != nil {
				t.Fatal(err)
			}

			capturePath := filepath.Join(t.TempDir(), "frame.png")
			if err := runCapture(meta, scene, capturePath); err != nil {
				t.Fatalf("runCapture() error = %v", err)
			}

			file, err := os.Open(capturePath)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()
			img, err := png.Decode(file)
			if err != nil {
				t.Fatal(err)
			}

			clearColor := color.RGBA{51, 38, 102, 255}
			checks := []struct {
				x, y int
				want color.RGBA
			}{
				// inside the outline
				{250, 250, color.RGBA{0, 255, 0, 255}},
				// inside the overlay quad but outside the outline
				{320, 320, clearColor},
				{180, 180, clearColor},
			}
			for _, c := range checks {
				got := color.RGBAModel.Convert(img.At(c.x, c.y)).(color.RGBA)
				if !nearColor(got, c.want) {
					t.Errorf("pixel (%d, %d) = %v, want %v", c.x, c.y, got, c.want)
				}
			}
		})
	}
}

func nearColor(a color.RGBA, b color.RGBA) bool {
	near := func(x uint8, y uint8) bool {
		d := int(x) - int(y)
		return d >= -1 && d <= 1
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}

func TestPipelineConfigDebugChecks(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"unset follows build", "window_title: Test\n", effect.DebugBuild},
		{"enabled only in debug builds", "debug_checks: true\n", effect.DebugBuild},
		{"disabled", "debug_checks: false\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := loadMeta(t, t.TempDir(), tt.data)
			if got := pipelineConfig(meta, 100, 100).DebugChecks; got != tt.want {
				t.Errorf("DebugChecks = %v, want %v", got, tt.want)
			}
		})
	}
}
