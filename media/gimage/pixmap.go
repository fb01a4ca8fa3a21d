package gimage

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Pixmap is a tightly packed RGB image, first row at the top.
type Pixmap struct {
	Pix    []byte
	Width  int
	Height int
}

func (p *Pixmap) Stride() int {
	return p.Width * 3
}

// At returns the pixel at x, y.
func (p *Pixmap) At(x int, y int) color.RGBA {
	i := y*p.Stride() + x*3
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: 0xFF}
}

// LoadFile decodes a PNG, JPEG, BMP or WebP file.
func LoadFile(filePath string) (*Pixmap, error) {

	data, xErr := os.ReadFile(filePath)
	if xErr != nil {
		return nil, errors.Wrapf(xErr, "read overlay file=[%s]", filePath)
	}

	pix, xErr := Decode(data)
	if xErr != nil {
		return nil, errors.Wrapf(xErr, "decode overlay file=[%s]", filePath)
	}

	return pix, nil
}

func Decode(data []byte) (*Pixmap, error) {

	img, format, xErr := image.Decode(bytes.NewReader(data))
	if xErr != nil {
		return nil, errors.Wrap(xErr, "image.Decode")
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.Newf("%s image has no pixels", format)
	}

	return FromImage(img), nil
}

// FromImage converts any image to packed RGB. Colors are taken
// unpremultiplied and alpha is dropped.
func FromImage(img image.Image) *Pixmap {

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	pix := &Pixmap{
		Pix:    make([]byte, width*height*3),
		Width:  width,
		Height: height,
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			si := y*nrgba.Stride + x*4
			di := y*pix.Stride() + x*3
			pix.Pix[di] = nrgba.Pix[si]
			pix.Pix[di+1] = nrgba.Pix[si+1]
			pix.Pix[di+2] = nrgba.Pix[si+2]
		}
	}

	return pix
}

// Scaled returns a copy resized to width x height with bilinear filtering.
func (p *Pixmap) Scaled(width int, height int) *Pixmap {

	if width == p.Width && height == p.Height {
		return p
	}

	src := p.RGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return FromImage(dst)
}

// RGBA expands the pixmap to an opaque RGBA image.
func (p *Pixmap) RGBA() *image.RGBA {

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			img.SetRGBA(x, y, p.At(x, y))
		}
	}

	return img
}
