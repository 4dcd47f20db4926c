package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
)

// DecodeImage reads an image in any supported format (PNG, JPEG, GIF, BMP).
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// DecodeImageFile opens and decodes the image at path.
func DecodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return DecodeImage(f)
}

// DrawBoxes renders the rectangles as red outlines onto a copy of img,
// leaving the original untouched.
func DrawBoxes(img image.Image, boxes []Rect) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	red := color.RGBA{R: 0xff, A: 0xff}
	for _, b := range boxes {
		drawOutline(out, b, red, 2)
	}
	return out
}

func drawOutline(dst *image.RGBA, b Rect, c color.Color, thickness int) {
	for t := 0; t < thickness; t++ {
		x0, y0 := b.Left-t, b.Top-t
		x1, y1 := b.Left+b.Width+t, b.Top+b.Height+t
		for x := x0; x <= x1; x++ {
			setPixel(dst, x, y0, c)
			setPixel(dst, x, y1, c)
		}
		for y := y0; y <= y1; y++ {
			setPixel(dst, x0, y, c)
			setPixel(dst, x1, y, c)
		}
	}
}

func setPixel(dst *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, c)
	}
}
