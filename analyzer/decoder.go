package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/oned"
)

// Decoder locates and decodes barcode symbols in an image.
type Decoder interface {
	Decode(ctx context.Context, img image.Image) ([]DecodeHit, error)
}

// minBoxHeight pads the overlay rectangle of 1D hits, whose result points
// all sit on a single scan line.
const minBoxHeight = 12

// ZXingDecoder reads Code128 symbols through gozxing.
type ZXingDecoder struct {
	reader    multi.MultipleBarcodeReader
	tryHarder bool
}

// NewZXingDecoder builds a multi-symbol Code128 decoder.
func NewZXingDecoder(tryHarder bool) *ZXingDecoder {
	return &ZXingDecoder{
		reader:    multi.NewGenericMultipleBarcodeReader(oned.NewCode128Reader()),
		tryHarder: tryHarder,
	}
}

// Decode returns one DecodeHit per located symbol. An image without any
// symbol is a normal outcome: zero hits, no error.
func (d *ZXingDecoder) Decode(ctx context.Context, img image.Image) ([]DecodeHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("prepare bitmap: %w", err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{gozxing.BarcodeFormat_CODE_128},
	}
	if d.tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	results, err := d.reader.DecodeMultiple(bmp, hints)
	if err != nil {
		var notFound gozxing.NotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	hits := make([]DecodeHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, DecodeHit{
			Payload:   []byte(r.GetText()),
			Symbology: formatTag(r.GetBarcodeFormat()),
			Box:       boxFromPoints(r.GetResultPoints(), img.Bounds()),
		})
	}
	return hits, nil
}

func formatTag(f gozxing.BarcodeFormat) string {
	if f == gozxing.BarcodeFormat_CODE_128 {
		return SymbologyCode128
	}
	return f.String()
}

func boxFromPoints(points []gozxing.ResultPoint, bounds image.Rectangle) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, maxX := points[0].GetX(), points[0].GetX()
	minY, maxY := points[0].GetY(), points[0].GetY()
	for _, p := range points[1:] {
		if p.GetX() < minX {
			minX = p.GetX()
		}
		if p.GetX() > maxX {
			maxX = p.GetX()
		}
		if p.GetY() < minY {
			minY = p.GetY()
		}
		if p.GetY() > maxY {
			maxY = p.GetY()
		}
	}
	left, top := int(minX), int(minY)
	right, bottom := int(maxX+0.5), int(maxY+0.5)
	if bottom-top < minBoxHeight {
		mid := (top + bottom) / 2
		top = mid - minBoxHeight/2
		bottom = mid + minBoxHeight/2
	}
	if left < bounds.Min.X {
		left = bounds.Min.X
	}
	if top < bounds.Min.Y {
		top = bounds.Min.Y
	}
	if right > bounds.Max.X {
		right = bounds.Max.X
	}
	if bottom > bounds.Max.Y {
		bottom = bounds.Max.Y
	}
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}
