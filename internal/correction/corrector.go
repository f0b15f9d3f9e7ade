package correction

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Result is a corrected image ready for encoding
type Result struct {
	Decision     Decision
	SourceWidth  int
	SourceHeight int
	Image        image.Image // nil for DecisionUnhandled
	Width        int
	Height       int
}

// Corrector derives the resized variant of a sticker from its original
type Corrector struct {
	bounds  Bounds
	quality int
}

// NewCorrector creates a corrector for bounds that encodes at quality
func NewCorrector(bounds Bounds, quality int) *Corrector {
	return &Corrector{
		bounds:  bounds,
		quality: quality,
	}
}

// Bounds returns the configured bounds
func (c *Corrector) Bounds() Bounds {
	return c.bounds
}

// Correct applies the decision for img
func (c *Corrector) Correct(img image.Image) Result {
	b := img.Bounds()
	res := Result{
		Decision:     Decide(b.Dx(), b.Dy(), c.bounds),
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
	}

	switch res.Decision {
	case DecisionResize:
		// Fit keeps the aspect ratio and never exceeds either bound
		res.Image = imaging.Fit(img, c.bounds.Width, c.bounds.Height, imaging.Lanczos)
	case DecisionReplace:
		res.Image = img
	default:
		return res
	}

	rb := res.Image.Bounds()
	res.Width, res.Height = rb.Dx(), rb.Dy()
	return res
}

// Decode reads a PNG, JPEG, GIF, BMP or TIFF image
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Encode writes img in the format implied by filename. The quality setting
// applies to lossy formats; PNG output is lossless.
func (c *Corrector) Encode(w io.Writer, img image.Image, filename string) error {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return fmt.Errorf("unsupported output format for %s: %w", filename, err)
	}

	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(c.quality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
