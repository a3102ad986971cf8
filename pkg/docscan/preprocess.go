package docscan

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// prepareImage writes a cleaned-up temp PNG of the scan for the OCR pass.
// Returns the temp path, or the original path if preprocessing fails.
func prepareImage(path string) string {
	img, err := imaging.Open(path)
	if err != nil {
		return path
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 1100 {
		gray = imaging.Resize(gray, 0, 1500, imaging.Lanczos)
	}
	bin := binarize(gray, 200)
	tmpFile, err := os.CreateTemp("", "docscan-*.png")
	if err != nil {
		return path
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	if err := imaging.Save(bin, tmp); err != nil {
		_ = os.Remove(tmp)
		return path
	}
	return tmp
}
