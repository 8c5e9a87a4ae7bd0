package convert

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Normalize maps the raster linearly onto the 8-bit range. Without a LUT
// the observed minimum and maximum define the input range. With a LUT the
// declared output range [0, 2^bits-1] defines it: the table already
// encodes the clinically intended display mapping, so the observed
// extremes must not re-stretch it.
func Normalize(r *IntensityRaster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Cols, r.Rows))

	var lo, hi float64
	if r.LUTApplied {
		hi = math.Pow(2, float64(r.LUTBits)) - 1
	} else {
		lo = floats.Min(r.Data)
		hi = floats.Max(r.Data)
	}

	width := hi - lo
	if width <= 0 {
		// Constant image: everything renders as 0, never a divide fault.
		return img
	}

	for i, v := range r.Data {
		g := math.Round((v - lo) / width * 255)
		if g < 0 {
			g = 0
		}
		if g > 255 {
			g = 255
		}
		img.Pix[i] = uint8(g)
	}
	return img
}
