package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG serializes the 8-bit greyscale raster as a standard
// non-interlaced greyscale PNG with no alpha channel.
func EncodePNG(img *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}
