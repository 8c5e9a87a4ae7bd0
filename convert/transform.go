package convert

import "math"

// IntensityRaster holds the samples after the rescale transform and the
// optional LUT substitution, in float64 so 16-bit inputs survive
// arbitrary slopes without overflow.
type IntensityRaster struct {
	Data []float64 // row-major
	Rows int
	Cols int

	// LUTApplied marks that the values are table outputs; LUTBits is the
	// table's declared entry width, which the normalizer uses as the
	// display range instead of the observed min/max.
	LUTApplied bool
	LUTBits    int
}

// Transform computes r = s*slope + intercept for every stored sample and,
// when the slice carries at least one LUT, substitutes through the first
// one. Only the first available LUT is ever used; that is a deliberate
// policy carried over from the display pipeline, not an oversight.
func Transform(s *Slice) *IntensityRaster {
	out := &IntensityRaster{
		Data: make([]float64, s.Rows*s.Cols),
		Rows: s.Rows,
		Cols: s.Cols,
	}

	i := 0
	for _, row := range s.Pixels {
		for _, v := range row {
			out.Data[i] = float64(v)*s.RescaleSlope + s.RescaleIntercept
			i++
		}
	}

	if len(s.LUTs) == 0 {
		return out
	}

	lut := s.LUTs[0]
	for i, r := range out.Data {
		out.Data[i] = float64(lut.At(r))
	}
	out.LUTApplied = true
	out.LUTBits = lut.BitsPerEntry
	return out
}

// At maps a rescaled sample onto the table entry for its rounded value.
// Samples outside the table's domain clamp to the first or last entry;
// the LUT is defined to cover the full meaningful range, so falling off
// either end is display saturation, not an error.
func (l LookupTable) At(r float64) int {
	idx := int(math.Round(r)) - l.First
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.Data) {
		idx = len(l.Data) - 1
	}
	return l.Data[idx]
}
