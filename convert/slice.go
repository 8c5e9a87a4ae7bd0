package convert

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Slice is the parsed representation of one single-frame DICOM object:
// the pixel matrix plus the radiometric metadata the rest of the pipeline
// needs. Missing optional tags get their documented defaults at parse
// time, so downstream stages never look anything up ad hoc.
type Slice struct {
	Pixels [][]int // row-major, Rows x Cols
	Rows   int
	Cols   int

	BitsAllocated    int
	RescaleSlope     float64 // default 1.0
	RescaleIntercept float64 // default 0.0
	LUTs             []LookupTable

	PatientID      string
	SOPInstanceUID string
}

// LookupTable is one VOI LUT sequence item: Data maps stored values in
// [First, First+len(Data)) onto unsigned display intensities of
// BitsPerEntry width.
type LookupTable struct {
	First        int
	BitsPerEntry int
	Data         []int
}

// ParseSlice parses raw DICOM bytes into a Slice. It is a pure parse with
// no side effects.
func ParseSlice(raw []byte) (*Slice, error) {
	ds, err := dicom.Parse(bytes.NewReader(raw), int64(len(raw)), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return sliceFromDataset(&ds)
}

func sliceFromDataset(ds *dicom.Dataset) (*Slice, error) {
	if n := framesDeclared(ds); n > 1 {
		return nil, fmt.Errorf("%w: object declares %d frames", ErrUnsupportedDimensionality, n)
	}

	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("%w: no pixel data element", ErrMalformedInput)
	}
	info, ok := el.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected pixel data value type", ErrMalformedInput)
	}
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("%w: pixel data holds no frames", ErrMalformedInput)
	}
	if len(info.Frames) > 1 {
		return nil, fmt.Errorf("%w: pixel data holds %d frames", ErrUnsupportedDimensionality, len(info.Frames))
	}

	fr := info.Frames[0]
	if fr.IsEncapsulated() {
		// Compressed transfer syntaxes are out of scope; refusing beats
		// silently mis-decoding them.
		return nil, fmt.Errorf("%w: encapsulated pixel data", ErrMalformedInput)
	}
	native, err := fr.GetNativeFrame()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	bits := tagInt(ds, tag.BitsAllocated, native.BitsPerSample)
	if bits != 8 && bits != 16 {
		return nil, fmt.Errorf("%w: %d bits allocated", ErrUnsupportedSampleDepth, bits)
	}

	rows, cols := native.Rows, native.Cols
	samples := intSamples(native.Data)
	if rows <= 0 || cols <= 0 || len(samples) == 0 || len(samples)%(rows*cols) != 0 {
		return nil, fmt.Errorf("%w: pixel matrix is %dx%d with %d samples", ErrMalformedInput, rows, cols, len(samples))
	}
	perPixel := len(samples) / (rows * cols)

	pixels := make([][]int, rows)
	for r := 0; r < rows; r++ {
		row := make([]int, cols)
		for c := 0; c < cols; c++ {
			// First sample only; greyscale is the only photometric
			// interpretation in scope.
			row[c] = samples[(r*cols+c)*perPixel]
		}
		pixels[r] = row
	}

	return &Slice{
		Pixels:           pixels,
		Rows:             rows,
		Cols:             cols,
		BitsAllocated:    bits,
		RescaleSlope:     tagFloat(ds, tag.RescaleSlope, 1.0),
		RescaleIntercept: tagFloat(ds, tag.RescaleIntercept, 0.0),
		LUTs:             lookupTables(ds),
		PatientID:        tagString(ds, tag.PatientID),
		SOPInstanceUID:   tagString(ds, tag.SOPInstanceUID),
	}, nil
}

// lookupTables collects every item of the VOI LUT Sequence, in order.
// Items missing a descriptor or data are skipped the way the original
// display pipeline skips them.
func lookupTables(ds *dicom.Dataset) []LookupTable {
	seq, err := ds.FindElementByTag(tag.VOILUTSequence)
	if err != nil || seq == nil {
		return nil
	}
	items, ok := seq.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}

	var luts []LookupTable
	for _, item := range items {
		elems, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			continue
		}
		var desc, data []int
		for _, el := range elems {
			switch el.Tag {
			case tag.LUTDescriptor:
				desc = intValues(el)
			case tag.LUTData:
				data = intValues(el)
			}
		}
		// Descriptor layout is (entries, first stored value, bits per
		// entry). The data length is authoritative for the entry count:
		// a descriptor value of 0 legally means 65536 entries.
		if len(desc) < 3 || len(data) == 0 {
			continue
		}
		luts = append(luts, LookupTable{
			First:        desc[1],
			BitsPerEntry: desc[2],
			Data:         data,
		})
	}
	return luts
}

func framesDeclared(ds *dicom.Dataset) int {
	el, err := ds.FindElementByTag(tag.NumberOfFrames)
	if err != nil || el == nil {
		return 1
	}
	if vals := intValues(el); len(vals) > 0 {
		return vals[0]
	}
	return 1
}

// tagString returns the first string value for the tag, or "" when the
// tag is absent or holds no strings.
func tagString(ds *dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil || el.Value == nil {
		return ""
	}
	switch v := el.Value.GetValue().(type) {
	case []string:
		if len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	case string:
		return strings.TrimSpace(v)
	}
	return ""
}

// tagFloat parses a decimal-string tag (DS) into a float64, falling back
// to def when the tag is absent or unparsable.
func tagFloat(ds *dicom.Dataset, t tag.Tag, def float64) float64 {
	s := tagString(ds, t)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func tagInt(ds *dicom.Dataset, t tag.Tag, def int) int {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return def
	}
	if vals := intValues(el); len(vals) > 0 {
		return vals[0]
	}
	return def
}

// intSamples widens the frame's typed raw sample slice into plain ints,
// whichever storage width the parser picked.
func intSamples(raw any) []int {
	switch v := raw.(type) {
	case []int:
		return v
	case [][]int:
		// Per-pixel sample groups; flattening preserves the interleaved
		// sample order of a flat raw slice.
		var out []int
		for _, px := range v {
			out = append(out, px...)
		}
		return out
	case []uint8:
		return widenSamples(v)
	case []int8:
		return widenSamples(v)
	case []uint16:
		return widenSamples(v)
	case []int16:
		return widenSamples(v)
	case []uint32:
		return widenSamples(v)
	case []int32:
		return widenSamples(v)
	case []int64:
		return widenSamples(v)
	case []uint64:
		return widenSamples(v)
	}
	return nil
}

func widenSamples[S int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64](in []S) []int {
	out := make([]int, len(in))
	for i, s := range in {
		out[i] = int(s)
	}
	return out
}

// intValues normalizes the integer-ish encodings seen in the wild: plain
// ints (US/SS), integer strings (IS) and little-endian byte pairs (OW).
func intValues(el *dicom.Element) []int {
	if el == nil || el.Value == nil {
		return nil
	}
	switch v := el.Value.GetValue().(type) {
	case []int:
		return v
	case []string:
		out := make([]int, 0, len(v))
		for _, s := range v {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil
			}
			out = append(out, n)
		}
		return out
	case []byte:
		out := make([]int, 0, len(v)/2)
		for i := 0; i+1 < len(v); i += 2 {
			out = append(out, int(uint16(v[i])|uint16(v[i+1])<<8))
		}
		return out
	}
	return nil
}
