// Package convert turns one single-slice DICOM object into an 8-bit
// greyscale PNG with a content-derived filename. The pipeline is pure
// computation: no I/O, no state shared between calls, safe to run
// concurrently for independent inputs.
package convert

// Result is the output of one conversion: the derived output filename and
// the encoded PNG bytes, plus the identifiers callers want in their logs.
type Result struct {
	Name           string
	PNG            []byte
	PatientID      string
	SOPInstanceUID string
	Rows           int
	Cols           int
}

// Convert runs the whole pipeline on one DICOM object: parse, hash the
// instance UID, rescale, apply the first LUT if present, normalize to
// 8-bit greyscale and encode as PNG. The first failing stage aborts the
// call with its error kind and no partial output. Identical input bytes
// always yield an identical name and identical PNG bytes.
func Convert(raw []byte) (*Result, error) {
	slice, err := ParseSlice(raw)
	if err != nil {
		return nil, err
	}
	return convertSlice(slice)
}

func convertSlice(s *Slice) (*Result, error) {
	hash, err := InstanceHash(s.SOPInstanceUID)
	if err != nil {
		return nil, err
	}

	data, err := EncodePNG(Normalize(Transform(s)))
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:           OutputName(s.PatientID, hash),
		PNG:            data,
		PatientID:      s.PatientID,
		SOPInstanceUID: s.SOPInstanceUID,
		Rows:           s.Rows,
		Cols:           s.Cols,
	}, nil
}
