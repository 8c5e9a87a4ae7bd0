package convert

import "errors"

// Error kinds surfaced by the pipeline. Every stage fails fast and the
// orchestrator returns the kind unchanged, so callers can branch with
// errors.Is. These are deterministic data-validity failures; nothing here
// is worth retrying.
var (
	ErrMalformedInput            = errors.New("malformed DICOM input")
	ErrUnsupportedDimensionality = errors.New("unsupported dimensionality")
	ErrUnsupportedSampleDepth    = errors.New("unsupported sample depth")
	ErrMissingIdentifier         = errors.New("missing SOP instance UID")
	ErrEncoding                  = errors.New("png encoding failed")
)
