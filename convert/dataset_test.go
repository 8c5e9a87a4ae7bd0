package convert

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	testSOPClassUID    = "1.2.840.10008.5.1.4.1.1.7"
	testSOPInstanceUID = "1.2.826.0.1.3680043.8.498.1000"
	testPatientID      = "PID000123"
)

func mustNewElement(t tag.Tag, data interface{}) *dicom.Element {
	el, err := dicom.NewElement(t, data)
	if err != nil {
		panic(err)
	}
	return el
}

func metaElements() []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{testSOPClassUID}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{testSOPInstanceUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
	}
}

func imageElements(rows, cols, bits int) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.SOPClassUID, []string{testSOPClassUID}),
		mustNewElement(tag.SOPInstanceUID, []string{testSOPInstanceUID}),
		mustNewElement(tag.PatientID, []string{testPatientID}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.Rows, []int{rows}),
		mustNewElement(tag.Columns, []int{cols}),
		mustNewElement(tag.BitsAllocated, []int{bits}),
		mustNewElement(tag.BitsStored, []int{bits}),
		mustNewElement(tag.HighBit, []int{bits - 1}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
	}
}

// pixelElement packs row-major pixel samples into a single native frame.
func pixelElement(rows, cols, bits int, pixels []int) *dicom.Element {
	if byteLen := rows * cols * bits / 8; byteLen%2 != 0 {
		// The writer rejects odd-length native pixel data, so emit the
		// same samples as raw little-endian bytes with a trailing pad
		// byte; the reader skips the pad when parsing the frame.
		buf := make([]byte, 0, byteLen+1)
		for _, v := range pixels {
			buf = append(buf, byte(v))
			if bits == 16 {
				buf = append(buf, byte(v>>8))
			}
		}
		buf = append(buf, 0)
		return mustNewElement(tag.PixelData, dicom.PixelDataInfo{
			IntentionallyUnprocessed: true,
			UnprocessedValueData:     buf,
		})
	}
	return mustNewElement(tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{
			Encapsulated: false,
			NativeData:   nativeFrame(rows, cols, bits, pixels),
		}},
	})
}

func nativeFrame(rows, cols, bits int, pixels []int) frame.NativeFrame {
	data := make([][]int, len(pixels))
	for i, v := range pixels {
		data[i] = []int{v}
	}
	return frame.NativeFrame{
		BitsPerSample: bits,
		Rows:          rows,
		Cols:          cols,
		Data:          data,
	}
}

func lutElement(first, bitsPerEntry int, data []int) *dicom.Element {
	// The dictionary VR for LUTData is text, so the writer only accepts
	// strings; intValues parses them back into the same ints.
	strs := make([]string, len(data))
	for i, v := range data {
		strs[i] = strconv.Itoa(v)
	}
	return mustNewElement(tag.VOILUTSequence, [][]*dicom.Element{{
		mustNewElement(tag.LUTDescriptor, []int{len(data), first, bitsPerEntry}),
		mustNewElement(tag.LUTData, strs),
	}})
}

// dicomBytes serializes the elements as an explicit-VR little-endian
// DICOM file the way a modality would have written it.
func dicomBytes(t *testing.T, elements ...*dicom.Element) []byte {
	t.Helper()
	var buf bytes.Buffer
	all := append(metaElements(), elements...)
	if err := dicom.Write(&buf, dicom.Dataset{Elements: all}, dicom.SkipVRVerification()); err != nil {
		t.Fatalf("cannot write test object: %v", err)
	}
	return buf.Bytes()
}

// testObject is the default happy-path input: 4x4, 16 bits, rescale
// slope 2.0 and intercept -100.
func testObject(t *testing.T) []byte {
	t.Helper()
	elements := imageElements(4, 4, 16)
	elements = append(elements,
		mustNewElement(tag.RescaleIntercept, []string{"-100.0"}),
		mustNewElement(tag.RescaleSlope, []string{"2.0"}),
		pixelElement(4, 4, 16, testPixels()),
	)
	return dicomBytes(t, elements...)
}

func testPixels() []int {
	return []int{
		0, 1000, 500, 250,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}
}
