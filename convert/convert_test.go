package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestConvert(t *testing.T) {
	raw := testObject(t)

	res, err := Convert(raw)
	assert.Nil(t, err)

	hash, _ := InstanceHash(testSOPInstanceUID)
	assert.Equal(t, fmt.Sprintf("%s_%s.png", testPatientID, hash), res.Name)
	assert.Equal(t, testPatientID, res.PatientID)
	assert.Equal(t, testSOPInstanceUID, res.SOPInstanceUID)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 4, res.Cols)

	decoded, err := png.Decode(bytes.NewReader(res.PNG))
	assert.Nil(t, err)
	gray, ok := decoded.(*image.Gray)
	assert.True(t, ok)

	// Stored 0 rescales to -100 (the minimum), 1000 to 1900 (the
	// maximum); 500 and 250 land proportionally in between.
	assert.Equal(t, uint8(0), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(128), gray.GrayAt(2, 0).Y)
	assert.Equal(t, uint8(64), gray.GrayAt(3, 0).Y)
	assert.Equal(t, uint8(0), gray.GrayAt(3, 3).Y)
}

func TestConvertDeterminism(t *testing.T) {
	raw := testObject(t)

	res1, err := Convert(raw)
	assert.Nil(t, err)
	res2, err := Convert(raw)
	assert.Nil(t, err)

	assert.Equal(t, res1.Name, res2.Name)
	assert.Equal(t, res1.PNG, res2.PNG)
}

func TestConvertWithLUT(t *testing.T) {
	s := &Slice{
		Pixels:           [][]int{{0, 1, 2, 3}},
		Rows:             1,
		Cols:             4,
		BitsAllocated:    8,
		RescaleSlope:     1.0,
		RescaleIntercept: 0.0,
		LUTs: []LookupTable{
			{First: 0, BitsPerEntry: 8, Data: []int{0, 85, 170, 255}},
		},
		PatientID:      testPatientID,
		SOPInstanceUID: testSOPInstanceUID,
	}

	res, err := convertSlice(s)
	assert.Nil(t, err)

	decoded, err := png.Decode(bytes.NewReader(res.PNG))
	assert.Nil(t, err)
	gray := decoded.(*image.Gray)
	assert.Equal(t, []uint8{0, 85, 170, 255}, []uint8(gray.Pix))
}

func TestConvertLUTFromBytes(t *testing.T) {
	// The LUT sequence travels through serialization and back: the
	// table's domain starts at 1, so stored 0 clamps to the first entry
	// and stored 4 clamps past the last one.
	elements := imageElements(1, 5, 8)
	elements = append(elements,
		lutElement(1, 8, []int{50, 100, 150}),
		pixelElement(1, 5, 8, []int{0, 1, 2, 3, 4}),
	)

	res, err := Convert(dicomBytes(t, elements...))
	assert.Nil(t, err)

	decoded, err := png.Decode(bytes.NewReader(res.PNG))
	assert.Nil(t, err)
	gray, ok := decoded.(*image.Gray)
	assert.True(t, ok)
	assert.Equal(t, []uint8{50, 50, 100, 150, 150}, []uint8(gray.Pix))
}

func TestConvertErrors(t *testing.T) {
	{
		_, err := Convert([]byte("garbage"))
		assert.True(t, errors.Is(err, ErrMalformedInput))
	}
	// No SOP Instance UID means no stable name, so no output at all.
	{
		elements := []*dicom.Element{
			mustNewElement(tag.SOPClassUID, []string{testSOPClassUID}),
			mustNewElement(tag.PatientID, []string{testPatientID}),
			mustNewElement(tag.SamplesPerPixel, []int{1}),
			mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
			mustNewElement(tag.Rows, []int{2}),
			mustNewElement(tag.Columns, []int{2}),
			mustNewElement(tag.BitsAllocated, []int{8}),
			mustNewElement(tag.BitsStored, []int{8}),
			mustNewElement(tag.HighBit, []int{7}),
			mustNewElement(tag.PixelRepresentation, []int{0}),
			pixelElement(2, 2, 8, []int{0, 1, 2, 3}),
		}
		_, err := Convert(dicomBytes(t, elements...))
		assert.True(t, errors.Is(err, ErrMissingIdentifier))
	}
}
