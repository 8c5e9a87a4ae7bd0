package entities

import "encoding/json"

// Conversion is the record returned by the API when a converted PNG is
// stored instead of streamed back.
type Conversion struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PatientID      string `json:"patient_id"`
	SOPInstanceUID string `json:"sop_instance_uid"`
	Size           int    `json:"size"`
}

func (c *Conversion) String() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}
