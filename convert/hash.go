package convert

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"dicom2png/constants"
)

// instanceHashLen is the number of leading hex characters kept from the
// SHA-1 digest. Sixteen characters keep names short while making
// accidental collisions unlikely; this is collision resistance, not a
// uniqueness guarantee.
const instanceHashLen = 16

// InstanceHash hashes the SOP Instance UID (SHA-1 over its UTF-8 bytes)
// and returns the leading 16 lowercase hex characters. Deterministic
// across runs and platforms.
func InstanceHash(sopInstanceUID string) (string, error) {
	if sopInstanceUID == "" {
		return "", ErrMissingIdentifier
	}
	sum := sha1.Sum([]byte(sopInstanceUID))
	return hex.EncodeToString(sum[:])[:instanceHashLen], nil
}

// OutputName builds the PatientID_InstanceHash.png output filename. An
// empty patient ID is substituted with the UNKNOWN placeholder rather
// than a silently blank prefix. The caller owns filesystem-safe
// sanitization of hostile patient IDs.
func OutputName(patientID, instanceHash string) string {
	if patientID == "" {
		patientID = constants.UnknownPatientID
	}
	return fmt.Sprintf("%s_%s.png", patientID, instanceHash)
}
