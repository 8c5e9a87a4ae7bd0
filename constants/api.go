package constants

const (
	ENV = "CONVERTER_ENV"

	ParamName  = "name"
	ParamStore = "store"

	ServerOK          = 0
	ServerError       = 1
	ServerInvalidData = 2
	ServerNotFound    = 3

	// UnknownPatientID is the documented placeholder substituted into
	// output names when the object carries no Patient ID; output names
	// are never silently blank.
	UnknownPatientID = "UNKNOWN"
)
