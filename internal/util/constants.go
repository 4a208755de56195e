package util

// DateFormat is the wire format of the fecha de modificación field.
const DateFormat = "2006-01-02"

// SCORM package archives are plain zips; some authoring tools upload them
// as octet-stream.
var AllowedPackageMimeTypes = []string{
	"application/zip",
	"application/x-zip-compressed",
	"application/octet-stream",
}
