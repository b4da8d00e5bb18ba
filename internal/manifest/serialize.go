package manifest

import "encoding/json"

// Serialize renders m as canonical JSON (no comments), used by the
// round-trip law (serialise -> parse -> equal) and by tooling that writes
// manifests back to disk.
func Serialize(m Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
