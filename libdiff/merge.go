package libdiff

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// MergePatch returns the JSON merge patch (RFC 7386) taking the JSON
// document a to b.
func MergePatch(a, b []byte) ([]byte, error) {
	p, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("could not create merge patch: %w", err)
	}
	return p, nil
}

// ApplyMergePatch applies a patch produced by MergePatch.
func ApplyMergePatch(doc, patch []byte) ([]byte, error) {
	res, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("could not apply merge patch: %w", err)
	}
	return res, nil
}
