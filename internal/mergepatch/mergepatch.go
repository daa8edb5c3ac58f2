// mergepatch package builds and applies the RFC 7386 merge patch documents the
// adapter exchanges with the API server. The only patch shape the service ever
// produces is a metadata.annotations update.
package mergepatch

import (
	"encoding/json"
	"errors"
	"fmt"

	jp "github.com/evanphx/json-patch/v5"
)

// ForAnnotations renders the smallest merge patch that sets the given
// annotations and touches nothing else on the resource.
func ForAnnotations(annotations map[string]string) ([]byte, error) {
	if len(annotations) == 0 {
		return nil, errors.New("empty annotation patch")
	}

	patch := map[string]any{
		"metadata": map[string]any{
			"annotations": annotations,
		},
	}

	bs, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal annotation patch: %w", err)
	}
	return bs, nil
}

// Apply merges patch into doc per RFC 7386. Keys present in the patch replace
// their counterparts in doc; everything else in doc survives untouched.
func Apply(doc, patch []byte) ([]byte, error) {
	return jp.MergePatch(doc, patch)
}
