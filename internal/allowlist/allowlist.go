// allowlist package holds the immutable set of ConfigMaps the webhook is
// allowed to patch. The set is built once at startup; there is no way to grow
// or shrink it afterwards, which makes lookups safe without synchronization.
package allowlist

import (
	"maps"
	"slices"

	"github.com/gitsync-reloader/webhook-adapter/internal/config"
)

type Allowlist struct {
	refs map[config.ResourceRef]struct{}
}

// New builds an allowlist from "namespace/name" entries. A single malformed
// entry fails construction so the service never comes up with a partial
// allowlist. Duplicate entries collapse into one.
func New(entries []string) (*Allowlist, error) {
	refs := make(map[config.ResourceRef]struct{}, len(entries))
	for _, entry := range entries {
		ref, err := config.ParseResourceRef(entry)
		if err != nil {
			return nil, err
		}
		refs[ref] = struct{}{}
	}
	return &Allowlist{refs: refs}, nil
}

// Contains reports whether ref may be patched. Matching is exact and case
// sensitive; there is no pattern or prefix logic. A nil allowlist denies
// everything.
func (a *Allowlist) Contains(ref config.ResourceRef) bool {
	if a == nil {
		return false
	}
	_, ok := a.refs[ref]
	return ok
}

// Refs returns the allowlisted references ordered by namespace, then name.
func (a *Allowlist) Refs() []config.ResourceRef {
	if a == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(a.refs), config.ResourceRef.Compare)
}

func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.refs)
}
