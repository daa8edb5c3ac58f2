// webhook package implements the git-sync notification contract. Each
// notification carries the commit hash git-sync just checked out, and the
// handler reconciles that hash onto the target ConfigMap's annotations so
// that reload controllers watching the annotation roll the workload.
package webhook

import (
	"context"
	"net/http"

	"github.com/gitsync-reloader/webhook-adapter/internal/allowlist"
	"github.com/gitsync-reloader/webhook-adapter/internal/config"
	"github.com/gitsync-reloader/webhook-adapter/internal/logging"
)

const (
	// HeaderSyncHash is the request header git-sync posts the commit hash
	// in. Lookup is case insensitive.
	HeaderSyncHash = "Gitsync-Hash"

	// AnnotationSyncHash is the ConfigMap annotation the commit hash is
	// recorded under.
	AnnotationSyncHash = "git-sync-hash"
)

// Store reads and updates annotations on the resources the webhook manages.
type Store interface {
	Annotations(ctx context.Context, ref config.ResourceRef) (map[string]string, error)
	ApplyAnnotations(ctx context.Context, ref config.ResourceRef, annotations map[string]string) error
}

// Outcome classifies how a notification was resolved.
type Outcome int

const (
	// Updated means the annotation was rewritten with the posted hash.
	Updated Outcome = iota
	// Unchanged means the annotation already recorded the posted hash.
	Unchanged
	// Denied means the target is not on the allowlist.
	Denied
	// MissingHash means the request carried no hash header.
	MissingHash
	// StoreError means reading or updating the target failed.
	StoreError
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	case Denied:
		return "denied"
	case MissingHash:
		return "missing_hash"
	case StoreError:
		return "store_error"
	}
	return "unknown"
}

// Result reports the resolution of one notification. Hash is the posted
// commit hash and is set on every outcome that got far enough to read it.
type Result struct {
	Outcome Outcome
	Hash    string
	Err     error
}

// Handler reconciles git-sync notifications onto annotations.
type Handler struct {
	allowed *allowlist.Allowlist
	store   Store
	log     *logging.Logger
}

func New() *Handler {
	return &Handler{log: logging.NewNopLogger()}
}

func (h *Handler) WithAllowlist(allowed *allowlist.Allowlist) *Handler {
	h.allowed = allowed
	return h
}

func (h *Handler) WithStore(store Store) *Handler {
	h.store = store
	return h
}

func (h *Handler) WithLogger(log *logging.Logger) *Handler {
	h.log = log
	return h
}

// Handle reconciles one notification for ref. The target must be on the
// allowlist before the request is inspected any further, and the store is
// contacted at most twice: one read, plus one write when the posted hash
// differs from what the annotation records. Two concurrent notifications
// for the same target may interleave between read and write; the last
// write wins, which is acceptable because every notification carries the
// full desired state.
func (h *Handler) Handle(ctx context.Context, ref config.ResourceRef, headers http.Header) Result {
	if !h.allowed.Contains(ref) {
		return Result{Outcome: Denied}
	}

	hash := headers.Get(HeaderSyncHash)
	if hash == "" {
		return Result{Outcome: MissingHash}
	}

	annotations, err := h.store.Annotations(ctx, ref)
	if err != nil {
		return Result{Outcome: StoreError, Hash: hash, Err: err}
	}

	// An absent annotation never equals a posted hash, so a fresh target
	// always takes the write path.
	if current, ok := annotations[AnnotationSyncHash]; ok && current == hash {
		h.log.Debugf("configmap %v already records hash %s", ref, hash)
		return Result{Outcome: Unchanged, Hash: hash}
	}

	if err := h.store.ApplyAnnotations(ctx, ref, map[string]string{AnnotationSyncHash: hash}); err != nil {
		return Result{Outcome: StoreError, Hash: hash, Err: err}
	}

	h.log.Infof("updated configmap %v to hash %s", ref, hash)
	return Result{Outcome: Updated, Hash: hash}
}
