package kube

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	"github.com/gitsync-reloader/webhook-adapter/internal/config"
	"github.com/gitsync-reloader/webhook-adapter/internal/logging"
	"github.com/gitsync-reloader/webhook-adapter/internal/mergepatch"
	"github.com/gitsync-reloader/webhook-adapter/internal/metrics"
)

// Store reads and patches ConfigMap annotations through a clientset. It
// issues exactly one API call per method invocation and never retries.
type Store struct {
	client       kubernetes.Interface
	fieldManager string
	log          *logging.Logger
}

func NewStore(client kubernetes.Interface) *Store {
	return &Store{
		client:       client,
		fieldManager: config.DefaultFieldManager,
		log:          logging.NewNopLogger(),
	}
}

func (s *Store) WithFieldManager(manager string) *Store {
	s.fieldManager = manager
	return s
}

func (s *Store) WithLogger(log *logging.Logger) *Store {
	s.log = log
	return s
}

// Annotations returns the annotations of the referenced ConfigMap. A missing
// resource is an error like any other; the adapter never creates resources.
func (s *Store) Annotations(ctx context.Context, ref config.ResourceRef) (map[string]string, error) {
	cm, err := s.client.CoreV1().ConfigMaps(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	metrics.StoreRead(err)
	if err != nil {
		if apierrors.IsNotFound(err) {
			s.log.Debugf("configmap %v does not exist", ref)
		}
		return nil, fmt.Errorf("failed to read configmap %v: %w", ref, err)
	}
	return cm.GetAnnotations(), nil
}

// ApplyAnnotations issues a single merge patch setting exactly the given
// annotations. The field manager identity stays stable across restarts so the
// API server attributes every write to the same actor.
func (s *Store) ApplyAnnotations(ctx context.Context, ref config.ResourceRef, annotations map[string]string) error {
	patch, err := mergepatch.ForAnnotations(annotations)
	if err != nil {
		return err
	}

	_, err = s.client.CoreV1().ConfigMaps(ref.Namespace).Patch(ctx, ref.Name, types.MergePatchType, patch, metav1.PatchOptions{FieldManager: s.fieldManager})
	metrics.StoreWrite(err)
	if err != nil {
		return fmt.Errorf("failed to patch configmap %v: %w", ref, err)
	}

	s.log.Debugf("Patched configmap %v with annotations %v", ref, annotations)
	return nil
}
