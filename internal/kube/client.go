// kube package carries the Kubernetes client construction and the
// ConfigMap-backed resource store the webhook writes through.
package kube

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/gitsync-reloader/webhook-adapter/internal/config"
)

// NewClientset builds a Kubernetes clientset from the configured kubeconfig
// path. An empty path tries in-cluster credentials first and then falls back
// to $KUBECONFIG and ~/.kube/config for runs outside a pod.
func NewClientset(cfg *config.Kubernetes) (kubernetes.Interface, error) {
	restConfig, err := buildRESTConfig(cfg.KubeconfigPath())
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(restConfig)
}

func buildRESTConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig != "" {
		c, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", kubeconfig, err)
		}
		return c, nil
	}

	if c, err := rest.InClusterConfig(); err == nil {
		return c, nil
	}

	path := os.Getenv("KUBECONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate a kubeconfig: %w", err)
		}
		path = filepath.Join(home, ".kube", "config")
	}

	c, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig %s: %w", path, err)
	}
	return c, nil
}
