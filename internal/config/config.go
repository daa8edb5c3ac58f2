package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Internal configuration data structures for the git-sync webhook adapter.

// Root is the top-level configuration structure used by the webhook adapter.
// ConfigMaps lists the allowlisted patch targets as "namespace/name" entries.
type Root struct {
	ConfigMaps []string    `json:"configmaps,omitempty"`
	Service    *Service    `json:"service,omitempty"`
	Kubernetes *Kubernetes `json:"kubernetes,omitempty"`
	Logging    *Logging    `json:"logging,omitempty"`
}

// Service holds the HTTP server settings.
type Service struct {
	Addr             string   `json:"addr,omitempty"` // host:port the server binds to
	GracefulShutdown Duration `json:"graceful_shutdown,omitzero"`

	_ struct{} `additionalProperties:"false"`
}

const DefaultListenAddr = "0.0.0.0:8080"

const defaultGracefulShutdown = 10 * time.Second

func (s *Service) ListenAddr() string {
	if s == nil || s.Addr == "" {
		return DefaultListenAddr
	}
	return s.Addr
}

func (s *Service) ShutdownTimeout() time.Duration {
	if s == nil || s.GracefulShutdown == 0 {
		return defaultGracefulShutdown
	}
	return time.Duration(s.GracefulShutdown)
}

// Kubernetes holds the client settings for reaching the API server.
type Kubernetes struct {
	Kubeconfig   string `json:"kubeconfig,omitempty"` // empty means in-cluster, falling back to $KUBECONFIG and ~/.kube/config
	FieldManager string `json:"field_manager,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// DefaultFieldManager identifies this service as the actor behind annotation
// patches. The API server attributes repeated writes to the same manager as
// long as the value stays stable across restarts.
const DefaultFieldManager = "git-sync-webhook-adapter"

func (k *Kubernetes) Manager() string {
	if k == nil || k.FieldManager == "" {
		return DefaultFieldManager
	}
	return k.FieldManager
}

func (k *Kubernetes) KubeconfigPath() string {
	if k == nil {
		return ""
	}
	return k.Kubeconfig
}

// Logging holds the logger settings.
type Logging struct {
	Level string `json:"level,omitempty" enum:"debug,info,warn,error"`

	_ struct{} `additionalProperties:"false"`
}

func (l *Logging) LevelName() string {
	if l == nil {
		return ""
	}
	return l.Level
}

// ResourceRef identifies a single ConfigMap by namespace and name. Matching
// against a reference is exact and case sensitive everywhere in the service.
type ResourceRef struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// ParseResourceRef parses an entry of the form "namespace/name". The entry is
// split at the first slash, so a name may itself contain slashes; both halves
// must be non-empty.
func ParseResourceRef(entry string) (ResourceRef, error) {
	namespace, name, ok := strings.Cut(entry, "/")
	if !ok {
		return ResourceRef{}, fmt.Errorf("invalid configmap reference %q: expected namespace/name", entry)
	}
	if namespace == "" || name == "" {
		return ResourceRef{}, fmt.Errorf("invalid configmap reference %q: namespace and name must be non-empty", entry)
	}
	return ResourceRef{Namespace: namespace, Name: name}, nil
}

func (r ResourceRef) String() string {
	return r.Namespace + "/" + r.Name
}

// Compare orders references by namespace, then name.
func (a ResourceRef) Compare(b ResourceRef) int {
	if x := strings.Compare(a.Namespace, b.Namespace); x != 0 {
		return x
	}
	return strings.Compare(a.Name, b.Name)
}

// Instead of marshaling and unmarshaling as int64 it uses strings, like "5m" or "0.5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	val, err := time.ParseDuration(str)
	*d = Duration(val)
	return err
}

func (d *Duration) UnmarshalYAML(bs []byte) error {
	var s string
	if err := yaml.Unmarshal(bs, &s); err != nil {
		return err
	}
	val, err := time.ParseDuration(s)
	*d = Duration(val)
	return err
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func ParseFile(filename string) (*Root, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	return Parse(bs)
}

func Parse(bs []byte) (*Root, error) {
	if err := Validate(bs); err != nil {
		return nil, err
	}

	var root Root
	if err := yaml.Unmarshal(bs, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &root, nil
}

func Validate(data []byte) error {
	var config any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	return rootSchema.Validate(config)
}
