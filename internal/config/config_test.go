package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gitsync-reloader/webhook-adapter/internal/config"
)

func TestParse(t *testing.T) {

	cfg, err := config.Parse([]byte(`{
		configmaps: ["prod/app-config", "staging/web"],
		service: {
			addr: "127.0.0.1:9090",
			graceful_shutdown: 90s
		},
		kubernetes: {
			kubeconfig: /etc/webhook/kubeconfig,
			field_manager: custom-manager
		},
		logging: {
			level: debug
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if exp := []string{"prod/app-config", "staging/web"}; len(cfg.ConfigMaps) != 2 || cfg.ConfigMaps[0] != exp[0] || cfg.ConfigMaps[1] != exp[1] {
		t.Fatalf("expected configmaps %v, got %v", exp, cfg.ConfigMaps)
	}

	if cfg.Service.ListenAddr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr %q", cfg.Service.ListenAddr())
	}

	if cfg.Service.ShutdownTimeout() != 90*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Service.ShutdownTimeout())
	}

	if cfg.Kubernetes.KubeconfigPath() != "/etc/webhook/kubeconfig" {
		t.Fatalf("unexpected kubeconfig %q", cfg.Kubernetes.KubeconfigPath())
	}

	if cfg.Kubernetes.Manager() != "custom-manager" {
		t.Fatalf("unexpected field manager %q", cfg.Kubernetes.Manager())
	}

	if cfg.Logging.LevelName() != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.LevelName())
	}
}

func TestParseDefaults(t *testing.T) {

	cfg, err := config.Parse([]byte(`configmaps: ["prod/app-config"]`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Service.ListenAddr() != config.DefaultListenAddr {
		t.Fatalf("unexpected default addr %q", cfg.Service.ListenAddr())
	}

	if cfg.Service.ShutdownTimeout() != 10*time.Second {
		t.Fatalf("unexpected default shutdown timeout %v", cfg.Service.ShutdownTimeout())
	}

	if cfg.Kubernetes.Manager() != config.DefaultFieldManager {
		t.Fatalf("unexpected default field manager %q", cfg.Kubernetes.Manager())
	}

	if cfg.Kubernetes.KubeconfigPath() != "" {
		t.Fatalf("expected empty kubeconfig, got %q", cfg.Kubernetes.KubeconfigPath())
	}

	if cfg.Logging.LevelName() != "" {
		t.Fatalf("expected empty log level, got %q", cfg.Logging.LevelName())
	}
}

func TestParseResourceRef(t *testing.T) {
	tests := []struct {
		note      string
		entry     string
		exp       config.ResourceRef
		shouldErr bool
	}{
		{
			note:  "namespace and name",
			entry: "prod/app-config",
			exp:   config.ResourceRef{Namespace: "prod", Name: "app-config"},
		},
		{
			note:  "splits at the first slash",
			entry: "team-a/apps/web",
			exp:   config.ResourceRef{Namespace: "team-a", Name: "apps/web"},
		},
		{
			note:      "missing separator",
			entry:     "app-config",
			shouldErr: true,
		},
		{
			note:      "empty entry",
			entry:     "",
			shouldErr: true,
		},
		{
			note:      "empty namespace",
			entry:     "/app-config",
			shouldErr: true,
		},
		{
			note:      "empty name",
			entry:     "prod/",
			shouldErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			ref, err := config.ParseResourceRef(tc.entry)
			if tc.shouldErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.entry) {
					t.Fatalf("expected error to name the entry, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ref != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, ref)
			}
		})
	}
}

func TestResourceRefCompare(t *testing.T) {
	a := config.ResourceRef{Namespace: "prod", Name: "app"}
	b := config.ResourceRef{Namespace: "prod", Name: "web"}
	c := config.ResourceRef{Namespace: "staging", Name: "app"}

	if a.Compare(b) >= 0 || b.Compare(c) >= 0 || a.Compare(a) != 0 {
		t.Fatal("expected namespace-then-name ordering")
	}

	if a.String() != "prod/app" {
		t.Fatalf("unexpected string form %q", a.String())
	}
}

func TestValidateUnknownField(t *testing.T) {

	_, err := config.Parse([]byte(`{
		service: {
			listen: ":8080"
		}
	}`))
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "not allowed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateLevelEnum(t *testing.T) {

	_, err := config.Parse([]byte(`{
		logging: {
			level: loud
		}
	}`))
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "value must be one of 'debug', 'info', 'warn', 'error'") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateNullSection(t *testing.T) {

	_, err := config.Parse([]byte("service:\n"))
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "at '/service': got null, want object") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseBadDuration(t *testing.T) {

	_, err := config.Parse([]byte(`{
		service: {
			graceful_shutdown: fast
		}
	}`))
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "failed to unmarshal config") {
		t.Fatalf("unexpected error: %v", err)
	}
}
