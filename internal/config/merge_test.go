package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gitsync-reloader/webhook-adapter/internal/config"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMergeAllowlistAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "configmaps:\n- prod/app-config\n")
	b := writeConfig(t, dir, "b.yaml", "configmaps:\n- staging/web\n")

	bs, err := config.Merge([]string{a, b}, true)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Parse(bs)
	if err != nil {
		t.Fatal(err)
	}

	exp := []string{"prod/app-config", "staging/web"}
	if !slices.Equal(cfg.ConfigMaps, exp) {
		t.Fatalf("expected %v, got %v", exp, cfg.ConfigMaps)
	}
}

func TestMergeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "configmaps:\n- prod/app-config\n")
	writeConfig(t, dir, "b.yaml", "configmaps:\n- staging/web\nlogging:\n  level: debug\n")

	bs, err := config.Merge([]string{dir}, true)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Parse(bs)
	if err != nil {
		t.Fatal(err)
	}

	// filepath.Walk visits files in lexical order.
	exp := []string{"prod/app-config", "staging/web"}
	if !slices.Equal(cfg.ConfigMaps, exp) {
		t.Fatalf("expected %v, got %v", exp, cfg.ConfigMaps)
	}

	if cfg.Logging.LevelName() != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.LevelName())
	}
}

func TestMergeSections(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "service:\n  addr: 127.0.0.1:8080\n")
	b := writeConfig(t, dir, "b.yaml", "kubernetes:\n  field_manager: ci-manager\nservice:\n  graceful_shutdown: 5s\n")

	bs, err := config.Merge([]string{a, b}, true)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Parse(bs)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Service.ListenAddr() != "127.0.0.1:8080" {
		t.Fatalf("unexpected addr %q", cfg.Service.ListenAddr())
	}

	if cfg.Service.ShutdownTimeout() != 5*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Service.ShutdownTimeout())
	}

	if cfg.Kubernetes.Manager() != "ci-manager" {
		t.Fatalf("unexpected field manager %q", cfg.Kubernetes.Manager())
	}
}

func TestMergeConflict(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "service:\n  addr: 127.0.0.1:8080\n")
	b := writeConfig(t, dir, "b.yaml", "service:\n  addr: 127.0.0.1:9090\n")

	_, err := config.Merge([]string{a, b}, true)
	if err == nil || !strings.Contains(err.Error(), "conflict for config path /service/addr") {
		t.Fatalf("expected conflict error, got: %v", err)
	}

	// Last file wins when conflicts are tolerated.
	bs, err := config.Merge([]string{a, b}, false)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Parse(bs)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Service.ListenAddr() != "127.0.0.1:9090" {
		t.Fatalf("expected last file to win, got %q", cfg.Service.ListenAddr())
	}
}
