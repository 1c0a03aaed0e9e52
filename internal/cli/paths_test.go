package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execCLI runs the root command without resetting the XDG directories, so
// consecutive calls share one cache.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// cacheEntries counts the stored artifacts under dir.
func cacheEntries(t *testing.T, dir string) int {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return len(files)
}

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = "/srv/geomcloze/renders"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/geomcloze/renders" {
		t.Errorf("cacheDir() = %q, want the configured directory", dir)
	}
}

func TestRenderCacheLifecycle(t *testing.T) {
	input := demoFile(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := filepath.Join(xdg, appName)

	out, err := execCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	out, err = execCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear before any render = %q", out)
	}

	if _, err := execCLI(t, "render", input, "--no-cache", "-f", "svg,png"); err != nil {
		t.Fatalf("render --no-cache: %v", err)
	}
	if n := cacheEntries(t, dir); n != 0 {
		t.Errorf("--no-cache stored %d entries", n)
	}

	if _, err := execCLI(t, "render", input, "-f", "svg,png"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := cacheEntries(t, dir); n != 2 {
		t.Errorf("render stored %d entries, want one per format", n)
	}

	// the same document and options hit the same entries
	if _, err := execCLI(t, "render", input, "-f", "svg,png"); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if n := cacheEntries(t, dir); n != 2 {
		t.Errorf("second render left %d entries, want 2", n)
	}

	out, err = execCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("cache clear = %q", out)
	}
	if n := cacheEntries(t, dir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}
