package plugin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestPlugin_Pointer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pluginDir := findPluginDir("pointer")
	if pluginDir == "" {
		t.Skip("pointer plugin not built")
	}

	mgr := NewManager(filepath.Dir(pluginDir))
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Get("pointer")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := exec.LookPath(plug.Executable); err != nil {
		t.Skip("pointer plugin binary not built")
	}

	// An unknown button is rejected before any OS input is sent.
	req := &Request{
		Action: "click",
		Config: []byte(`{"button":"middle-ish"}`),
	}

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plug, req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success {
		t.Error("expected failure for invalid button")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err == nil {
			return dir
		}
	}
	return ""
}

func TestPlugin_Keyboard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pluginDir := findPluginDir("keyboard")
	if pluginDir == "" {
		t.Skip("keyboard plugin not built")
	}

	mgr := NewManager(filepath.Dir(pluginDir))
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !plug.Supports("shortcut") || plug.Supports("click") {
		t.Errorf("keyboard actions = %v", plug.Manifest.Actions)
	}
	if _, err := exec.LookPath(plug.Executable); err != nil {
		t.Skip("keyboard plugin binary not built")
	}

	// A binding without a key is rejected before any OS input is sent.
	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plug, &Request{
		Action:  "shortcut",
		Gesture: "right-click",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success {
		t.Error("expected failure without config.key")
	}
}
