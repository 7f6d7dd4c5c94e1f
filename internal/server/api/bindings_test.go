package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/handcursor/internal/plugin"
	"github.com/ayusman/handcursor/internal/store"
)

func TestBindingHandler_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s, nil)

	rec := do(t, handler, http.MethodPost, "/api/bindings", map[string]any{
		"action":      "click",
		"plugin_name": "pointer",
		"config":      map[string]string{"button": "left"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body)
	}

	var created bindingResponse
	decode(t, rec, &created)
	if created.ID == "" || created.PluginAction != "click" || !created.Enabled {
		t.Errorf("unexpected binding %+v", created)
	}
	if string(created.Config) != `{"button":"left"}` {
		t.Errorf("config = %s", created.Config)
	}

	rec = do(t, handler, http.MethodGet, "/api/bindings", nil)
	var list listBindingsResponse
	decode(t, rec, &list)
	if len(list.Bindings) != 1 || list.Bindings[0].ID != created.ID {
		t.Errorf("list = %+v", list.Bindings)
	}

	rec = do(t, handler, http.MethodGet, "/api/bindings/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get: expected status 200, got %d", rec.Code)
	}
}

func TestBindingHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"unknown action", map[string]string{"action": "drag", "plugin_name": "p"}, http.StatusBadRequest},
		{"missing plugin", map[string]string{"action": "click"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBindingHandler(newTestStore(t), nil)
			if rec := do(t, handler, http.MethodPost, "/api/bindings", tt.body); rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestBindingHandler_Conflict(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s, nil)
	body := map[string]string{"action": "right-click", "plugin_name": "pointer"}

	do(t, handler, http.MethodPost, "/api/bindings", body)
	if rec := do(t, handler, http.MethodPost, "/api/bindings", body); rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestBindingHandler_ChecksPlugins(t *testing.T) {
	dir := t.TempDir()
	pluginDir := filepath.Join(dir, "pointer")
	os.MkdirAll(pluginDir, 0755)
	manifest, _ := json.Marshal(plugin.Manifest{Name: "pointer", Executable: "pointer", Actions: []string{"click"}})
	os.WriteFile(filepath.Join(pluginDir, plugin.ManifestFile), manifest, 0644)

	m := plugin.NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	handler := NewBindingHandler(newTestStore(t), m)

	if rec := do(t, handler, http.MethodPost, "/api/bindings", map[string]string{"action": "click", "plugin_name": "missing"}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown plugin: expected 400, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodPost, "/api/bindings", map[string]string{"action": "right-click", "plugin_name": "pointer"}); rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported action: expected 400, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodPost, "/api/bindings", map[string]string{"action": "right-click", "plugin_name": "pointer", "plugin_action": "click"}); rec.Code != http.StatusCreated {
		t.Errorf("mapped action: expected 201, got %d", rec.Code)
	}
}

func TestBindingHandler_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s, nil)

	b := &store.Binding{ID: "b1", Action: "click", PluginName: "pointer", PluginAction: "click", Enabled: true}
	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec := do(t, handler, http.MethodPut, "/api/bindings/b1", map[string]any{"enabled": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	var updated bindingResponse
	decode(t, rec, &updated)
	if updated.Enabled {
		t.Error("binding should be disabled")
	}

	if rec := do(t, handler, http.MethodPut, "/api/bindings/b1", map[string]string{"action": "right-click"}); rec.Code != http.StatusBadRequest {
		t.Errorf("changing action: expected 400, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodPut, "/api/bindings/missing", map[string]any{}); rec.Code != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", rec.Code)
	}

	if rec := do(t, handler, http.MethodDelete, "/api/bindings/b1", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodDelete, "/api/bindings/b1", nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestBindingHandler_MethodNotAllowed(t *testing.T) {
	handler := NewBindingHandler(newTestStore(t), nil)

	if rec := do(t, handler, http.MethodPatch, "/api/bindings", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
