// Package main is the keyboard plugin. It answers a fired cursor action with
// a key press, so a gesture can be bound to a shortcut instead of a click.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-vgo/robotgo"
)

// Request mirrors the executor's request document.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Config  json.RawMessage `json:"config"`
}

// Response mirrors the executor's response document.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is the bound key and its modifiers.
type Config struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

var errNoKey = errors.New("config.key is required")

// modifierMap maps user-friendly modifier names to robotgo key names.
var modifierMap = map[string]string{
	"command": "cmd",
	"cmd":     "cmd",
	"super":   "cmd",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	if req.Action != "keystroke" && req.Action != "shortcut" {
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeResponse(fmt.Errorf("invalid config: %w", err))
			return
		}
	}
	if cfg.Key == "" {
		writeResponse(errNoKey)
		return
	}

	mods, err := modifiers(cfg.Modifiers)
	if err != nil {
		writeResponse(err)
		return
	}
	if err := robotgo.KeyTap(strings.ToLower(cfg.Key), mods...); err != nil {
		writeResponse(fmt.Errorf("key %s: %w", cfg.Key, err))
		return
	}
	writeResponse(nil)
}

func modifiers(names []string) ([]interface{}, error) {
	mods := make([]interface{}, 0, len(names))
	for _, name := range names {
		m, ok := modifierMap[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown modifier: %s", name)
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
