// Package main is the pointer plugin. It turns click and right-click actions
// into OS-level mouse clicks at the reported cursor position.
package main

import (
	"encoding/json"
	"fmt"
	"os"

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

// Config overrides the button derived from the action.
type Config struct {
	Button string `json:"button"`
	// NoMove clicks wherever the OS pointer already is.
	NoMove bool `json:"no_move"`
}

var defaultButtons = map[string]string{
	"click":       "left",
	"right-click": "right",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	button, ok := defaultButtons[req.Action]
	if !ok {
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
	if cfg.Button != "" {
		button = cfg.Button
	}
	if button != "left" && button != "right" {
		writeResponse(fmt.Errorf("unsupported button: %s", button))
		return
	}

	if !cfg.NoMove {
		if req.X < 0 || req.Y < 0 {
			writeResponse(fmt.Errorf("position (%.0f, %.0f) is off screen", req.X, req.Y))
			return
		}
		robotgo.Move(int(req.X), int(req.Y))
	}
	robotgo.Click(button, false)

	writeResponse(nil)
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
