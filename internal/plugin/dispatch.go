package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPluginFailed is returned when a plugin runs but reports success=false.
var ErrPluginFailed = errors.New("plugin reported failure")

// Binding routes one cursor action to a plugin action.
type Binding struct {
	Plugin string          `json:"plugin"`
	Action string          `json:"action"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Resolver returns the binding for a cursor action, or nil when it is unbound.
type Resolver func(action string) (*Binding, error)

// Dispatcher runs the plugin bound to each fired cursor action.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	resolve  Resolver
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(manager *Manager, executor *Executor, resolve Resolver) *Dispatcher {
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		resolve:  resolve,
	}
}

// Dispatch executes the plugin bound to action. It returns (false, nil) when
// no binding exists.
func (d *Dispatcher) Dispatch(ctx context.Context, action, gesture string, x, y float64) (bool, error) {
	b, err := d.resolve(action)
	if err != nil {
		return false, fmt.Errorf("resolve binding for %s: %w", action, err)
	}
	if b == nil {
		return false, nil
	}

	p, err := d.manager.Get(b.Plugin)
	if err != nil {
		return false, fmt.Errorf("%s: %w", b.Plugin, err)
	}

	resp, err := d.executor.Execute(ctx, p, &Request{
		Action:  b.Action,
		Gesture: gesture,
		X:       x,
		Y:       y,
		Config:  b.Config,
	})
	if err != nil {
		return true, err
	}
	if !resp.Success {
		return true, fmt.Errorf("%w: %s", ErrPluginFailed, resp.Error)
	}
	return true, nil
}
