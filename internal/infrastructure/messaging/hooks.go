package messaging

import (
	"fmt"
	"sync"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
)

// HookRegistry keeps listeners per hook name and calls them in registration order.
type HookRegistry struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *logging.ChanneledLogger
}

// NewHookRegistry creates an empty registry. logger may be nil.
func NewHookRegistry(logger *logging.ChanneledLogger) *HookRegistry {
	return &HookRegistry{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Register adds a listener for hook
func (r *HookRegistry) Register(hook string, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[hook] = append(r.listeners[hook], l)
}

// Count returns the number of listeners registered for hook
func (r *HookRegistry) Count(hook string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[hook])
}

// Dispatch calls every listener of hook. A panicking listener is logged and skipped;
// the markup it may have partially rewritten is kept.
func (r *HookRegistry) Dispatch(hook string, inst *opc.Instance, markup *string) {
	r.mu.RLock()
	listeners := append([]Listener(nil), r.listeners[hook]...)
	r.mu.RUnlock()

	for _, l := range listeners {
		r.call(hook, l, inst, markup)
	}
}

func (r *HookRegistry) call(hook string, l Listener, inst *opc.Instance, markup *string) {
	defer func() {
		if rec := recover(); rec != nil && r.logger != nil {
			r.logger.LogError(logging.ChannelRender, "hook:"+hook, fmt.Errorf("listener panicked: %v", rec),
				map[string]any{"uid": inst.UID(), "class": inst.Class()})
		}
	}()
	l(inst, markup)
}
