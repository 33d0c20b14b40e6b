// Package messaging dispatches render hooks to registered listeners.
package messaging

import "github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"

// Hook names fired by the rendering pipeline
const (
	HookInstancePreview = "opc.instance.preview"
	HookInstanceFinal   = "opc.instance.final"
)

// Listener may rewrite the markup produced for an instance
type Listener func(inst *opc.Instance, markup *string)

// HookDispatcher defines the interface the renderer fires hooks through.
type HookDispatcher interface {
	Dispatch(hook string, inst *opc.Instance, markup *string)
}
