package tools

import (
	"context"
	"fmt"
	"sync"

	"genoscope/models/constants"
	"genoscope/models/dtos/errors"
)

// Handler executes one tool call with already-validated arguments.
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool is one catalog entry: schema, dispatch target and handler.
type Tool struct {
	Name        string
	Description string
	Target      constants.DispatchTarget
	InputSchema *Schema
	Handler     Handler
}

// Descriptor is the tools/list wire shape.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	InputSchema *Schema `json:"inputSchema"`
}

// Registry holds the process-wide tool catalog. Registration order is
// preserved for tools/list.
type Registry struct {
	mutex sync.RWMutex
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]*Tool{}}
}

func (r *Registry) Register(tool *Tool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.tools[tool.Name]; !ok {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

func (r *Registry) Get(name string) (*Tool, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) Descriptors() []Descriptor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	descriptors := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		descriptors = append(descriptors, Descriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return descriptors
}

// Call validates args against the tool's schema (filling defaults)
// and runs its handler. Unknown tools and schema violations are
// invalid_params; a registered tool with no handler wired is
// unavailable.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, errors.NewInvalidParams(fmt.Sprintf("unknown tool '%s'", name))
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := tool.InputSchema.Validate(args); err != nil {
		return nil, err
	}
	if tool.Handler == nil {
		return nil, errors.NewUnavailable(fmt.Sprintf("tool '%s' has no connected executor", name))
	}
	return tool.Handler(ctx, args)
}
