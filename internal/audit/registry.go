package audit

import "fmt"

// Registry is the process-wide table associating entity kinds with their
// audit bindings. It is populated once during startup wiring and frozen
// before the server begins handling requests; registration after Freeze is a
// programming error.
type Registry struct {
	frozen   bool
	bindings map[string]Binding
}

// NewRegistry returns an empty, mutable registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]Binding)}
}

// Register adds a binding under its kind. Panics on duplicate registration
// or registration after Freeze, mirroring http.Handle semantics for
// startup-only wiring mistakes.
func (r *Registry) Register(b Binding) {
	if r.frozen {
		panic("audit: Register called after Freeze")
	}
	kind := b.Kind()
	if _, exists := r.bindings[kind]; exists {
		panic(fmt.Sprintf("audit: duplicate binding for kind %q", kind))
	}
	r.bindings[kind] = b
}

// Freeze marks the registry read-only. Idempotent.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Binding resolves the binding for an entity kind.
func (r *Registry) Binding(kind string) (Binding, error) {
	b, ok := r.bindings[kind]
	if !ok {
		return nil, fmt.Errorf("no audit binding registered for kind %q", kind)
	}
	return b, nil
}
