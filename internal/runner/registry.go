package runner

import (
	"sort"
	"sync"
)

// Well-known plugin names the test fixtures retrieve clients under.
const (
	ResourceClientName = "resource_client"
	HookClientName     = "hook_client"
)

// PluginRegistry is the dependency-injection surface handed to the runner:
// an explicit registration call replaces attribute-based discovery, so the
// constructed transport client is available to fixtures before test
// collection begins.
type PluginRegistry struct {
	mu      sync.Mutex
	plugins map[string]any
}

// NewPluginRegistry creates an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{plugins: make(map[string]any)}
}

// Register exposes plugin under name, replacing any previous registration.
func (r *PluginRegistry) Register(name string, plugin any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[name] = plugin
}

// Lookup retrieves the plugin registered under name.
func (r *PluginRegistry) Lookup(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plugin, ok := r.plugins[name]
	return plugin, ok
}

// Names returns the registered names, for logs and diagnostics.
func (r *PluginRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
