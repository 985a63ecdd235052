package contract

import "strings"

// Action is a resource handler operation.
type Action string

// The resource action universe. The order here is the canonical order used
// for marker planning and empty-document construction.
const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionList   Action = "LIST"
)

// HookInvocationPoint is a hook handler operation.
type HookInvocationPoint string

// The hook invocation-point universe, in canonical order.
const (
	HookCreatePreProvision HookInvocationPoint = "CREATE_PRE_PROVISION"
	HookUpdatePreProvision HookInvocationPoint = "UPDATE_PRE_PROVISION"
	HookDeletePreProvision HookInvocationPoint = "DELETE_PRE_PROVISION"
)

// Actions returns the resource action universe in canonical order.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList}
}

// HookInvocationPoints returns the hook universe in canonical order.
func HookInvocationPoints() []HookInvocationPoint {
	return []HookInvocationPoint{HookCreatePreProvision, HookUpdatePreProvision, HookDeletePreProvision}
}

// Valid reports whether a is a member of the resource action universe.
func (a Action) Valid() bool {
	for _, known := range Actions() {
		if a == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is a member of the hook universe.
func (p HookInvocationPoint) Valid() bool {
	for _, known := range HookInvocationPoints() {
		if p == known {
			return true
		}
	}
	return false
}

// HandlerName returns the schema handlers key for the action ("CREATE"
// becomes "create").
func (a Action) HandlerName() string {
	return handlerName(string(a))
}

// HandlerName returns the schema handlers key for the invocation point
// ("CREATE_PRE_PROVISION" becomes "createPreProvision").
func (p HookInvocationPoint) HandlerName() string {
	return handlerName(string(p))
}

// Marker returns the test-marker name for the action.
func (a Action) Marker() string {
	return strings.ToLower(string(a))
}

// Marker returns the test-marker name for the invocation point.
func (p HookInvocationPoint) Marker() string {
	return strings.ToLower(string(p))
}

// Markers returns the marker names of both universes in canonical order.
// The runner configuration file registers every one of them.
func Markers() []string {
	var names []string
	for _, a := range Actions() {
		names = append(names, a.Marker())
	}
	for _, p := range HookInvocationPoints() {
		names = append(names, p.Marker())
	}
	return names
}

// handlerName derives a lowerCamel handlers key from an underscore-split
// operation name.
func handlerName(operation string) string {
	parts := strings.Split(strings.ToLower(operation), "_")
	name := parts[0]
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		name += strings.ToUpper(part[:1]) + part[1:]
	}
	return name
}
