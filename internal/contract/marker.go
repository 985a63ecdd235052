package contract

import "strings"

// Universe identifies which operation universe a schema belongs to.
type Universe int

const (
	// UniverseResource marks a resource type schema.
	UniverseResource Universe = iota
	// UniverseHook marks a hook type schema.
	UniverseHook
)

// MarkerExpression derives the test-selection expression for a schema.
//
// Every operation from either universe contributes a "not <marker>" clause
// unless it belongs to the schema's own universe and its handler name is
// declared under the schema's "handlers" key (an empty descriptor list
// still counts as declared). Clauses are joined with " and "; an empty
// expression selects every test.
//
// This lets one shared test collection serve both resource and hook contract
// suites: a resource schema always excludes the hook markers, and within the
// schema's own universe only implemented operations survive.
func MarkerExpression(schema map[string]any, universe Universe) string {
	declared := declaredHandlers(schema)

	var clauses []string
	for _, a := range Actions() {
		if universe == UniverseResource && declared[a.HandlerName()] {
			continue
		}
		clauses = append(clauses, "not "+a.Marker())
	}
	for _, p := range HookInvocationPoints() {
		if universe == UniverseHook && declared[p.HandlerName()] {
			continue
		}
		clauses = append(clauses, "not "+p.Marker())
	}
	return strings.Join(clauses, " and ")
}

// declaredHandlers extracts the set of handler keys from a schema document.
// A missing or malformed handlers section yields the empty set, which
// excludes every operation of the schema's universe.
func declaredHandlers(schema map[string]any) map[string]bool {
	declared := make(map[string]bool)
	handlers, ok := schema["handlers"].(map[string]any)
	if !ok {
		return declared
	}
	for name := range handlers {
		declared[name] = true
	}
	return declared
}
