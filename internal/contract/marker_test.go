package contract

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func schemaWithHandlers(names ...string) map[string]any {
	handlers := make(map[string]any, len(names))
	for _, name := range names {
		handlers[name] = []any{}
	}
	return map[string]any{"handlers": handlers}
}

func fullResourceSchema() map[string]any {
	var names []string
	for _, a := range Actions() {
		names = append(names, a.HandlerName())
	}
	return schemaWithHandlers(names...)
}

func fullHookSchema() map[string]any {
	var names []string
	for _, p := range HookInvocationPoints() {
		names = append(names, p.HandlerName())
	}
	return schemaWithHandlers(names...)
}

func TestMarkerExpressionFullResourceSchema(t *testing.T) {
	expr := MarkerExpression(fullResourceSchema(), UniverseResource)
	clauses := strings.Split(expr, " and ")

	// Every resource action is implemented, so only the other universe is
	// excluded.
	for _, a := range Actions() {
		assert.NotContains(t, clauses, "not "+a.Marker())
	}
	for _, p := range HookInvocationPoints() {
		assert.Contains(t, clauses, "not "+p.Marker())
	}
}

func TestMarkerExpressionFullHookSchema(t *testing.T) {
	expr := MarkerExpression(fullHookSchema(), UniverseHook)
	clauses := strings.Split(expr, " and ")

	for _, p := range HookInvocationPoints() {
		assert.NotContains(t, clauses, "not "+p.Marker())
	}
	for _, a := range Actions() {
		assert.Contains(t, clauses, "not "+a.Marker())
	}
}

func TestMarkerExpressionPartialSchema(t *testing.T) {
	tests := []struct {
		name     string
		schema   map[string]any
		expected []string
	}{
		{
			name:     "four base actions excludes list",
			schema:   schemaWithHandlers("create", "read", "update", "delete"),
			expected: []string{"not list"},
		},
		{
			name:     "create only",
			schema:   schemaWithHandlers("create"),
			expected: []string{"not read", "not update", "not delete", "not list", " and "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := MarkerExpression(tt.schema, UniverseResource)
			for _, keyword := range tt.expected {
				assert.Contains(t, expr, keyword)
			}
			assert.NotContains(t, strings.Split(expr, " and "), "not create")
		})
	}
}

func TestMarkerExpressionEmptySchemaExcludesEverything(t *testing.T) {
	expr := MarkerExpression(map[string]any{}, UniverseResource)
	clauses := strings.Split(expr, " and ")
	assert.Len(t, clauses, len(Actions())+len(HookInvocationPoints()))
}

func TestMarkerExpressionGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	g.Assert(t, "marker_create_only",
		[]byte(MarkerExpression(schemaWithHandlers("create"), UniverseResource)))
	g.Assert(t, "marker_full_resource",
		[]byte(MarkerExpression(fullResourceSchema(), UniverseResource)))
	g.Assert(t, "marker_full_hook",
		[]byte(MarkerExpression(fullHookSchema(), UniverseHook)))
}
