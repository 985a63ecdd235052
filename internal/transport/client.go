// Package transport defines the boundary to the handler invocation layer.
//
// The configuration core depends only on the Client capability and the
// ClientConfig bundle assembled from resolved configuration; the mechanics
// of reaching a function, a local emulator, or a container stay behind the
// interface.
package transport

import (
	"context"

	"github.com/cfncontract/harness/internal/inputs"
	"github.com/cfncontract/harness/internal/override"
	"github.com/cfncontract/harness/internal/project"
)

// ClientConfig is the assembled, ready-to-use configuration bundle for a
// transport client. It is created once per harness invocation, owned by
// the configurator, and discarded at process exit.
type ClientConfig struct {
	FunctionName string
	Endpoint     string
	Region       string

	TypeName string
	Schema   map[string]any

	// Exactly one of Overrides/HookOverrides is populated, matching the
	// artifact kind; likewise Inputs (resource) vs TargetInfo (hook).
	Overrides     override.Document
	HookOverrides override.HookDocument
	Inputs        inputs.Set
	TargetInfo    map[string]project.TargetInfo

	RoleARN        string
	EnforceTimeout int
	AccountID      string
	SourceARN      string
	TypeConfig     map[string]any

	ExecutableEntrypoint string
	DockerImage          string
	Profile              string
}

// Headers returns the request headers the client attaches to every
// invocation.
func (c ClientConfig) Headers() map[string]string {
	return map[string]string{
		"account_id": c.AccountID,
		"source_arn": c.SourceARN,
	}
}

// Client is the abstract invocation capability the configuration core
// hands to the test runner. Retry and timeout policy live behind this
// interface, never in the configuration layer.
type Client interface {
	// Name is the well-known plugin name fixtures retrieve the client by.
	Name() string

	// Config exposes the resolved configuration the client was built from.
	Config() ClientConfig

	// Invoke calls one handler operation with the given request payload.
	Invoke(ctx context.Context, operation string, request map[string]any) (map[string]any, error)
}

// Factory constructs a client from an assembled configuration. The
// configurator takes a Factory so tests can substitute a recording fake.
type Factory func(cfg ClientConfig, kind project.Kind) (Client, error)
