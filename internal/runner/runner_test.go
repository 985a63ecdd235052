package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerSuccess(t *testing.T) {
	r := &ExecRunner{Command: "true"}
	status, err := r.Run(context.Background(), Invocation{ConfigPath: "x.ini", MarkerExpr: "not create"})
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}

func TestExecRunnerFailureStatus(t *testing.T) {
	r := &ExecRunner{Command: "false"}
	status, err := r.Run(context.Background(), Invocation{ConfigPath: "x.ini"})
	require.NoError(t, err, "a failing run is a status, not an error")
	assert.Equal(t, 1, status)
}

func TestExecRunnerMissingCommand(t *testing.T) {
	r := &ExecRunner{Command: "definitely-not-a-real-runner"}
	_, err := r.Run(context.Background(), Invocation{ConfigPath: "x.ini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-runner")
}

func TestExecRunnerArgumentOrder(t *testing.T) {
	var out bytes.Buffer
	r := &ExecRunner{Command: "echo", Stdout: &out}

	reg := NewPluginRegistry()
	reg.Register(ResourceClientName, struct{}{})

	status, err := r.Run(context.Background(), Invocation{
		ConfigPath: "/tmp/pytest_x.ini",
		MarkerExpr: "not delete",
		ExtraArgs:  []string{"-k", "contract_create"},
		Plugins:    reg,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "-c /tmp/pytest_x.ini -m not delete -k contract_create\n", out.String())
}
