package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cfncontract/harness/internal/contract"
	"github.com/cfncontract/harness/internal/exports"
	"github.com/cfncontract/harness/internal/inputs"
	"github.com/cfncontract/harness/internal/override"
	"github.com/cfncontract/harness/internal/project"
	"github.com/cfncontract/harness/internal/registry"
	"github.com/cfncontract/harness/internal/runner"
	"github.com/cfncontract/harness/internal/transport"
)

// Defaults for harness invocation parameters.
const (
	DefaultEndpoint = "http://127.0.0.1:3001"
	DefaultFunction = "TestEntrypoint"
	DefaultRegion   = "us-east-1"
	DefaultProfile  = ""
	DefaultTimeout  = 240
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Root           string
	Region         string
	Profile        string
	Endpoint       string
	FunctionName   string
	RoleARN        string
	DockerImage    string
	EnforceTimeout int
	InputSeq       int
	AccountID      string
	SourceARN      string

	deps testDeps
}

// testDeps are the collaborators the command drives. Tests substitute
// recording fakes; production wiring lives in NewTestCommand.
type testDeps struct {
	fetch      exports.FetchFunc
	factory    transport.Factory
	runner     runner.Runner
	tempConfig func() (string, func(), error)
}

func defaultTestDeps() testDeps {
	return testDeps{
		fetch:      exports.LiveFetch,
		factory:    transport.New,
		runner:     &runner.ExecRunner{},
		tempConfig: runner.TempConfig,
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return newTestCommand(rootOpts, defaultTestDeps())
}

func newTestCommand(rootOpts *RootOptions, deps testDeps) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts, deps: deps}

	cmd := &cobra.Command{
		Use:   "test [flags] [-- runner args...]",
		Short: "Run contract tests against the project's handlers",
		Long: `Run contract tests against the handlers of the project in the root directory.

Overrides, input fixtures and {{export}} references are resolved into the
transport client configuration before any test executes; no partially
resolved configuration is ever used. Arguments after "--" are forwarded to
the test runner verbatim.

Exit codes:
  0 - All contract tests passed
  1 - One or more contract tests failed
  2 - Command error (conflicting flags, broken project, unreachable control plane)
  3 - Unhandled internal error`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only arguments after "--" are forwarded to the runner.
			at := cmd.ArgsLenAtDash()
			if at == -1 && len(args) > 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("unexpected argument %q (runner arguments go after --)", args[0]))
			}
			if at > 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("unexpected argument %q before --", args[0]))
			}
			return runTest(cmd.Context(), opts, args, cmd.Flags())
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", ".", "project root directory")
	cmd.Flags().StringVar(&opts.Region, "region", DefaultRegion, "control-plane region")
	cmd.Flags().StringVar(&opts.Profile, "profile", DefaultProfile, "credentials profile")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", DefaultEndpoint,
		`direct invocation endpoint; pass an empty value to resolve {{export}} references against live stack exports`)
	cmd.Flags().StringVar(&opts.FunctionName, "function-name", DefaultFunction, "handler function name")
	cmd.Flags().StringVar(&opts.RoleARN, "role-arn", "", "role to assume for live export resolution and invocations")
	cmd.Flags().StringVar(&opts.DockerImage, "docker-image", "", "invoke handlers inside this image instead of an endpoint")
	cmd.Flags().IntVar(&opts.EnforceTimeout, "enforce-timeout", DefaultTimeout, "per-invocation timeout in seconds, passed through to the transport client")
	cmd.Flags().IntVar(&opts.InputSeq, "input-sequence", 0, "use exactly this input fixture sequence number (default: highest complete triple)")
	cmd.Flags().StringVar(&opts.AccountID, "account-id", "", "account id request header")
	cmd.Flags().StringVar(&opts.SourceARN, "source-arn", "", "source ARN request header")

	return cmd
}

// runTest is the configuration-then-run pipeline. Every step short-circuits
// on failure and nothing runs on partially resolved configuration.
func runTest(ctx context.Context, opts *TestOptions, extra []string, flags *pflag.FlagSet) error {
	// Before any I/O: transport selections must not conflict.
	if err := validateTransportArgs(opts); err != nil {
		return err
	}

	settings, err := project.LoadSettings(opts.Root)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid harness settings", err)
	}
	applySettings(opts, settings, flags)

	proj, err := project.Load(opts.Root)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot load project", err)
	}
	if !proj.Kind.Testable() {
		slog.Info("artifact declares no testable handlers, nothing to do", "kind", string(proj.Kind))
		return nil
	}

	src := &exports.Source{
		Region:   opts.Region,
		Endpoint: opts.Endpoint,
		RoleARN:  opts.RoleARN,
		Profile:  opts.Profile,
		Fetch:    opts.deps.fetch,
	}

	cfg := transport.ClientConfig{
		FunctionName:         opts.FunctionName,
		Endpoint:             opts.Endpoint,
		Region:               opts.Region,
		TypeName:             proj.TypeName,
		Schema:               proj.Schema,
		RoleARN:              opts.RoleARN,
		EnforceTimeout:       opts.EnforceTimeout,
		AccountID:            opts.AccountID,
		SourceARN:            opts.SourceARN,
		TypeConfig:           proj.TypeConfig,
		ExecutableEntrypoint: proj.ExecutableEntrypoint,
		DockerImage:          opts.DockerImage,
		Profile:              opts.Profile,
	}

	var universe contract.Universe
	switch proj.Kind {
	case project.KindResource:
		universe = contract.UniverseResource
		if cfg.Overrides, err = override.Load(ctx, proj.Root, src); err != nil {
			return WrapExitError(ExitCommandError, "resolving overrides", err)
		}
		if cfg.Inputs, err = inputs.Stage(ctx, proj.Root, opts.InputSeq, src); err != nil {
			return WrapExitError(ExitCommandError, "staging input fixtures", err)
		}
	case project.KindHook:
		universe = contract.UniverseHook
		if cfg.HookOverrides, err = override.LoadHooks(ctx, proj.Root, src); err != nil {
			return WrapExitError(ExitCommandError, "resolving hook overrides", err)
		}
		loader, resolver, err := targetSchemaLoader(ctx, src)
		if err != nil {
			return WrapExitError(ExitCommandError, "connecting to the type registry", err)
		}
		if cfg.TargetInfo, err = proj.LoadTargetInfo(ctx, loader, resolver); err != nil {
			return WrapExitError(ExitCommandError, "resolving hook target info", err)
		}
	}

	client, err := opts.deps.factory(cfg, proj.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "constructing transport client", err)
	}

	configPath, cleanup, err := opts.deps.tempConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "creating runner configuration", err)
	}
	defer cleanup()

	plugins := runner.NewPluginRegistry()
	plugins.Register(client.Name(), client)

	status, err := opts.deps.runner.Run(ctx, runner.Invocation{
		ConfigPath: configPath,
		MarkerExpr: contract.MarkerExpression(proj.Schema, universe),
		ExtraArgs:  extra,
		Plugins:    plugins,
	})
	if err != nil {
		return WrapExitError(ExitInternalError, "test runner could not execute", err)
	}
	if status != 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("contract tests failed (runner status %d)", status))
	}
	return nil
}

// validateTransportArgs rejects mutually exclusive transport selections.
// An image-based invocation target and a direct endpoint or function-name
// target cannot be combined; this is checked before any file or network
// I/O.
func validateTransportArgs(opts *TestOptions) error {
	if opts.DockerImage != "" && (opts.Endpoint != DefaultEndpoint || opts.FunctionName != DefaultFunction) {
		return NewExitError(ExitCommandError,
			"cannot specify both --docker-image and --endpoint or --function-name")
	}
	return nil
}

// applySettings fills in defaults from the project settings file for every
// parameter the user did not set explicitly.
func applySettings(opts *TestOptions, s project.Settings, flags *pflag.FlagSet) {
	if s.Region != "" && !flags.Changed("region") {
		opts.Region = s.Region
	}
	if s.Profile != "" && !flags.Changed("profile") {
		opts.Profile = s.Profile
	}
	if s.Endpoint != "" && !flags.Changed("endpoint") {
		opts.Endpoint = s.Endpoint
	}
	if s.FunctionName != "" && !flags.Changed("function-name") {
		opts.FunctionName = s.FunctionName
	}
	if s.RoleARN != "" && !flags.Changed("role-arn") {
		opts.RoleARN = s.RoleARN
	}
	if s.EnforceTimeout > 0 && !flags.Changed("enforce-timeout") {
		opts.EnforceTimeout = s.EnforceTimeout
	}
}

// targetSchemaLoader builds the schema loader and type-name resolver for
// hook target resolution: registry-backed when live export resolution is in
// play, local-only (and without name expansion) when a direct endpoint is
// configured.
func targetSchemaLoader(ctx context.Context, src *exports.Source) (*registry.SchemaLoader, *registry.TypeNameResolver, error) {
	if !src.Live() {
		return registry.NewSchemaLoader(nil, nil, nil, true, nil), nil, nil
	}
	loader, err := registry.ConnectLoader(ctx, src.Region, src.Profile, nil)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := registry.ConnectResolver(ctx, src.Region, src.Profile, nil)
	if err != nil {
		return nil, nil, err
	}
	return loader, resolver, nil
}
