// Package runner drives the external contract-test runner: the scoped
// configuration file it reads, the plugin registry its fixtures pull the
// transport client from, and the invocation itself.
package runner
