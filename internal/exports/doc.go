// Package exports resolves substitution tokens in configuration documents
// against a catalog of values published by deployed stacks.
//
// Tokens have the form {{ExportName}}. Substitution is strict: a token
// naming an export that is not in the catalog fails the entire pass, so a
// caller never proceeds with a partially resolved document. The catalog is
// fetched at most once per run, optionally under an assumed role.
package exports
