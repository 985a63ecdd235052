// Package registry talks to the type registry of the cloud control plane.
//
// It resolves wildcard type-name patterns against the live listing of
// registered types and loads target type schemas from local files, HTTPS
// URLs, S3 objects, or the registry itself. Hook projects use it to
// assemble the metadata of the resource types their handlers target.
package registry
