// Package contract defines the closed universes of handler operations
// shared by the override documents, the marker planner, and the transport
// client configuration.
//
// Two universes exist: resource actions (CREATE, READ, UPDATE, DELETE,
// LIST) and hook invocation points (CREATE_PRE_PROVISION,
// UPDATE_PRE_PROVISION, DELETE_PRE_PROVISION). Adding a new operation to
// either universe is a single point of change here; document-shape
// validation and test-marker planning both derive from these lists.
package contract
