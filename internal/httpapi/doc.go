// Package httpapi serves bookmark search over HTTP.
//
// Three search surfaces share one pipeline but differ in caller context:
// the in-app API, the versioned public API with a larger page cap, and
// share-link search where the token stands in for authentication and
// private flags are blanked. Authentication itself is delegated to a
// fronting proxy that sets the owner header.
package httpapi
