// Package query validates and canonicalizes raw search input.
//
// Every caller surface funnels through Normalize, which applies that
// surface's defaults and caps before the pipeline sees the query. The
// in-app and versioned APIs reject out-of-range page sizes because the
// cap is part of their contract; the public share and assistant surfaces
// clamp instead, and malformed filter values are dropped silently so a
// stale shared link keeps working.
package query
