// Package registry implements the request registry at the heart of locationd:
// a generic set of in-flight requests with per-member lifecycle state,
// state-filtered broadcast dispatch of values and errors, bulk state
// transitions, and authorization aggregation. It is structured by concern:
//
//   - request.go: the Request contract, lifecycle states, and the capability
//     interfaces DispatchValue probes (LocationReceiver, HeadingReceiver,
//     RegionEventReceiver, RegionStateReceiver).
//   - registry.go: the Registry container, membership with add/remove hooks,
//     filtered iteration, dispatch, and aggregation.
//
// The registry itself is not synchronized. The owning session serializes all
// access; see internal/session.
package registry
