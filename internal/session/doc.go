// Package session owns the request registries and the provider. It is
// structured into small files by concern:
//
//   - session.go: core Session type, constructor, simple getters.
//   - config.go: SessionConfig and package defaults; NewWithConfig applies
//     defaults.
//   - ops.go: request lifecycle operations (Start*, Stop, PauseAll,
//     ResumeAll).
//   - sink.go: the provider.Sink implementation that fans provider events out
//     through the registries.
//   - auth.go: authorization grant handling and waiting-request resume.
//   - events.go: lifecycle event types and the EventPublisher interface.
//   - eventpub_memory.go: in-memory publisher for tests.
//   - errors.go: error types and helpers (IsRequestNotFound,
//     IsInvalidRequest, IsAuthorizationDenied).
//   - status.go: Status reporting for the HTTP layer.
//
// The registries themselves are unsynchronized; the session's single mutex
// serializes every registry access, whether it originates from a caller
// starting a request or from the provider goroutine delivering an event.
// Registry hooks toggle the provider streams exactly once per empty/non-empty
// transition.
package session
