package session

import (
	"locationd/internal/request"
	"locationd/pkg/types"
)

// The session is the provider's sink: each callback takes the session lock
// and fans the event out through the matching registry. Providers call these
// from their own goroutines, never from inside a session operation.

// LocationUpdated dispatches a fix to running location requests, then sweeps
// fulfilled single-shots out. The sweep runs after the dispatch iteration has
// completed; removal inside dispatch would mutate the set mid-walk.
func (s *Session) LocationUpdated(loc types.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations.DispatchValue(loc)

	var done []*request.LocationRequest
	s.locations.ForEachWhere(
		func(req *request.LocationRequest) bool { return req.Done() },
		func(req *request.LocationRequest) { done = append(done, req) },
	)
	for _, req := range done {
		s.locations.Remove(req)
		s.pub.Publish(Event{Name: EventRequestRemoved, RequestID: req.ID(),
			Fields: map[string]any{"reason": "fulfilled"}})
	}
}

// HeadingUpdated dispatches a compass reading. Heading is the full-broadcast
// kind: the registry delivers it to paused members too.
func (s *Session) HeadingUpdated(h types.Heading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headings.DispatchValue(h)
}

// RegionEventOccurred dispatches a boundary crossing to running region
// requests.
func (s *Session) RegionEventOccurred(ev types.RegionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions.DispatchValue(ev)
}

// RegionStateResolved dispatches a containment probe result.
func (s *Session) RegionStateResolved(st types.RegionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions.DispatchValue(st)
}

// ProviderError records the error and hands it to every running request. The
// session does not interpret the error; each request's own callback decides
// what to do with it.
func (s *Session) ProviderError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
	s.locations.DispatchError(err)
	s.headings.DispatchError(err)
	s.regions.DispatchError(err)
	s.pub.Publish(Event{Name: EventProviderError, Fields: map[string]any{"error": err.Error()}})
	s.log.Warn().Err(err).Msg("provider error")
}
