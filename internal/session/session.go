package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"locationd/internal/provider"
	"locationd/internal/registry"
	"locationd/internal/request"
	"locationd/pkg/types"
)

// Session owns one registry per request kind and the provider feeding them.
// Its mutex serializes every registry access; the registries themselves carry
// no locking.
type Session struct {
	mu   sync.Mutex
	cfg  SessionConfig
	log  zerolog.Logger
	pub  EventPublisher
	prov provider.Provider

	auth      types.Authorization
	locations *registry.Registry[*request.LocationRequest]
	headings  *registry.Registry[*request.HeadingRequest]
	regions   *registry.Registry[*request.RegionRequest]

	startTime time.Time
	lastErr   string
	closed    bool
}

// initRegistries builds the registries and wires the provider-toggling hooks.
// Each hook fires after the mutation, so the empty/non-empty decision reads a
// consistent registry: exactly one provider start per empty to non-empty
// transition and one stop for the reverse.
func (s *Session) initRegistries() {
	s.locations = registry.New[*request.LocationRequest]("location")
	s.headings = registry.New[*request.HeadingRequest]("heading")
	s.regions = registry.New[*request.RegionRequest]("region")

	s.locations.OnAdd(func(*request.LocationRequest) {
		if s.locations.Count() == 1 && s.prov != nil {
			if err := s.prov.StartLocationUpdates(); err != nil {
				s.log.Error().Err(err).Msg("start location updates")
			}
		}
	})
	s.locations.OnRemove(func(*request.LocationRequest) {
		if s.locations.Count() == 0 && s.prov != nil {
			if err := s.prov.StopLocationUpdates(); err != nil {
				s.log.Error().Err(err).Msg("stop location updates")
			}
		}
	})

	s.headings.OnAdd(func(*request.HeadingRequest) {
		if s.headings.Count() == 1 && s.prov != nil {
			if err := s.prov.StartHeadingUpdates(); err != nil {
				s.log.Error().Err(err).Msg("start heading updates")
			}
		}
	})
	s.headings.OnRemove(func(*request.HeadingRequest) {
		if s.headings.Count() == 0 && s.prov != nil {
			if err := s.prov.StopHeadingUpdates(); err != nil {
				s.log.Error().Err(err).Msg("stop heading updates")
			}
		}
	})

	// Region monitoring is per-region rather than per-pool: the provider
	// tracks each monitored region individually.
	s.regions.OnAdd(func(req *request.RegionRequest) {
		if s.prov != nil {
			if err := s.prov.StartMonitoring(req.Region()); err != nil {
				s.log.Error().Err(err).Msg("start monitoring")
			}
		}
	})
	s.regions.OnRemove(func(req *request.RegionRequest) {
		if s.prov != nil {
			if err := s.prov.StopMonitoring(req.Region().ID); err != nil {
				s.log.Error().Err(err).Msg("stop monitoring")
			}
		}
	})
}

// Authorization returns the grant currently in effect.
func (s *Session) Authorization() types.Authorization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// Ready reports whether the session accepts requests.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close stops the provider and refuses further operations. Members are left
// in place; owners of in-flight requests see no further deliveries.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	prov := s.prov
	s.mu.Unlock()
	if prov != nil {
		return prov.Close()
	}
	return nil
}
