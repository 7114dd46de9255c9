package session

import (
	"locationd/internal/registry"
	"locationd/internal/request"
	"locationd/pkg/types"
)

// StartLocation admits a location request and returns its id.
func (s *Session) StartLocation(cfg request.LocationConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", sessionClosedError{}
	}
	req := request.NewLocation(cfg)
	if err := s.gateLocked(req); err != nil {
		return "", err
	}
	s.locations.Add(req)
	s.publishAddedLocked(req.ID(), "location")
	return req.ID(), nil
}

// StartHeading admits a heading request and returns its id.
func (s *Session) StartHeading(cfg request.HeadingConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", sessionClosedError{}
	}
	req := request.NewHeading(cfg)
	if err := s.gateLocked(req); err != nil {
		return "", err
	}
	s.headings.Add(req)
	s.publishAddedLocked(req.ID(), "heading")
	return req.ID(), nil
}

// StartRegion admits a region monitoring request and returns its id.
func (s *Session) StartRegion(cfg request.RegionConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", sessionClosedError{}
	}
	if cfg.Region.ID == "" {
		return "", invalidRequestError{msg: "region id is required"}
	}
	if cfg.Region.RadiusM <= 0 {
		return "", invalidRequestError{msg: "region radius must be positive"}
	}
	req := request.NewRegion(cfg)
	if err := s.gateLocked(req); err != nil {
		return "", err
	}
	s.regions.Add(req)
	s.publishAddedLocked(req.ID(), "region")
	return req.ID(), nil
}

// Start admits a request described by an API payload. Used by the HTTP layer.
func (s *Session) Start(req types.StartRequest) (string, error) {
	switch req.Kind {
	case "location":
		return s.StartLocation(request.LocationConfig{
			AccuracyM:  req.AccuracyM,
			SingleShot: req.SingleShot,
			Background: req.Background,
			OnUpdate: func(loc types.Location) {
				s.log.Debug().Float64("lat", loc.Latitude).Float64("lon", loc.Longitude).Msg("location update")
			},
		})
	case "heading":
		return s.StartHeading(request.HeadingConfig{
			DegreesFilter: req.DegreesFilter,
			Background:    req.Background,
			OnUpdate: func(h types.Heading) {
				s.log.Debug().Float64("magnetic_deg", h.MagneticDeg).Msg("heading update")
			},
		})
	case "region":
		if req.Region == nil {
			return "", invalidRequestError{msg: "region payload is required"}
		}
		return s.StartRegion(request.RegionConfig{
			Region:     *req.Region,
			Background: req.Background,
			OnEvent: func(ev types.RegionEvent) {
				s.log.Debug().Str("region", ev.Region.ID).Str("kind", string(ev.Kind)).Msg("region event")
			},
		})
	default:
		return "", invalidRequestError{msg: "unknown kind: " + req.Kind}
	}
}

// Stop removes the request with the given id from whichever registry holds
// it. Returns ErrRequestNotFound for unknown ids.
func (s *Session) Stop(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := false
	if _, ok := s.locations.RemoveByID(id); ok {
		removed = true
	} else if _, ok := s.headings.RemoveByID(id); ok {
		removed = true
	} else if _, ok := s.regions.RemoveByID(id); ok {
		removed = true
	}
	if !removed {
		return requestNotFoundError{id: id}
	}
	s.pub.Publish(Event{Name: EventRequestRemoved, RequestID: id})
	s.log.Debug().Str("request_id", id).Msg("request removed")
	return nil
}

// PauseAll moves every running request to paused across all registries.
func (s *Session) PauseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations.SetState(registry.StatePaused, registry.RunningStates...)
	s.headings.SetState(registry.StatePaused, registry.RunningStates...)
	s.regions.SetState(registry.StatePaused, registry.RunningStates...)
	s.pub.Publish(Event{Name: EventPaused})
	s.log.Info().Msg("all requests paused")
}

// ResumeAll moves every paused request back to active.
func (s *Session) ResumeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations.SetState(registry.StateActive, registry.StatePaused)
	s.headings.SetState(registry.StateActive, registry.StatePaused)
	s.regions.SetState(registry.StateActive, registry.StatePaused)
	s.pub.Publish(Event{Name: EventResumed})
	s.log.Info().Msg("all requests resumed")
}

// gateLocked applies authorization admission to a new request. A request the
// current grant covers starts active; one needing more either parks in
// waiting-authorization behind a provider prompt or, with prompts disabled,
// is refused. Caller holds s.mu.
func (s *Session) gateLocked(req registry.Request) error {
	need := req.RequiredAuthorization()
	if need <= s.auth {
		return nil
	}
	if s.cfg.DisablePrompts {
		return authorizationDeniedError{need: need.String()}
	}
	req.SetState(registry.StateWaitingAuthorization)
	if s.prov != nil {
		if err := s.prov.RequestAuthorization(need); err != nil {
			s.log.Error().Err(err).Msg("request authorization")
		}
	}
	s.pub.Publish(Event{
		Name:      EventRequestWaiting,
		RequestID: req.ID(),
		Fields:    map[string]any{"required": need.String()},
	})
	return nil
}

func (s *Session) publishAddedLocked(id, kind string) {
	s.pub.Publish(Event{
		Name:      EventRequestAdded,
		RequestID: id,
		Fields:    map[string]any{"kind": kind},
	})
	s.log.Debug().Str("request_id", id).Str("kind", kind).Msg("request added")
}
