package session

import (
	"locationd/internal/registry"
	"locationd/pkg/types"
)

// AuthorizationChanged applies a new grant. A widened grant resumes waiting
// requests it now covers; a narrowed one parks requests it no longer covers
// back into waiting-authorization.
func (s *Session) AuthorizationChanged(grant types.Authorization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant == s.auth {
		return
	}
	prev := s.auth
	s.auth = grant
	s.pub.Publish(Event{Name: EventAuthChanged, Fields: map[string]any{
		"previous": prev.String(),
		"current":  grant.String(),
	}})
	s.log.Info().Stringer("previous", prev).Stringer("current", grant).Msg("authorization changed")

	if grant > prev {
		resumeEligible(s.locations, grant)
		resumeEligible(s.headings, grant)
		resumeEligible(s.regions, grant)
		return
	}
	parkUnauthorized(s.locations, grant)
	parkUnauthorized(s.headings, grant)
	parkUnauthorized(s.regions, grant)
}

// resumeEligible re-activates waiting members the grant covers. When the
// grant satisfies the whole registry this is the plain bulk resume; a partial
// grant resumes selectively.
func resumeEligible[T registry.Request](r *registry.Registry[T], grant types.Authorization) {
	if grant >= r.MaxRequiredAuthorization() {
		r.ResumeWaitingAuthorization()
		return
	}
	r.ForEachWhere(func(req T) bool {
		return req.State() == registry.StateWaitingAuthorization &&
			req.RequiredAuthorization() <= grant
	}, func(req T) {
		req.Resume()
	})
}

// parkUnauthorized moves members needing more than the grant into
// waiting-authorization until a sufficient grant returns.
func parkUnauthorized[T registry.Request](r *registry.Registry[T], grant types.Authorization) {
	r.ForEachWhere(func(req T) bool {
		return req.RequiredAuthorization() > grant
	}, func(req T) {
		req.SetState(registry.StateWaitingAuthorization)
	})
}
