package session

import (
	"time"

	"locationd/internal/registry"
	"locationd/pkg/types"
)

// Status builds a detailed status response for /status.
func (s *Session) Status() types.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	required := maxAuth(
		s.locations.MaxRequiredAuthorization(),
		s.headings.MaxRequiredAuthorization(),
		s.regions.MaxRequiredAuthorization(),
	)
	resp := types.StatusResponse{
		Registries: []types.RegistryStatus{
			registryStatus(s.locations),
			registryStatus(s.headings),
			registryStatus(s.regions),
		},
		Authorization:         s.auth.String(),
		RequiredAuthorization: required.String(),
		ProviderActive:        s.locations.Count()+s.headings.Count()+s.regions.Count() > 0,
		Error:                 s.lastErr,
		UptimeSeconds:         int64(time.Since(s.startTime).Seconds()),
		ServerTimeUnix:        time.Now().Unix(),
	}
	resp.Requests = appendRequests(resp.Requests, s.locations)
	resp.Requests = appendRequests(resp.Requests, s.headings)
	resp.Requests = appendRequests(resp.Requests, s.regions)
	return resp
}

// Requests lists every in-flight request for GET /requests.
func (s *Session) Requests() []types.RequestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := appendRequests(nil, s.locations)
	out = appendRequests(out, s.headings)
	out = appendRequests(out, s.regions)
	return out
}

func registryStatus[T registry.Request](r *registry.Registry[T]) types.RegistryStatus {
	return types.RegistryStatus{
		Kind:                  r.Kind(),
		Count:                 r.Count(),
		Running:               r.CountRunning(),
		Paused:                r.CountPaused(),
		RequiredAuthorization: r.RequiredAuthorization().String(),
	}
}

func appendRequests[T registry.Request](out []types.RequestStatus, r *registry.Registry[T]) []types.RequestStatus {
	r.ForEachWhere(func(T) bool { return true }, func(req T) {
		out = append(out, types.RequestStatus{
			ID:                    req.ID(),
			Kind:                  r.Kind(),
			State:                 string(req.State()),
			RequiredAuthorization: req.RequiredAuthorization().String(),
			Background:            req.IsBackground(),
		})
	})
	return out
}

func maxAuth(levels ...types.Authorization) types.Authorization {
	out := types.AuthorizationNone
	for _, l := range levels {
		if l > out {
			out = l
		}
	}
	return out
}
