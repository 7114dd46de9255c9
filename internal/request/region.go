package request

import (
	"locationd/internal/registry"
	"locationd/pkg/types"
)

// RegionConfig describes a region monitoring request to start.
type RegionConfig struct {
	Region     types.Region
	Background bool
	// OnEvent receives boundary crossings.
	OnEvent func(types.RegionEvent)
	// OnState receives containment probe results.
	OnState func(types.RegionState)
	OnError func(error)
}

// RegionRequest monitors one circular region for crossings and state probes.
type RegionRequest struct {
	base
	region  types.Region
	onEvent func(types.RegionEvent)
	onState func(types.RegionState)
}

// NewRegion builds a region monitoring request. Region monitoring fires while
// backgrounded, so it always needs the always grant.
func NewRegion(cfg RegionConfig) *RegionRequest {
	return &RegionRequest{
		base:    newBase(types.AuthorizationAlways, cfg.Background, cfg.OnError),
		region:  cfg.Region,
		onEvent: cfg.OnEvent,
		onState: cfg.OnState,
	}
}

// Region returns the monitored region.
func (r *RegionRequest) Region() types.Region { return r.region }

// ReceiveRegionEvent delivers a crossing for this request's region; crossings
// for other regions are ignored.
func (r *RegionRequest) ReceiveRegionEvent(ev types.RegionEvent) {
	if ev.Region.ID != r.region.ID {
		return
	}
	r.markUpdating()
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

// ReceiveRegionState delivers a containment probe result for this request's
// region.
func (r *RegionRequest) ReceiveRegionState(st types.RegionState) {
	if st.Region.ID != r.region.ID {
		return
	}
	if r.onState != nil {
		r.onState(st)
	}
}

var (
	_ registry.RegionEventReceiver = (*RegionRequest)(nil)
	_ registry.RegionStateReceiver = (*RegionRequest)(nil)
)
