package request

import (
	"locationd/internal/registry"
	"locationd/pkg/types"
)

// LocationConfig describes a location request to start.
type LocationConfig struct {
	// AccuracyM is the desired horizontal accuracy in meters; fixes with a
	// worse accuracy are dropped. Zero accepts any fix.
	AccuracyM float64
	// SingleShot completes the request after the first accepted fix.
	SingleShot bool
	// Background requests keep receiving updates while backgrounded and
	// require the always grant.
	Background bool
	// OnUpdate receives accepted fixes.
	OnUpdate func(types.Location)
	// OnError receives provider errors.
	OnError func(error)
}

// LocationRequest is a continuous or single-shot position watch.
type LocationRequest struct {
	base
	accuracyM  float64
	singleShot bool
	onUpdate   func(types.Location)
	done       bool
}

// NewLocation builds a location request. Background requests require the
// always grant; foreground ones when-in-use.
func NewLocation(cfg LocationConfig) *LocationRequest {
	auth := types.AuthorizationWhenInUse
	if cfg.Background {
		auth = types.AuthorizationAlways
	}
	return &LocationRequest{
		base:       newBase(auth, cfg.Background, cfg.OnError),
		accuracyM:  cfg.AccuracyM,
		singleShot: cfg.SingleShot,
		onUpdate:   cfg.OnUpdate,
	}
}

// ReceiveLocation delivers a fix. Fixes worse than the requested accuracy are
// dropped. A fulfilled single-shot marks itself done; the owning session
// sweeps done requests out after the dispatch iteration completes.
func (r *LocationRequest) ReceiveLocation(loc types.Location) {
	if r.done {
		return
	}
	if r.accuracyM > 0 && loc.AccuracyM > r.accuracyM {
		return
	}
	r.markUpdating()
	if r.onUpdate != nil {
		r.onUpdate(loc)
	}
	if r.singleShot {
		r.done = true
	}
}

// Done reports whether a single-shot request has been fulfilled.
func (r *LocationRequest) Done() bool { return r.done }

var _ registry.LocationReceiver = (*LocationRequest)(nil)
