package request

import (
	"math"

	"locationd/internal/registry"
	"locationd/pkg/types"
)

// HeadingConfig describes a heading request to start.
type HeadingConfig struct {
	// DegreesFilter is the minimum change in magnetic heading (degrees)
	// before a new reading is delivered. Zero delivers every reading.
	DegreesFilter float64
	Background    bool
	OnUpdate      func(types.Heading)
	OnError       func(error)
}

// HeadingRequest is a compass watch with an optional change filter.
type HeadingRequest struct {
	base
	degreesFilter float64
	onUpdate      func(types.Heading)
	last          float64
	seeded        bool
}

// NewHeading builds a heading request.
func NewHeading(cfg HeadingConfig) *HeadingRequest {
	auth := types.AuthorizationWhenInUse
	if cfg.Background {
		auth = types.AuthorizationAlways
	}
	return &HeadingRequest{
		base:          newBase(auth, cfg.Background, cfg.OnError),
		degreesFilter: cfg.DegreesFilter,
		onUpdate:      cfg.OnUpdate,
	}
}

// ReceiveHeading delivers a reading unless it moved less than the filter
// since the last delivered one. The compass keeps feeding paused requests
// (heading is the registry's full-broadcast kind), so the filter also keeps
// the last bearing current while paused.
func (r *HeadingRequest) ReceiveHeading(h types.Heading) {
	if r.seeded && r.degreesFilter > 0 {
		if angularDelta(r.last, h.MagneticDeg) < r.degreesFilter {
			return
		}
	}
	r.last = h.MagneticDeg
	r.seeded = true
	if r.State().IsRunning() {
		r.markUpdating()
	}
	if r.onUpdate != nil {
		r.onUpdate(h)
	}
}

// angularDelta returns the smallest angle between two bearings in degrees.
func angularDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

var _ registry.HeadingReceiver = (*HeadingRequest)(nil)
