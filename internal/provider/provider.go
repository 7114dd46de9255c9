// Package provider defines the sensor boundary of locationd. A Provider is an
// opaque source of location, heading, and region events; the session drives it
// through the Provider interface and receives events through the Sink it
// registers. Only the simulated provider ships; an OS-backed one would
// implement the same interface.
package provider

import "locationd/pkg/types"

// Provider abstracts the underlying location/heading/region event source.
// Start/Stop pairs are idempotent: starting an already-running stream or
// stopping a stopped one is a no-op.
type Provider interface {
	// SetSink registers the event consumer. Must be called before any Start.
	SetSink(Sink)
	// StartLocationUpdates begins delivering position fixes to the sink.
	StartLocationUpdates() error
	// StopLocationUpdates stops position fixes.
	StopLocationUpdates() error
	// StartHeadingUpdates begins delivering compass readings to the sink.
	StartHeadingUpdates() error
	// StopHeadingUpdates stops compass readings.
	StopHeadingUpdates() error
	// StartMonitoring adds region to the monitored set.
	StartMonitoring(region types.Region) error
	// StopMonitoring removes the region with the given id from the monitored
	// set.
	StopMonitoring(regionID string) error
	// RequestRegionState asks for a one-off containment probe; the answer
	// arrives at the sink as a RegionState.
	RequestRegionState(regionID string) error
	// RequestAuthorization asks the platform for a grant at the given level.
	// The outcome arrives at the sink via AuthorizationChanged.
	RequestAuthorization(level types.Authorization) error
	// Close stops all streams and releases resources.
	Close() error
}

// Sink receives provider events. The session implements it; implementations
// must be safe to call from the provider's own goroutine.
type Sink interface {
	LocationUpdated(types.Location)
	HeadingUpdated(types.Heading)
	RegionEventOccurred(types.RegionEvent)
	RegionStateResolved(types.RegionState)
	ProviderError(error)
	AuthorizationChanged(types.Authorization)
}
