package registry

import "locationd/pkg/types"

// State represents the lifecycle state of a request held in a registry.
type State string

const (
	// StateActive: the request is receiving dispatch.
	StateActive State = "active"
	// StateUpdating: the request is receiving dispatch and has already seen
	// at least one delivery. Running-classified, like StateActive.
	StateUpdating State = "updating"
	// StatePaused: the request is suspended but remains a member.
	StatePaused State = "paused"
	// StateWaitingAuthorization: the request is blocked until a permission
	// grant arrives. Neither running- nor paused-classified.
	StateWaitingAuthorization State = "waiting-authorization"
)

// RunningStates lists the running-classified states used by dispatch filtering.
var RunningStates = []State{StateActive, StateUpdating}

// IsRunning reports whether s is running-classified.
func (s State) IsRunning() bool { return s == StateActive || s == StateUpdating }

// IsPaused reports whether s is paused-classified.
func (s State) IsPaused() bool { return s == StatePaused }

// Request is the contract every registry member satisfies. Identity is the
// stable ID key; two requests with the same ID are the same member.
type Request interface {
	// ID returns the stable identity key of the request.
	ID() string
	// State returns the current lifecycle state.
	State() State
	// SetState overwrites the lifecycle state without validation. Bulk
	// transitions rely on this; choosing a legal transition is the
	// caller's job.
	SetState(State)
	// RequiredAuthorization is the minimum level the request needs to operate.
	RequiredAuthorization() types.Authorization
	// IsBackground reports whether the request keeps receiving updates while
	// the owning app is backgrounded.
	IsBackground() bool
	// ReceiveError delivers a provider error to the request.
	ReceiveError(error)
	// Resume re-activates a request blocked in StateWaitingAuthorization.
	// Called when a late permission grant arrives; a no-op in other states.
	Resume()
}

// Capability interfaces probed by DispatchValue. A request kind accepts a
// payload kind by implementing the matching interface; the registry never
// casts to concrete types.

// LocationReceiver accepts position fixes.
type LocationReceiver interface {
	ReceiveLocation(types.Location)
}

// HeadingReceiver accepts compass readings.
type HeadingReceiver interface {
	ReceiveHeading(types.Heading)
}

// RegionEventReceiver accepts region boundary crossings.
type RegionEventReceiver interface {
	ReceiveRegionEvent(types.RegionEvent)
}

// RegionStateReceiver accepts region containment probe results.
type RegionStateReceiver interface {
	ReceiveRegionState(types.RegionState)
}
