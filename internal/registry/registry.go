package registry

import (
	"fmt"

	"locationd/pkg/types"
)

// Registry holds the in-flight requests of a single element kind and routes
// values and errors to the members eligible to receive them.
//
// The registry provides no internal locking: all operations are plain
// synchronous calls, and the owning session serializes access (one mutex or
// one goroutine). Iteration works over a snapshot of the member set, so a
// dispatched action may add or remove members without corrupting the walk;
// such mutations take effect for the next operation, not the current one.
type Registry[T Request] struct {
	kind     string
	members  map[string]T
	onAdd    []func(T)
	onRemove []func(T)
}

// New returns an empty registry. kind is a human-readable element kind name
// used only by Describe.
func New[T Request](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		members: make(map[string]T),
	}
}

// Kind returns the element kind name.
func (r *Registry[T]) Kind() string { return r.kind }

// OnAdd registers a hook invoked synchronously after each successful Add, in
// registration order. Hooks must not mutate the registry.
func (r *Registry[T]) OnAdd(fn func(T)) { r.onAdd = append(r.onAdd, fn) }

// OnRemove registers a hook invoked synchronously after each successful
// Remove, in registration order. Hooks must not mutate the registry.
func (r *Registry[T]) OnRemove(fn func(T)) { r.onRemove = append(r.onRemove, fn) }

// Add inserts req and fires the OnAdd hooks. It returns false without side
// effects if a member with the same ID is already present.
func (r *Registry[T]) Add(req T) bool {
	id := req.ID()
	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = req
	for _, fn := range r.onAdd {
		fn(req)
	}
	return true
}

// Remove deletes req and fires the OnRemove hooks. It returns false without
// side effects if req is not a member.
func (r *Registry[T]) Remove(req T) bool {
	id := req.ID()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	for _, fn := range r.onRemove {
		fn(req)
	}
	return true
}

// RemoveByID removes the member with the given id, returning it and true on
// success.
func (r *Registry[T]) RemoveByID(id string) (T, bool) {
	req, ok := r.members[id]
	if !ok {
		var zero T
		return zero, false
	}
	delete(r.members, id)
	for _, fn := range r.onRemove {
		fn(req)
	}
	return req, true
}

// Contains reports whether req is a member.
func (r *Registry[T]) Contains(req T) bool {
	_, ok := r.members[req.ID()]
	return ok
}

// Get returns the member with the given id.
func (r *Registry[T]) Get(id string) (T, bool) {
	req, ok := r.members[id]
	return req, ok
}

// Count returns the total number of members.
func (r *Registry[T]) Count() int { return len(r.members) }

// CountRunning returns the number of members in a running-classified state.
// Computed from live member state at call time, never cached.
func (r *Registry[T]) CountRunning() int {
	n := 0
	for _, req := range r.members {
		if req.State().IsRunning() {
			n++
		}
	}
	return n
}

// CountPaused returns the number of members in a paused-classified state.
func (r *Registry[T]) CountPaused() int {
	n := 0
	for _, req := range r.members {
		if req.State().IsPaused() {
			n++
		}
	}
	return n
}

// HasBackgroundRequests reports whether any member is a background request.
func (r *Registry[T]) HasBackgroundRequests() bool {
	for _, req := range r.members {
		if req.IsBackground() {
			return true
		}
	}
	return false
}

// SetState overwrites the state of every member whose current state is in
// from. The overwrite is unconditional; no per-request transition validation
// runs. It applies uniformly to any element kind.
func (r *Registry[T]) SetState(to State, from ...State) {
	r.ForEachInStates(from, func(req T) {
		req.SetState(to)
	})
}

// ResumeWaitingAuthorization invokes Resume on every member currently blocked
// in StateWaitingAuthorization. Members in other states are untouched.
func (r *Registry[T]) ResumeWaitingAuthorization() {
	r.ForEachInStates([]State{StateWaitingAuthorization}, func(req T) {
		req.Resume()
	})
}

// ForEachInStates invokes fn once per member whose state is in states, in
// unspecified order. Membership is snapshotted before the first call.
func (r *Registry[T]) ForEachInStates(states []State, fn func(T)) {
	r.ForEachWhere(func(req T) bool {
		s := req.State()
		for _, want := range states {
			if s == want {
				return true
			}
		}
		return false
	}, fn)
}

// ForEachWhere invokes fn once per member satisfying pred, in unspecified
// order. Matching members are collected before fn runs, so fn may remove
// members (itself included) without breaking the iteration.
func (r *Registry[T]) ForEachWhere(pred func(T) bool, fn func(T)) {
	matched := make([]T, 0, len(r.members))
	for _, req := range r.members {
		if pred(req) {
			matched = append(matched, req)
		}
	}
	for _, req := range matched {
		fn(req)
	}
}

// DispatchError delivers err to every running-classified member. Non-running
// members are untouched.
func (r *Registry[T]) DispatchError(err error) {
	r.ForEachInStates(RunningStates, func(req T) {
		req.ReceiveError(err)
	})
}

// DispatchValue routes payload by its concrete kind to the members able to
// accept it. Location and region payloads reach running-classified members
// only. Heading payloads reach every member regardless of state: a paused
// heading request still tracks the compass so it resumes with a current
// bearing. A payload kind no member interface accepts is a silent no-op,
// letting one dispatch call site serve differently specialized registries.
func (r *Registry[T]) DispatchValue(payload any) {
	switch v := payload.(type) {
	case types.Location:
		r.ForEachInStates(RunningStates, func(req T) {
			if lr, ok := any(req).(LocationReceiver); ok {
				lr.ReceiveLocation(v)
			}
		})
	case types.Heading:
		r.ForEachWhere(func(T) bool { return true }, func(req T) {
			if hr, ok := any(req).(HeadingReceiver); ok {
				hr.ReceiveHeading(v)
			}
		})
	case types.RegionEvent:
		r.ForEachInStates(RunningStates, func(req T) {
			if rr, ok := any(req).(RegionEventReceiver); ok {
				rr.ReceiveRegionEvent(v)
			}
		})
	case types.RegionState:
		r.ForEachInStates(RunningStates, func(req T) {
			if rr, ok := any(req).(RegionStateReceiver); ok {
				rr.ReceiveRegionState(v)
			}
		})
	}
}

// RequiredAuthorization returns the minimum required authorization across all
// members, with AuthorizationNone for an empty registry. This is the loosest
// bound that still lets the least-demanding member operate; callers wanting a
// level sufficient for every member use MaxRequiredAuthorization.
func (r *Registry[T]) RequiredAuthorization() types.Authorization {
	required := types.AuthorizationNone
	for _, req := range r.members {
		if required == types.AuthorizationNone || req.RequiredAuthorization() < required {
			required = req.RequiredAuthorization()
		}
	}
	return required
}

// MaxRequiredAuthorization returns the authorization level sufficient for
// every member to operate, with AuthorizationNone for an empty registry.
func (r *Registry[T]) MaxRequiredAuthorization() types.Authorization {
	required := types.AuthorizationNone
	for _, req := range r.members {
		if req.RequiredAuthorization() > required {
			required = req.RequiredAuthorization()
		}
	}
	return required
}

// Describe returns a human-readable summary for logs and status pages.
func (r *Registry[T]) Describe() string {
	return fmt.Sprintf("%s registry: %d requests (%d running, %d paused)",
		r.kind, r.Count(), r.CountRunning(), r.CountPaused())
}
