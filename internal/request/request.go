// Package request provides the concrete request kinds held by the registries:
// continuous/single-shot location requests, filtered heading requests, and
// region monitoring requests. Each kind embeds the shared base (identity,
// state, authorization, background flag) and implements the capability
// interfaces of internal/registry it can accept payloads for.
package request

import (
	"github.com/google/uuid"

	"locationd/internal/registry"
	"locationd/pkg/types"
)

// base carries the fields common to every request kind.
type base struct {
	id         string
	state      registry.State
	auth       types.Authorization
	background bool
	onError    func(error)
}

func newBase(auth types.Authorization, background bool, onError func(error)) base {
	return base{
		id:         uuid.NewString(),
		state:      registry.StateActive,
		auth:       auth,
		background: background,
		onError:    onError,
	}
}

func (b *base) ID() string                                 { return b.id }
func (b *base) State() registry.State                      { return b.state }
func (b *base) SetState(s registry.State)                  { b.state = s }
func (b *base) RequiredAuthorization() types.Authorization { return b.auth }
func (b *base) IsBackground() bool                         { return b.background }

// ReceiveError hands a provider error to the caller's error callback. The
// registry does not interpret the error; propagation policy lives here.
func (b *base) ReceiveError(err error) {
	if b.onError != nil {
		b.onError(err)
	}
}

// Resume re-activates a request blocked on authorization. A no-op in any
// other state.
func (b *base) Resume() {
	if b.state == registry.StateWaitingAuthorization {
		b.state = registry.StateActive
	}
}

// markUpdating flips a freshly active request to updating on first delivery.
func (b *base) markUpdating() {
	if b.state == registry.StateActive {
		b.state = registry.StateUpdating
	}
}
