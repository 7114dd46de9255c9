package session

import (
	"time"

	"github.com/rs/zerolog"

	"locationd/internal/provider"
	"locationd/pkg/types"
)

// SessionConfig encapsulates all tunables for Session construction.
type SessionConfig struct {
	// Provider is the event source the session drives. Required.
	Provider provider.Provider
	// InitialAuthorization is the grant in effect before any prompt.
	InitialAuthorization types.Authorization
	// DisablePrompts refuses requests needing more than the current grant
	// instead of parking them in waiting-authorization and prompting.
	DisablePrompts bool
	// Publisher receives lifecycle events; defaults to a no-op.
	Publisher EventPublisher
	// Logger for session activity; a disabled logger is used when unset.
	Logger *zerolog.Logger
}

// New constructs a Session around prov with defaults.
func New(prov provider.Provider) *Session {
	return NewWithConfig(SessionConfig{Provider: prov})
}

// NewWithConfig constructs a Session from cfg.
func NewWithConfig(cfg SessionConfig) *Session {
	pub := cfg.Publisher
	if pub == nil {
		pub = noopPublisher{}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	s := &Session{
		cfg:       cfg,
		log:       logger,
		pub:       pub,
		prov:      cfg.Provider,
		auth:      cfg.InitialAuthorization,
		startTime: time.Now(),
	}
	s.initRegistries()
	if s.prov != nil {
		s.prov.SetSink(s)
	}
	return s
}
