package types

// StartRequest is the payload for POST /requests.
type StartRequest struct {
	// Kind of request to start: location, heading or region.
	// example: location
	Kind string `json:"kind" example:"location"`
	// Desired horizontal accuracy in meters (location requests).
	// example: 10
	AccuracyM float64 `json:"accuracy_m,omitempty" example:"10"`
	// If true the request completes after a single fix (location requests).
	// example: false
	SingleShot bool `json:"single_shot,omitempty" example:"false"`
	// Minimum heading change in degrees before a new reading is delivered
	// (heading requests).
	// example: 5
	DegreesFilter float64 `json:"degrees_filter,omitempty" example:"5"`
	// Region to monitor (region requests).
	Region *Region `json:"region,omitempty"`
	// If true the request keeps receiving updates in the background and
	// requires the always authorization level.
	// example: false
	Background bool `json:"background,omitempty" example:"false"`
}

// StartResponse wraps the id of a newly started request.
type StartResponse struct {
	// Identifier of the started request.
	// example: 6a1f0f9e-0c62-4e0b-9a43-7f3f0b9a1d22
	ID string `json:"id" example:"6a1f0f9e-0c62-4e0b-9a43-7f3f0b9a1d22"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: request not found: abc
	Error string `json:"error" example:"request not found: abc"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// RequestStatus summarizes one in-flight request for /requests and /status.
type RequestStatus struct {
	// Request identifier.
	ID string `json:"id"`
	// Element kind of the registry holding the request.
	// example: location
	Kind string `json:"kind" example:"location"`
	// Current lifecycle state (active, updating, paused, waiting-authorization).
	// example: active
	State string `json:"state" example:"active"`
	// Minimum authorization level the request declared.
	// example: when-in-use
	RequiredAuthorization string `json:"required_authorization" example:"when-in-use"`
	// Whether the request receives updates in the background.
	Background bool `json:"background"`
}

// RegistryStatus summarizes one registry for /status.
type RegistryStatus struct {
	// Element kind name.
	// example: location
	Kind string `json:"kind" example:"location"`
	// Total members.
	Count int `json:"count"`
	// Members in a running-classified state.
	Running int `json:"running"`
	// Members in a paused-classified state.
	Paused int `json:"paused"`
	// Loosest sufficient authorization across members (minimum reduction).
	// example: when-in-use
	RequiredAuthorization string `json:"required_authorization" example:"when-in-use"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Per-kind registry summaries.
	Registries []RegistryStatus `json:"registries"`
	// All in-flight requests.
	Requests []RequestStatus `json:"requests"`
	// Current authorization grant.
	// example: when-in-use
	Authorization string `json:"authorization" example:"when-in-use"`
	// Authorization level sufficient for every queued request.
	// example: always
	RequiredAuthorization string `json:"required_authorization" example:"always"`
	// Whether the underlying provider is currently delivering updates.
	ProviderActive bool `json:"provider_active"`
	// Optional top-level error message.
	Error string `json:"error,omitempty"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
