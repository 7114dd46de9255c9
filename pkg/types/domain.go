package types

import "time"

// Authorization is the permission level granted to (or required by) location
// consumers. Levels are totally ordered: None < WhenInUse < Always.
type Authorization int

const (
	// AuthorizationNone means no grant. It is the lowest level and the
	// identity element for authorization reductions over an empty set.
	AuthorizationNone Authorization = iota
	// AuthorizationWhenInUse allows foreground updates only.
	AuthorizationWhenInUse
	// AuthorizationAlways allows background and foreground updates.
	AuthorizationAlways
)

func (a Authorization) String() string {
	switch a {
	case AuthorizationWhenInUse:
		return "when-in-use"
	case AuthorizationAlways:
		return "always"
	default:
		return "none"
	}
}

// ParseAuthorization maps a config/API string to an Authorization level.
// Unknown strings map to AuthorizationNone.
func ParseAuthorization(s string) Authorization {
	switch s {
	case "when-in-use", "wheninuse":
		return AuthorizationWhenInUse
	case "always":
		return AuthorizationAlways
	default:
		return AuthorizationNone
	}
}

// Location is a single position fix.
type Location struct {
	// Latitude in decimal degrees.
	// example: 52.3676
	Latitude float64 `json:"lat" example:"52.3676"`
	// Longitude in decimal degrees.
	// example: 4.9041
	Longitude float64 `json:"lon" example:"4.9041"`
	// Altitude above sea level in meters.
	AltitudeM float64 `json:"altitude_m,omitempty"`
	// Horizontal accuracy radius in meters.
	AccuracyM float64 `json:"accuracy_m"`
	// Ground speed in meters per second.
	SpeedMPS float64 `json:"speed_mps,omitempty"`
	// Course over ground in degrees from true north.
	CourseDeg float64 `json:"course_deg,omitempty"`
	// Fix timestamp.
	Time time.Time `json:"time"`
}

// Heading is a single compass reading.
type Heading struct {
	// Magnetic heading in degrees (0 = magnetic north).
	MagneticDeg float64 `json:"magnetic_deg"`
	// True heading in degrees (0 = true north); negative when unknown.
	TrueDeg float64 `json:"true_deg"`
	// Heading accuracy in degrees; negative when invalid.
	AccuracyDeg float64 `json:"accuracy_deg"`
	// Reading timestamp.
	Time time.Time `json:"time"`
}

// Region is a circular geofence.
type Region struct {
	// Stable identifier chosen by the caller.
	// example: office
	ID string `json:"id" example:"office"`
	// Center latitude in decimal degrees.
	Latitude float64 `json:"lat"`
	// Center longitude in decimal degrees.
	Longitude float64 `json:"lon"`
	// Radius in meters.
	RadiusM float64 `json:"radius_m"`
}

// RegionEventKind discriminates boundary crossings.
type RegionEventKind string

const (
	RegionEnter RegionEventKind = "enter"
	RegionExit  RegionEventKind = "exit"
)

// RegionEvent reports a boundary crossing for a monitored region.
type RegionEvent struct {
	Region Region          `json:"region"`
	Kind   RegionEventKind `json:"kind"`
	Time   time.Time       `json:"time"`
}

// RegionContainment is the answer to a region state probe.
type RegionContainment string

const (
	RegionInside  RegionContainment = "inside"
	RegionOutside RegionContainment = "outside"
	RegionUnknown RegionContainment = "unknown"
)

// RegionState reports whether the device is currently inside a region.
// Unlike RegionEvent it is a point-in-time probe result, not a crossing.
type RegionState struct {
	Region Region            `json:"region"`
	State  RegionContainment `json:"state"`
	Time   time.Time         `json:"time"`
}
