package provider

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"locationd/pkg/types"
)

// Defaults applied when corresponding SimConfig fields are unset.
const (
	defaultTick     = 250 * time.Millisecond
	defaultSpeedMPS = 1.4 // walking pace
	metersPerDegree = 111320.0
)

// SimConfig encapsulates all tunables for the simulated provider.
type SimConfig struct {
	// Tick is the interval between emissions.
	Tick time.Duration
	// StartLat/StartLon seed the synthetic walk.
	StartLat float64
	StartLon float64
	// SpeedMPS is the walk speed.
	SpeedMPS float64
	// Grant is the level handed out when authorization is requested.
	Grant types.Authorization
	// GrantDelay delays the grant to mimic a user answering a prompt.
	GrantDelay time.Duration
	// Logger for provider activity; a disabled logger is used when unset.
	Logger *zerolog.Logger
}

// Sim is a deterministic in-process provider: a synthetic north-east walk
// emitting fixes and compass readings on a ticker, with region crossing
// detection for monitored regions. Sink callbacks run on the provider's own
// goroutine, never on the caller's, so the session may hold its lock while
// driving the provider.
type Sim struct {
	mu   sync.Mutex
	cfg  SimConfig
	log  zerolog.Logger
	sink Sink

	lat, lon float64
	bearing  float64
	step     int

	locOn, headOn bool
	regions       map[string]types.Region
	inside        map[string]bool

	stopCh chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewSim constructs a simulated provider from cfg, applying defaults.
func NewSim(cfg SimConfig) *Sim {
	if cfg.Tick <= 0 {
		cfg.Tick = defaultTick
	}
	if cfg.SpeedMPS <= 0 {
		cfg.SpeedMPS = defaultSpeedMPS
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Sim{
		cfg:     cfg,
		log:     logger,
		lat:     cfg.StartLat,
		lon:     cfg.StartLon,
		bearing: 45,
		regions: make(map[string]types.Region),
		inside:  make(map[string]bool),
	}
}

// SetSink registers the event consumer.
func (s *Sim) SetSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

func (s *Sim) StartLocationUpdates() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locOn {
		s.log.Debug().Msg("location updates on")
	}
	s.locOn = true
	s.ensureLoopLocked()
	return nil
}

func (s *Sim) StopLocationUpdates() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locOn {
		s.log.Debug().Msg("location updates off")
	}
	s.locOn = false
	return nil
}

func (s *Sim) StartHeadingUpdates() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headOn = true
	s.ensureLoopLocked()
	return nil
}

func (s *Sim) StopHeadingUpdates() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headOn = false
	return nil
}

func (s *Sim) StartMonitoring(region types.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[region.ID] = region
	s.inside[region.ID] = s.containsLocked(region)
	s.ensureLoopLocked()
	s.log.Debug().Str("region", region.ID).Msg("monitoring on")
	return nil
}

func (s *Sim) StopMonitoring(regionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regions, regionID)
	delete(s.inside, regionID)
	return nil
}

// RequestRegionState answers a containment probe asynchronously on a separate
// goroutine, like every other sink delivery.
func (s *Sim) RequestRegionState(regionID string) error {
	s.mu.Lock()
	region, ok := s.regions[regionID]
	sink := s.sink
	var state types.RegionContainment = types.RegionUnknown
	if ok {
		if s.containsLocked(region) {
			state = types.RegionInside
		} else {
			state = types.RegionOutside
		}
	}
	s.mu.Unlock()
	if sink == nil {
		return nil
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sink.RegionStateResolved(types.RegionState{Region: region, State: state, Time: time.Now()})
	}()
	return nil
}

// RequestAuthorization grants the configured level after the configured
// delay, mimicking a user answering a permission prompt. The grant never
// exceeds the configured ceiling.
func (s *Sim) RequestAuthorization(level types.Authorization) error {
	s.mu.Lock()
	sink := s.sink
	grant := s.cfg.Grant
	delay := s.cfg.GrantDelay
	s.mu.Unlock()
	if grant > level {
		grant = level
	}
	if sink == nil {
		return nil
	}
	s.log.Debug().Stringer("requested", level).Stringer("grant", grant).Msg("authorization prompt")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if delay > 0 {
			time.Sleep(delay)
		}
		sink.AuthorizationChanged(grant)
	}()
	return nil
}

// Close stops all streams and waits for in-flight deliveries.
func (s *Sim) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.locOn, s.headOn = false, false
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}

// ensureLoopLocked starts the emission loop once. Caller holds s.mu.
func (s *Sim) ensureLoopLocked() {
	if s.stopCh != nil || s.closed {
		return
	}
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.stopCh)
}

func (s *Sim) loop(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Sim) tick() {
	s.mu.Lock()
	sink := s.sink
	if sink == nil {
		s.mu.Unlock()
		return
	}
	s.step++
	// Advance the walk along the current bearing, drifting a few degrees per
	// tick so headings change.
	dist := s.cfg.SpeedMPS * s.cfg.Tick.Seconds()
	rad := s.bearing * math.Pi / 180
	s.lat += dist * math.Cos(rad) / metersPerDegree
	s.lon += dist * math.Sin(rad) / (metersPerDegree * math.Cos(s.lat*math.Pi/180))
	s.bearing = math.Mod(s.bearing+3, 360)

	now := time.Now()
	var loc *types.Location
	if s.locOn {
		loc = &types.Location{
			Latitude:  s.lat,
			Longitude: s.lon,
			AccuracyM: 5,
			SpeedMPS:  s.cfg.SpeedMPS,
			CourseDeg: s.bearing,
			Time:      now,
		}
	}
	var head *types.Heading
	if s.headOn {
		head = &types.Heading{
			MagneticDeg: s.bearing,
			TrueDeg:     s.bearing,
			AccuracyDeg: 2,
			Time:        now,
		}
	}
	var crossings []types.RegionEvent
	for id, region := range s.regions {
		nowInside := s.containsLocked(region)
		if nowInside == s.inside[id] {
			continue
		}
		s.inside[id] = nowInside
		kind := types.RegionExit
		if nowInside {
			kind = types.RegionEnter
		}
		crossings = append(crossings, types.RegionEvent{Region: region, Kind: kind, Time: now})
	}
	s.mu.Unlock()

	if loc != nil {
		sink.LocationUpdated(*loc)
	}
	if head != nil {
		sink.HeadingUpdated(*head)
	}
	for _, ev := range crossings {
		s.log.Debug().Str("region", ev.Region.ID).Str("kind", string(ev.Kind)).Msg("region crossing")
		sink.RegionEventOccurred(ev)
	}
}

// containsLocked reports whether the current position is inside region.
// Caller holds s.mu.
func (s *Sim) containsLocked(region types.Region) bool {
	dLat := (s.lat - region.Latitude) * metersPerDegree
	dLon := (s.lon - region.Longitude) * metersPerDegree * math.Cos(region.Latitude*math.Pi/180)
	return math.Hypot(dLat, dLon) <= region.RadiusM
}

var _ Provider = (*Sim)(nil)
