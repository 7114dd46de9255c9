package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"locationd/internal/provider"
	"locationd/internal/request"
	"locationd/pkg/types"
)

// fakeProvider records calls; it never delivers events on its own. Tests
// drive the sink directly, which mirrors the provider goroutine calling in.
type fakeProvider struct {
	mu           sync.Mutex
	sink         provider.Sink
	locStarts    int
	locStops     int
	headStarts   int
	headStops    int
	monitors     map[string]types.Region
	authRequests []types.Authorization
	closed       bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{monitors: make(map[string]types.Region)}
}

func (f *fakeProvider) SetSink(s provider.Sink) { f.sink = s }

func (f *fakeProvider) StartLocationUpdates() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locStarts++
	return nil
}

func (f *fakeProvider) StopLocationUpdates() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locStops++
	return nil
}

func (f *fakeProvider) StartHeadingUpdates() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headStarts++
	return nil
}

func (f *fakeProvider) StopHeadingUpdates() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headStops++
	return nil
}

func (f *fakeProvider) StartMonitoring(r types.Region) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitors[r.ID] = r
	return nil
}

func (f *fakeProvider) StopMonitoring(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.monitors, id)
	return nil
}

func (f *fakeProvider) RequestRegionState(string) error { return nil }

func (f *fakeProvider) RequestAuthorization(level types.Authorization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authRequests = append(f.authRequests, level)
	return nil
}

func (f *fakeProvider) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeProvider) counts() (locStarts, locStops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locStarts, f.locStops
}

func newTestSession(t *testing.T, cfg SessionConfig) (*Session, *fakeProvider) {
	t.Helper()
	prov := newFakeProvider()
	cfg.Provider = prov
	s := NewWithConfig(cfg)
	t.Cleanup(func() { _ = s.Close() })
	return s, prov
}

func TestProviderTogglesOncePerTransition(t *testing.T) {
	s, prov := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse})

	a, err := s.StartLocation(request.LocationConfig{})
	if err != nil {
		t.Fatalf("start a: %v", err)
	}
	b, err := s.StartLocation(request.LocationConfig{})
	if err != nil {
		t.Fatalf("start b: %v", err)
	}
	if starts, _ := prov.counts(); starts != 1 {
		t.Fatalf("location starts = %d, want 1", starts)
	}

	if err := s.Stop(a); err != nil {
		t.Fatalf("stop a: %v", err)
	}
	if _, stops := prov.counts(); stops != 0 {
		t.Fatalf("provider stopped while a member remains")
	}
	if err := s.Stop(b); err != nil {
		t.Fatalf("stop b: %v", err)
	}
	if _, stops := prov.counts(); stops != 1 {
		t.Fatalf("location stops = %d, want 1", stops)
	}

	// empty -> non-empty again: a fresh start
	if _, err := s.StartLocation(request.LocationConfig{}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if starts, _ := prov.counts(); starts != 2 {
		t.Fatalf("location starts after restart = %d, want 2", starts)
	}
}

func TestBackgroundRequestWaitsForGrant(t *testing.T) {
	pub := NewMemoryPublisher()
	s, prov := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse, Publisher: pub})

	id, err := s.StartLocation(request.LocationConfig{Background: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	reqs := s.Requests()
	if len(reqs) != 1 || reqs[0].State != "waiting-authorization" {
		t.Fatalf("request state = %+v", reqs)
	}
	prov.mu.Lock()
	prompted := len(prov.authRequests) == 1 && prov.authRequests[0] == types.AuthorizationAlways
	prov.mu.Unlock()
	if !prompted {
		t.Fatalf("provider not prompted for always grant")
	}
	if got := pub.Named(EventRequestWaiting); len(got) != 1 || got[0].RequestID != id {
		t.Fatalf("waiting event = %+v", got)
	}

	// grant arrives: the request resumes
	s.AuthorizationChanged(types.AuthorizationAlways)
	reqs = s.Requests()
	if reqs[0].State != "active" {
		t.Fatalf("state after grant = %s", reqs[0].State)
	}
}

func TestPartialGrantResumesSelectively(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationNone})

	// foreground needs when-in-use, background needs always; both wait
	fg, err := s.StartLocation(request.LocationConfig{})
	if err != nil {
		t.Fatalf("start fg: %v", err)
	}
	bg, err := s.StartLocation(request.LocationConfig{Background: true})
	if err != nil {
		t.Fatalf("start bg: %v", err)
	}

	s.AuthorizationChanged(types.AuthorizationWhenInUse)

	states := map[string]string{}
	for _, r := range s.Requests() {
		states[r.ID] = r.State
	}
	if states[fg] != "active" {
		t.Fatalf("foreground state = %s, want active", states[fg])
	}
	if states[bg] != "waiting-authorization" {
		t.Fatalf("background state = %s, want waiting-authorization", states[bg])
	}
}

func TestNarrowedGrantParksRequests(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationAlways})

	bg, err := s.StartLocation(request.LocationConfig{Background: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	fg, err := s.StartLocation(request.LocationConfig{})
	if err != nil {
		t.Fatalf("start fg: %v", err)
	}

	s.AuthorizationChanged(types.AuthorizationWhenInUse)

	states := map[string]string{}
	for _, r := range s.Requests() {
		states[r.ID] = r.State
	}
	if states[bg] != "waiting-authorization" {
		t.Fatalf("background state after revocation = %s", states[bg])
	}
	if states[fg] != "active" {
		t.Fatalf("foreground state after revocation = %s", states[fg])
	}
}

func TestDisablePromptsDeniesRequest(t *testing.T) {
	s, prov := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse, DisablePrompts: true})

	_, err := s.StartLocation(request.LocationConfig{Background: true})
	if !IsAuthorizationDenied(err) {
		t.Fatalf("err = %v, want authorization denied", err)
	}
	if len(s.Requests()) != 0 {
		t.Fatalf("denied request was admitted")
	}
	prov.mu.Lock()
	defer prov.mu.Unlock()
	if len(prov.authRequests) != 0 {
		t.Fatalf("prompt fired with prompts disabled")
	}
}

func TestStopUnknownRequest(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse})
	err := s.Stop("nope")
	if !IsRequestNotFound(err) {
		t.Fatalf("err = %v, want request not found", err)
	}
}

func TestPauseAllAndResumeAll(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse})
	if _, err := s.StartLocation(request.LocationConfig{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.StartHeading(request.HeadingConfig{}); err != nil {
		t.Fatalf("start heading: %v", err)
	}

	s.PauseAll()
	for _, reg := range s.Status().Registries {
		if reg.Running != 0 {
			t.Fatalf("%s registry still running after PauseAll", reg.Kind)
		}
	}
	if s.Status().Registries[0].Paused != 1 {
		t.Fatalf("location registry not paused")
	}

	s.ResumeAll()
	status := s.Status()
	if status.Registries[0].Running != 1 || status.Registries[1].Running != 1 {
		t.Fatalf("registries not resumed: %+v", status.Registries)
	}
}

func TestSingleShotSweptAfterDelivery(t *testing.T) {
	pub := NewMemoryPublisher()
	s, prov := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse, Publisher: pub})

	delivered := 0
	_, err := s.StartLocation(request.LocationConfig{
		SingleShot: true,
		OnUpdate:   func(types.Location) { delivered++ },
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	s.LocationUpdated(types.Location{AccuracyM: 5, Time: time.Now()})

	if delivered != 1 {
		t.Fatalf("delivered %d fixes, want 1", delivered)
	}
	if len(s.Requests()) != 0 {
		t.Fatalf("fulfilled single-shot still registered")
	}
	if _, stops := prov.counts(); stops != 1 {
		t.Fatalf("provider not stopped after sweep: stops=%d", stops)
	}
	removed := pub.Named(EventRequestRemoved)
	if len(removed) != 1 || removed[0].Fields["reason"] != "fulfilled" {
		t.Fatalf("removal event = %+v", removed)
	}
}

func TestHeadingReachesPausedRequests(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse})
	delivered := 0
	if _, err := s.StartHeading(request.HeadingConfig{
		OnUpdate: func(types.Heading) { delivered++ },
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.PauseAll()
	s.HeadingUpdated(types.Heading{MagneticDeg: 180, Time: time.Now()})

	if delivered != 1 {
		t.Fatalf("paused heading request delivered %d readings, want 1", delivered)
	}
}

func TestProviderErrorReachesRunningRequests(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse})
	var got error
	if _, err := s.StartLocation(request.LocationConfig{
		OnError: func(err error) { got = err },
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	want := errors.New("gps cold start")
	s.ProviderError(want)

	if !errors.Is(got, want) {
		t.Fatalf("request error callback got %v", got)
	}
	if s.Status().Error == "" {
		t.Fatalf("status does not surface the provider error")
	}
}

func TestRegionMonitoringFollowsMembership(t *testing.T) {
	s, prov := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationAlways})

	id, err := s.StartRegion(request.RegionConfig{
		Region: types.Region{ID: "office", Latitude: 52, Longitude: 4, RadiusM: 100},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	prov.mu.Lock()
	_, monitored := prov.monitors["office"]
	prov.mu.Unlock()
	if !monitored {
		t.Fatalf("region not monitored after start")
	}

	if err := s.Stop(id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	prov.mu.Lock()
	_, monitored = prov.monitors["office"]
	prov.mu.Unlock()
	if monitored {
		t.Fatalf("region still monitored after stop")
	}
}

func TestStartValidation(t *testing.T) {
	s, _ := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationAlways})

	if _, err := s.Start(types.StartRequest{Kind: "teleport"}); !IsInvalidRequest(err) {
		t.Fatalf("unknown kind err = %v", err)
	}
	if _, err := s.Start(types.StartRequest{Kind: "region"}); !IsInvalidRequest(err) {
		t.Fatalf("missing region err = %v", err)
	}
	if _, err := s.StartRegion(request.RegionConfig{Region: types.Region{ID: "r"}}); !IsInvalidRequest(err) {
		t.Fatalf("zero radius err = %v", err)
	}

	id, err := s.Start(types.StartRequest{Kind: "location", AccuracyM: 10})
	if err != nil || id == "" {
		t.Fatalf("valid start: id=%q err=%v", id, err)
	}
}

func TestClosedSessionRefusesRequests(t *testing.T) {
	s, prov := newTestSession(t, SessionConfig{InitialAuthorization: types.AuthorizationWhenInUse})
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.Ready() {
		t.Fatalf("closed session reports ready")
	}
	if _, err := s.StartLocation(request.LocationConfig{}); !IsSessionClosed(err) {
		t.Fatalf("start after close err = %v", err)
	}
	prov.mu.Lock()
	defer prov.mu.Unlock()
	if !prov.closed {
		t.Fatalf("provider not closed with session")
	}
}
