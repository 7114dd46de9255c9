package registry

import (
	"strings"
	"testing"

	"locationd/pkg/types"
)

// stubRequest implements Request plus all capability interfaces with counters.
type stubRequest struct {
	id         string
	state      State
	auth       types.Authorization
	background bool

	locations    int
	headings     int
	regionEvents int
	regionStates int
	errors       int
	resumes      int
}

func (s *stubRequest) ID() string                                  { return s.id }
func (s *stubRequest) State() State                                { return s.state }
func (s *stubRequest) SetState(st State)                           { s.state = st }
func (s *stubRequest) RequiredAuthorization() types.Authorization  { return s.auth }
func (s *stubRequest) IsBackground() bool                          { return s.background }
func (s *stubRequest) ReceiveError(error)                          { s.errors++ }
func (s *stubRequest) ReceiveLocation(types.Location)              { s.locations++ }
func (s *stubRequest) ReceiveHeading(types.Heading)                { s.headings++ }
func (s *stubRequest) ReceiveRegionEvent(types.RegionEvent)        { s.regionEvents++ }
func (s *stubRequest) ReceiveRegionState(types.RegionState)        { s.regionStates++ }

func (s *stubRequest) Resume() {
	s.resumes++
	if s.state == StateWaitingAuthorization {
		s.state = StateActive
	}
}

func newStub(id string, state State) *stubRequest {
	return &stubRequest{id: id, state: state, auth: types.AuthorizationWhenInUse}
}

func TestAddRejectsDuplicates(t *testing.T) {
	r := New[*stubRequest]("test")
	req := newStub("a", StateActive)
	if !r.Add(req) {
		t.Fatalf("first add failed")
	}
	if r.Add(req) {
		t.Fatalf("duplicate add succeeded")
	}
	if got := r.Count(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	// A distinct value with the same id is the same member.
	if r.Add(newStub("a", StatePaused)) {
		t.Fatalf("add with duplicate id succeeded")
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	r := New[*stubRequest]("test")
	req := newStub("a", StateActive)
	if r.Remove(req) {
		t.Fatalf("remove of non-member succeeded")
	}
	r.Add(req)
	if !r.Remove(req) {
		t.Fatalf("remove of member failed")
	}
	if r.Remove(req) {
		t.Fatalf("second remove succeeded")
	}
	if r.Count() != 0 {
		t.Fatalf("count = %d after removal", r.Count())
	}
}

func TestHooksFireAfterMutation(t *testing.T) {
	r := New[*stubRequest]("test")
	req := newStub("a", StateActive)

	adds, removes := 0, 0
	r.OnAdd(func(got *stubRequest) {
		adds++
		if got != req {
			t.Fatalf("OnAdd got %v", got)
		}
		if !r.Contains(req) {
			t.Fatalf("OnAdd fired before insertion")
		}
	})
	r.OnRemove(func(got *stubRequest) {
		removes++
		if r.Contains(req) {
			t.Fatalf("OnRemove fired before removal")
		}
	})

	r.Add(req)
	r.Add(req) // duplicate: hook must not re-fire
	r.Remove(req)
	r.Remove(req)

	if adds != 1 || removes != 1 {
		t.Fatalf("adds=%d removes=%d, want 1/1", adds, removes)
	}
}

func TestHookSubscribersRunInOrder(t *testing.T) {
	r := New[*stubRequest]("test")
	var order []string
	r.OnAdd(func(*stubRequest) { order = append(order, "first") })
	r.OnAdd(func(*stubRequest) { order = append(order, "second") })
	r.Add(newStub("a", StateActive))
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("hook order = %v", order)
	}
}

func TestStateCounts(t *testing.T) {
	r := New[*stubRequest]("test")
	r.Add(newStub("a", StateActive))
	r.Add(newStub("b", StateUpdating))
	r.Add(newStub("c", StatePaused))
	r.Add(newStub("d", StateWaitingAuthorization))

	if got := r.Count(); got != 4 {
		t.Fatalf("Count = %d", got)
	}
	if got := r.CountRunning(); got != 2 {
		t.Fatalf("CountRunning = %d", got)
	}
	if got := r.CountPaused(); got != 1 {
		t.Fatalf("CountPaused = %d", got)
	}
	// waiting-authorization counts in neither classification
	if r.CountRunning()+r.CountPaused() >= r.Count() {
		t.Fatalf("running+paused should be < total with a waiting member")
	}
}

func TestCountsTrackLiveState(t *testing.T) {
	r := New[*stubRequest]("test")
	req := newStub("a", StateActive)
	r.Add(req)
	if r.CountRunning() != 1 || r.CountPaused() != 0 {
		t.Fatalf("initial counts wrong")
	}
	req.SetState(StatePaused)
	if r.CountRunning() != 0 || r.CountPaused() != 1 {
		t.Fatalf("counts not recomputed from live state")
	}
}

func TestHasBackgroundRequests(t *testing.T) {
	r := New[*stubRequest]("test")
	if r.HasBackgroundRequests() {
		t.Fatalf("empty registry reports background requests")
	}
	r.Add(newStub("a", StateActive))
	if r.HasBackgroundRequests() {
		t.Fatalf("foreground-only registry reports background requests")
	}
	bg := newStub("b", StatePaused)
	bg.background = true
	r.Add(bg)
	if !r.HasBackgroundRequests() {
		t.Fatalf("background member not reported")
	}
}

func TestSetStateBulkTransition(t *testing.T) {
	r := New[*stubRequest]("test")
	a := newStub("a", StateActive)
	b := newStub("b", StateUpdating)
	c := newStub("c", StateWaitingAuthorization)
	r.Add(a)
	r.Add(b)
	r.Add(c)

	r.SetState(StatePaused, RunningStates...)

	if a.state != StatePaused || b.state != StatePaused {
		t.Fatalf("running members not paused: a=%s b=%s", a.state, b.state)
	}
	if c.state != StateWaitingAuthorization {
		t.Fatalf("waiting member touched: %s", c.state)
	}
}

func TestResumeWaitingAuthorization(t *testing.T) {
	r := New[*stubRequest]("test")
	waiting := newStub("a", StateWaitingAuthorization)
	running := newStub("b", StateActive)
	paused := newStub("c", StatePaused)
	r.Add(waiting)
	r.Add(running)
	r.Add(paused)

	r.ResumeWaitingAuthorization()

	if waiting.resumes != 1 {
		t.Fatalf("waiting member resumed %d times", waiting.resumes)
	}
	if waiting.state != StateActive {
		t.Fatalf("waiting member state = %s", waiting.state)
	}
	if running.resumes != 0 || paused.resumes != 0 {
		t.Fatalf("non-waiting members resumed: %d/%d", running.resumes, paused.resumes)
	}
}

func TestRequiredAuthorizationMinimumReduction(t *testing.T) {
	r := New[*stubRequest]("test")
	if got := r.RequiredAuthorization(); got != types.AuthorizationNone {
		t.Fatalf("empty registry required auth = %s", got)
	}

	low := newStub("low", StateActive)
	low.auth = types.AuthorizationWhenInUse
	high := newStub("high", StateActive)
	high.auth = types.AuthorizationAlways
	r.Add(low)
	r.Add(high)

	if got := r.RequiredAuthorization(); got != types.AuthorizationWhenInUse {
		t.Fatalf("RequiredAuthorization = %s, want when-in-use", got)
	}
	if got := r.MaxRequiredAuthorization(); got != types.AuthorizationAlways {
		t.Fatalf("MaxRequiredAuthorization = %s, want always", got)
	}
}

func TestForEachWherePredicate(t *testing.T) {
	r := New[*stubRequest]("test")
	bg := newStub("bg", StateActive)
	bg.background = true
	r.Add(bg)
	r.Add(newStub("fg", StateActive))

	var seen []string
	r.ForEachWhere(func(req *stubRequest) bool { return req.background }, func(req *stubRequest) {
		seen = append(seen, req.id)
	})
	if len(seen) != 1 || seen[0] != "bg" {
		t.Fatalf("seen = %v", seen)
	}

	// empty result is fine
	r.ForEachWhere(func(*stubRequest) bool { return false }, func(*stubRequest) {
		t.Fatalf("action invoked with no matches")
	})
}

func TestForEachAllowsRemovalDuringIteration(t *testing.T) {
	r := New[*stubRequest]("test")
	a := newStub("a", StateActive)
	b := newStub("b", StateActive)
	r.Add(a)
	r.Add(b)

	visited := 0
	r.ForEachInStates(RunningStates, func(req *stubRequest) {
		visited++
		r.Remove(req) // self-removal must not corrupt the walk
	})
	if visited != 2 {
		t.Fatalf("visited %d members, want 2", visited)
	}
	if r.Count() != 0 {
		t.Fatalf("count = %d after self-removal", r.Count())
	}
}

func TestDescribe(t *testing.T) {
	r := New[*stubRequest]("location")
	r.Add(newStub("a", StateActive))
	r.Add(newStub("b", StatePaused))
	desc := r.Describe()
	for _, want := range []string{"location", "2 requests", "1 running", "1 paused"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("Describe() = %q, missing %q", desc, want)
		}
	}
}
