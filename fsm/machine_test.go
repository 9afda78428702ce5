package fsm

import "testing"

type hero struct {
	name string
}

type trace struct {
	steps []string
}

func (tr *trace) add(s string) { tr.steps = append(tr.steps, s) }

type idleState struct {
	BaseState
	trace *trace
}

func (s *idleState) OnEnter() { s.trace.add("enter:idle") }
func (s *idleState) OnExit()  { s.trace.add("exit:idle") }

type runState struct {
	BaseState
	trace  *trace
	ticked float64
	fixed  float64
}

func (s *runState) OnEnter()              { s.trace.add("enter:run") }
func (s *runState) OnExit()               { s.trace.add("exit:run") }
func (s *runState) Tick(dt float64)       { s.ticked += dt }
func (s *runState) FixedTick(fdt float64) { s.fixed += fdt }

type attackState struct {
	BaseState
	trace   *trace
	target  string
	entered string
}

func (s *attackState) OnEnter()            { s.entered = s.target; s.trace.add("enter:attack") }
func (s *attackState) OnExit()             { s.trace.add("exit:attack") }
func (s *attackState) SetPayload(t string) { s.target = t }

func newTestMachine() (*Machine, *trace, *hero) {
	owner := &hero{name: "kara"}
	tr := &trace{}
	m := New(owner)
	m.Add(&idleState{trace: tr})
	m.Add(&runState{trace: tr})
	m.Add(&attackState{trace: tr})
	return m, tr, owner
}

func TestMachine_AddBindsOwnerAndMachine(t *testing.T) {
	m, _, owner := newTestMachine()

	idle := m.states[m.index[typeOf[*idleState]()]].(*idleState)
	if idle.Owner() != owner {
		t.Fatalf("expected owner back-reference to be injected, got %v", idle.Owner())
	}
	if idle.Machine() != m {
		t.Fatal("expected machine back-reference to be injected")
	}
}

func TestMachine_InitialStateIsEmpty(t *testing.T) {
	m, _, _ := newTestMachine()

	if m.Current() != nil {
		t.Fatalf("expected empty current state, got %v", m.Current())
	}
	if Is[*idleState](m) {
		t.Fatal("no state should be current before the first transition")
	}
	if !Has[*idleState](m) || !Has[*runState](m) {
		t.Fatal("registered states should be reported by Has")
	}
}

func TestMachine_ChangeRunsHooksAndNotifies(t *testing.T) {
	m, tr, _ := newTestMachine()

	var notified []string
	m.OnTransition(func(prev, next State) {
		notified = append(notified, stateName(prev)+"->"+stateName(next))
	})

	if !Change[*idleState](m) {
		t.Fatal("first transition should report a change")
	}
	if !Is[*idleState](m) {
		t.Fatal("idle should be current")
	}
	if len(notified) != 1 || notified[0] != "<none>->*fsm.idleState" {
		t.Fatalf("unexpected notifications: %v", notified)
	}

	if !Change[*runState](m) {
		t.Fatal("second transition should report a change")
	}

	want := []string{"enter:idle", "exit:idle", "enter:run"}
	if len(tr.steps) != len(want) {
		t.Fatalf("unexpected hook trace: %v", tr.steps)
	}
	for i := range want {
		if tr.steps[i] != want[i] {
			t.Fatalf("hook order mismatch at %d: %v", i, tr.steps)
		}
	}
}

func TestMachine_ChangeToCurrentIsNoOp(t *testing.T) {
	m, tr, _ := newTestMachine()
	Change[*idleState](m)

	tr.steps = nil
	notified := 0
	m.OnTransition(func(State, State) { notified++ })

	if Change[*idleState](m) {
		t.Fatal("transition to the current state must be a no-op")
	}
	if len(tr.steps) != 0 {
		t.Fatalf("no hooks should fire, got %v", tr.steps)
	}
	if notified != 0 {
		t.Fatal("no notification should be raised")
	}
}

func TestMachine_ChangeToUnregisteredIsNoOp(t *testing.T) {
	type ghostState struct{ BaseState }

	m, _, _ := newTestMachine()
	Change[*idleState](m)

	if Change[*ghostState](m) {
		t.Fatal("transition to an unregistered state must be a no-op")
	}
	if !Is[*idleState](m) {
		t.Fatal("current state must be unchanged")
	}
}

func TestMachine_ChangeWithDeliversPayloadBeforeEnter(t *testing.T) {
	m, _, _ := newTestMachine()

	changed, err := ChangeWith[*attackState](m, "dragon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("expected a transition")
	}

	attack := m.Current().(*attackState)
	if attack.entered != "dragon" {
		t.Fatalf("payload must be visible inside OnEnter, got %q", attack.entered)
	}
}

func TestMachine_ChangeWithWrongPayloadType(t *testing.T) {
	m, _, _ := newTestMachine()

	if _, err := ChangeWith[*idleState](m, 42); err == nil {
		t.Fatal("expected an error for a state without a payload receiver")
	}
	if m.Current() != nil {
		t.Fatal("failed payload delivery must not transition")
	}
}

func TestMachine_RemoveCurrentClearsState(t *testing.T) {
	m, tr, _ := newTestMachine()
	Change[*runState](m)

	var gotPrev, gotNext State
	seen := false
	m.OnTransition(func(prev, next State) { gotPrev, gotNext, seen = prev, next, true })

	tr.steps = nil
	Remove[*runState](m)

	if m.Current() != nil {
		t.Fatal("removing the current state must leave the machine empty")
	}
	if Has[*runState](m) {
		t.Fatal("run state should be unregistered")
	}
	if len(tr.steps) != 1 || tr.steps[0] != "exit:run" {
		t.Fatalf("expected only the exit hook, got %v", tr.steps)
	}
	if !seen || gotPrev == nil || gotNext != nil {
		t.Fatalf("expected (prev, nil) notification, got (%v, %v)", gotPrev, gotNext)
	}

	// No auto-selected replacement: a later Change is still possible.
	if !Change[*idleState](m) {
		t.Fatal("machine should accept a new transition after removal")
	}
}

func TestMachine_RemoveNonCurrent(t *testing.T) {
	m, tr, _ := newTestMachine()
	Change[*idleState](m)

	tr.steps = nil
	Remove[*runState](m)

	if len(tr.steps) != 0 {
		t.Fatalf("removing a non-current state must not fire hooks, got %v", tr.steps)
	}
	if !Is[*idleState](m) {
		t.Fatal("current state must be unchanged")
	}
}

func TestMachine_TickForwardsToCurrentOnly(t *testing.T) {
	m, _, _ := newTestMachine()

	// Empty machine: forwarding is a no-op.
	m.Tick(0.16)
	m.FixedTick(0.02)

	Change[*idleState](m)
	m.Tick(0.16) // idle has no Tick hook; must not panic

	Change[*runState](m)
	m.Tick(0.16)
	m.Tick(0.16)
	m.FixedTick(0.02)

	run := m.Current().(*runState)
	if run.ticked != 0.32 {
		t.Fatalf("expected accumulated tick 0.32, got %v", run.ticked)
	}
	if run.fixed != 0.02 {
		t.Fatalf("expected accumulated fixed tick 0.02, got %v", run.fixed)
	}
}

func TestMachine_AddOverwritesSameType(t *testing.T) {
	m, tr, _ := newTestMachine()

	replacement := &idleState{trace: tr}
	m.Add(replacement)

	Change[*idleState](m)
	if m.Current() != State(replacement) {
		t.Fatal("re-adding a state type must overwrite the prior registration")
	}
	if len(m.states) != 3 {
		t.Fatalf("overwrite must reuse the arena slot, arena len %d", len(m.states))
	}
}
