package fsm

import (
	"fmt"
	"reflect"

	"github.com/hupe1980/gamekit/logging"
)

// TransitionFunc observes completed transitions. prev is nil on the very
// first transition; next is nil when the current state was removed.
type TransitionFunc func(prev, next State)

// Options holds configuration overrides passed to New().
type Options struct {
	// Logger receives debug records for every transition.
	Logger logging.Logger
}

// Machine manages exactly one current state among a registered set for one
// owner. States live in a registration-ordered arena; the current state is an
// index into that arena, so steady-state Tick forwarding performs no lookup.
//
// Machine is not safe for concurrent use; it is meant to be driven from the
// owner's update loop.
type Machine struct {
	owner     any
	logger    logging.Logger
	states    []State
	index     map[reflect.Type]int
	current   int // arena index, -1 when empty
	observers []TransitionFunc
}

// New constructs an empty machine for the given owner.
func New(owner any, optFns ...func(o *Options)) *Machine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Machine{
		owner:   owner,
		logger:  opts.Logger,
		index:   make(map[reflect.Type]int),
		current: -1,
	}
}

// Owner returns the object this machine manages states for.
func (m *Machine) Owner() any { return m.owner }

// Add registers a state instance, binding it to the machine and its owner.
// Registering a second instance of the same concrete type overwrites the
// prior registration; its arena slot is reused.
func (m *Machine) Add(s State) {
	if s == nil {
		return
	}
	if a, ok := s.(Attachable); ok {
		a.Attach(m.owner, m)
	}

	key := reflect.TypeOf(s)
	if i, ok := m.index[key]; ok {
		m.states[i] = s
		return
	}
	m.index[key] = len(m.states)
	m.states = append(m.states, s)
}

// OnTransition registers an observer invoked after every completed
// transition, in registration order.
func (m *Machine) OnTransition(fn TransitionFunc) {
	if fn == nil {
		return
	}
	m.observers = append(m.observers, fn)
}

// Current returns the current state, or nil when empty.
func (m *Machine) Current() State {
	if m.current < 0 {
		return nil
	}
	return m.states[m.current]
}

// Tick forwards a logical-frame update to the current state, if any.
func (m *Machine) Tick(deltaTime float64) {
	if m.current < 0 {
		return
	}
	if t, ok := m.states[m.current].(Ticker); ok {
		t.Tick(deltaTime)
	}
}

// FixedTick forwards a physics-step update to the current state, if any.
func (m *Machine) FixedTick(fixedDeltaTime float64) {
	if m.current < 0 {
		return
	}
	if t, ok := m.states[m.current].(FixedTicker); ok {
		t.FixedTick(fixedDeltaTime)
	}
}

func (m *Machine) notify(prev, next State) {
	for _, fn := range m.observers {
		fn(prev, next)
	}
}

func stateName(s State) string {
	if s == nil {
		return "<none>"
	}
	return reflect.TypeOf(s).String()
}

// changeTo performs the transition to the state at arena index i.
func (m *Machine) changeTo(i int) {
	var prev State
	if m.current >= 0 {
		prev = m.states[m.current]
		prev.OnExit()
	}
	m.current = i
	next := m.states[i]
	next.OnEnter()

	m.logger.Debug("fsm transition owner=%T from=%s to=%s", m.owner, stateName(prev), stateName(next))
	m.notify(prev, next)
}

// typeOf resolves the registration key for state type S.
func typeOf[S State]() reflect.Type {
	return reflect.TypeOf((*S)(nil)).Elem()
}

// lookup returns the arena index for type S, or -1 when unregistered.
func lookup[S State](m *Machine) int {
	key := typeOf[S]()
	if key.Kind() == reflect.Interface {
		// S constrained to a concrete pointer type resolves directly; an
		// interface type parameter cannot address a single arena slot.
		return -1
	}
	if i, ok := m.index[key]; ok {
		return i
	}
	return -1
}

// Has reports whether a state of type S is registered.
func Has[S State](m *Machine) bool {
	return lookup[S](m) >= 0
}

// Is reports whether the current state is of type S.
func Is[S State](m *Machine) bool {
	i := lookup[S](m)
	return i >= 0 && i == m.current
}

// Change makes the registered state of type S current. It is a no-op when S
// is already current or not registered. Returns true when a transition
// happened.
func Change[S State](m *Machine) bool {
	i := lookup[S](m)
	if i < 0 || i == m.current {
		return false
	}
	m.changeTo(i)
	return true
}

// ChangeWith delivers payload to the registered state of type S, then makes
// it current. The payload is set before OnEnter runs. Unregistered S is a
// no-op; a state that does not accept P is an error. Like Change, switching
// to the already-current state is a no-op (the payload is still delivered).
func ChangeWith[S State, P any](m *Machine, payload P) (bool, error) {
	i := lookup[S](m)
	if i < 0 {
		return false, nil
	}

	r, ok := m.states[i].(PayloadReceiver[P])
	if !ok {
		return false, fmt.Errorf("fsm: state %s does not accept payload %T", stateName(m.states[i]), payload)
	}
	r.SetPayload(payload)

	if i == m.current {
		return false, nil
	}
	m.changeTo(i)
	return true, nil
}

// Remove drops the registration for type S. If S is current, its exit hook
// runs first and the machine is left with no current state; no replacement
// is auto-selected. Observers are notified with a nil next state in that
// case.
func Remove[S State](m *Machine) {
	key := typeOf[S]()
	i, ok := m.index[key]
	if !ok {
		return
	}

	if i == m.current {
		prev := m.states[i]
		prev.OnExit()
		m.current = -1
		m.notify(prev, nil)
	}

	// The arena slot is retired, not compacted, so other indices stay valid.
	m.states[i] = nil
	delete(m.index, key)
}
