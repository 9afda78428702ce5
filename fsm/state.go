package fsm

// State is the minimal contract for a unit of behavior managed by a Machine.
// OnEnter runs when the state becomes current, OnExit when it stops being
// current. Implementations that need no hook body may leave it empty.
type State interface {
	OnEnter()
	OnExit()
}

// Attachable is implemented by states that want back-references to their
// owner and machine. Attach is called exactly once, when the state is
// registered; both references are immutable afterwards.
type Attachable interface {
	Attach(owner any, m *Machine)
}

// Ticker is implemented by states that want per-logical-frame updates.
type Ticker interface {
	Tick(deltaTime float64)
}

// FixedTicker is implemented by states that want per-physics-step updates.
type FixedTicker interface {
	FixedTick(fixedDeltaTime float64)
}

// PayloadReceiver is implemented by states that accept a payload at
// transition time. SetPayload runs before OnEnter, so enter logic may rely
// on the just-delivered value.
type PayloadReceiver[P any] interface {
	State
	SetPayload(P)
}

// BaseState is a convenience embed providing no-op hooks and Attach storage.
// States embedding it only override the hooks they care about.
type BaseState struct {
	owner   any
	machine *Machine
}

// Attach stores the owner and machine back-references.
func (b *BaseState) Attach(owner any, m *Machine) {
	b.owner = owner
	b.machine = m
}

// Owner returns the owning object injected at registration.
func (b *BaseState) Owner() any { return b.owner }

// Machine returns the machine this state is registered with.
func (b *BaseState) Machine() *Machine { return b.machine }

// OnEnter is a no-op.
func (b *BaseState) OnEnter() {}

// OnExit is a no-op.
func (b *BaseState) OnExit() {}
