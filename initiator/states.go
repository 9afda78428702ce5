package initiator

import "github.com/hupe1980/gamekit/fsm"

// launchFunc is the payload handed to the initializing state: it verifies
// readiness and, if ready, drives both startup phases.
type launchFunc func()

// nonInitialized is the resting state: registrations are being collected and
// each new one re-arms an initialization attempt.
type nonInitialized struct {
	fsm.BaseState
}

// initializing is the transient state entered for one initialization
// attempt. Its enter hook runs the launch closure delivered as payload; the
// closure itself decides whether to fall back to nonInitialized (not ready)
// or advance to initialized.
type initializing struct {
	fsm.BaseState
	launch launchFunc
}

// SetPayload stores the launch closure for the upcoming attempt.
func (s *initializing) SetPayload(fn launchFunc) { s.launch = fn }

// OnEnter runs the pending launch closure.
func (s *initializing) OnEnter() {
	if s.launch == nil {
		return
	}
	fn := s.launch
	s.launch = nil
	fn()
}

// initialized is the terminal state of a successful pass.
type initialized struct {
	fsm.BaseState
}
