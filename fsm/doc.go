// Package fsm provides a small per-owner finite state machine. A machine
// owns an arena of state instances keyed by their concrete type (one instance
// per type, created once and reused), plus a single current-state reference
// that starts empty.
//
// The machine is deliberately not a transition graph: any registered state
// may become current at any time, and validating whether a transition makes
// sense is the caller's concern. Owners drive time by forwarding Tick and
// FixedTick once per logical or physics frame; the machine does no scheduling
// of its own.
package fsm
