// Package command implements a serialized executor for reversible units of
// work. Commands are parameterized over a caller-supplied context value (the
// game document, world, or editor model they mutate) and record whatever
// internal data they need to reverse their own effect.
//
// The executor runs at most one operation at a time: a busy guard rejects
// overlapping execute/undo calls instead of queueing them. Executed commands
// are retained in a bounded history, oldest-first evicted, for undo support.
package command
