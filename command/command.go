package command

import "context"

// Command is a named, reversible unit of work against a target of type C.
// Execute applies the command's effect; Undo reverses it. Implementations
// are expected to capture whatever they need during Execute to make Undo
// possible (previous values, created ids, and so on).
type Command[C any] interface {
	// Name identifies the command in logs and tooling.
	Name() string
	// Execute applies the command's effect to target.
	Execute(ctx context.Context, target C) error
	// Undo reverses the effect of the most recent Execute.
	Undo(ctx context.Context, target C) error
}

// Func is a generic adapter that exposes a pair of plain Go functions as a
// Command. Useful for small commands that keep their undo data in closure
// variables.
type Func[C any] struct {
	name    string
	execute func(ctx context.Context, target C) error
	undo    func(ctx context.Context, target C) error
}

// NewFunc constructs a Func command from explicit forward and reverse
// actions. A nil reverse action makes Undo a no-op.
func NewFunc[C any](name string, execute, undo func(ctx context.Context, target C) error) *Func[C] {
	return &Func[C]{name: name, execute: execute, undo: undo}
}

// Name returns the command name.
func (f *Func[C]) Name() string { return f.name }

// Execute invokes the forward action.
func (f *Func[C]) Execute(ctx context.Context, target C) error {
	if f.execute == nil {
		return nil
	}
	return f.execute(ctx, target)
}

// Undo invokes the reverse action.
func (f *Func[C]) Undo(ctx context.Context, target C) error {
	if f.undo == nil {
		return nil
	}
	return f.undo(ctx, target)
}
