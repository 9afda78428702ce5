package command

import (
	"context"
	"fmt"

	"github.com/hupe1980/gamekit/logging"
)

// CompositeOptions holds configuration overrides passed to NewComposite().
type CompositeOptions struct {
	// RollbackOnFailure reverses already-completed sub-commands when a later
	// one fails during Execute.
	RollbackOnFailure bool
	// Logger receives records for swallowed rollback failures.
	Logger logging.Logger
}

// WithRollbackOnFailure enables best-effort rollback of completed
// sub-commands when Execute fails partway through.
func WithRollbackOnFailure() func(o *CompositeOptions) {
	return func(o *CompositeOptions) { o.RollbackOnFailure = true }
}

// Composite groups an ordered list of sub-commands behind the Command
// contract. Execute runs them strictly in order and tracks how many
// completed; Undo reverses only that completed prefix, in reverse order, so
// sub-commands that never ran are never reversed.
type Composite[C any] struct {
	name     string
	commands []Command[C]
	rollback bool
	logger   logging.Logger

	// completed counts sub-commands that finished the last forward pass.
	completed int
}

// NewComposite constructs a composite command over the given sub-commands.
func NewComposite[C any](name string, commands []Command[C], optFns ...func(o *CompositeOptions)) *Composite[C] {
	opts := CompositeOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Composite[C]{
		name:     name,
		commands: commands,
		rollback: opts.RollbackOnFailure,
		logger:   opts.Logger,
	}
}

// Name returns the composite's name.
func (c *Composite[C]) Name() string { return c.name }

// Len returns the number of sub-commands.
func (c *Composite[C]) Len() int { return len(c.commands) }

// Execute runs the sub-commands in order. On a mid-sequence failure with
// rollback disabled the error propagates immediately, leaving completed
// sub-commands applied (and recorded, so Undo reverses exactly them). With
// rollback enabled the completed prefix is reversed in reverse order first;
// failures during that reversal pass are logged and swallowed, and the
// original failure is returned.
func (c *Composite[C]) Execute(ctx context.Context, target C) error {
	c.completed = 0

	for _, cmd := range c.commands {
		if err := cmd.Execute(ctx, target); err != nil {
			if c.rollback {
				c.rollbackCompleted(ctx, target)
			}
			return fmt.Errorf("composite %s: sub-command %s: %w", c.name, cmd.Name(), err)
		}
		c.completed++
	}

	return nil
}

func (c *Composite[C]) rollbackCompleted(ctx context.Context, target C) {
	for i := c.completed - 1; i >= 0; i-- {
		if err := c.commands[i].Undo(ctx, target); err != nil {
			c.logger.Warn("composite rollback failed composite=%s sub_command=%s err=%v",
				c.name, c.commands[i].Name(), err)
		}
	}
	c.completed = 0
}

// Undo reverses the sub-commands that completed during the last Execute, in
// reverse order. A failing reverse action stops the pass; the remaining
// completed prefix stays recorded so Undo can be retried.
func (c *Composite[C]) Undo(ctx context.Context, target C) error {
	for c.completed > 0 {
		cmd := c.commands[c.completed-1]
		if err := cmd.Undo(ctx, target); err != nil {
			return fmt.Errorf("composite %s: undo sub-command %s: %w", c.name, cmd.Name(), err)
		}
		c.completed--
	}
	return nil
}
