package command

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/gamekit/logging"
)

// ErrBusy is returned when an execute/undo operation is attempted while
// another one is still in flight. Callers must serialize their calls.
var ErrBusy = errors.New("command: executor is busy")

// UndoResult reports the outcome of an Undo call.
type UndoResult int

const (
	// UndoNothing means the history was empty; no reverse action ran.
	UndoNothing UndoResult = iota
	// Undone means the most recent command was reversed.
	Undone
)

// String returns the string representation of the undo result.
func (r UndoResult) String() string {
	switch r {
	case Undone:
		return "undone"
	case UndoNothing:
		return "nothing_to_undo"
	default:
		return "unknown"
	}
}

// Options holds configuration overrides passed to NewExecutor().
type Options struct {
	// UndoLimit caps the retained history; zero disables retention.
	UndoLimit int
	// Logger receives per-operation records.
	Logger logging.Logger
}

// ExecOptions configures a single Execute call.
type ExecOptions struct {
	// SkipHistory executes the command without retaining it for undo.
	SkipHistory bool
}

// WithoutHistory executes the command without pushing it onto the history.
func WithoutHistory() func(o *ExecOptions) {
	return func(o *ExecOptions) { o.SkipHistory = true }
}

// Executor serializes execution and reversal of commands against targets of
// type C, retaining executed commands in a bounded history. At most one
// operation is in flight at a time; overlapping calls fail with ErrBusy. The
// busy guard is a compare-and-set, so the contract holds even if the host
// calls from multiple goroutines.
type Executor[C any] struct {
	busy    atomic.Bool
	history *History[C]
	logger  logging.Logger
}

// NewExecutor constructs an executor with optional overrides.
func NewExecutor[C any](optFns ...func(o *Options)) *Executor[C] {
	opts := Options{
		UndoLimit: DefaultUndoLimit,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Executor[C]{
		history: NewHistory[C](opts.UndoLimit),
		logger:  opts.Logger,
	}
}

// IsBusy reports whether an operation is currently in flight.
func (e *Executor[C]) IsBusy() bool { return e.busy.Load() }

// HistoryLen returns the number of commands retained for undo.
func (e *Executor[C]) HistoryLen() int { return e.history.Len() }

// UndoLimit returns the history cap.
func (e *Executor[C]) UndoLimit() int { return e.history.Limit() }

// SetUndoLimit changes the history cap, immediately evicting the oldest
// entries if the new cap is below the current count.
func (e *Executor[C]) SetUndoLimit(n int) { e.history.SetLimit(n) }

func (e *Executor[C]) acquire() bool {
	return e.busy.CompareAndSwap(false, true)
}

// Execute runs cmd against target. On success the command is pushed onto the
// history (unless WithoutHistory was given), possibly evicting the oldest
// entry. The busy guard is cleared unconditionally, including on failure.
func (e *Executor[C]) Execute(ctx context.Context, cmd Command[C], target C, optFns ...func(o *ExecOptions)) error {
	if cmd == nil {
		return errors.New("command: nil command")
	}

	execOpts := ExecOptions{}
	for _, fn := range optFns {
		fn(&execOpts)
	}

	if !e.acquire() {
		return ErrBusy
	}
	defer e.busy.Store(false)

	opID := uuid.NewString()
	start := time.Now()

	if err := cmd.Execute(ctx, target); err != nil {
		e.logger.Error("command execute failed op_id=%s command=%s err=%v", opID, cmd.Name(), err)
		return fmt.Errorf("command: execute %s: %w", cmd.Name(), err)
	}

	if !execOpts.SkipHistory {
		e.history.Push(cmd)
	}

	e.logger.Debug("command executed op_id=%s command=%s duration=%s history_len=%d",
		opID, cmd.Name(), time.Since(start), e.history.Len())

	return nil
}

// Undo reverses the most recently executed command. An empty history is not
// an error: Undo reports UndoNothing and the busy guard is released without
// any reverse action running.
func (e *Executor[C]) Undo(ctx context.Context, target C) (UndoResult, error) {
	if !e.acquire() {
		return UndoNothing, ErrBusy
	}
	defer e.busy.Store(false)

	cmd, ok := e.history.Pop()
	if !ok {
		return UndoNothing, nil
	}

	opID := uuid.NewString()
	if err := cmd.Undo(ctx, target); err != nil {
		e.logger.Error("command undo failed op_id=%s command=%s err=%v", opID, cmd.Name(), err)
		return UndoNothing, fmt.Errorf("command: undo %s: %w", cmd.Name(), err)
	}

	e.logger.Debug("command undone op_id=%s command=%s history_len=%d", opID, cmd.Name(), e.history.Len())

	return Undone, nil
}

// UndoAll reverses every retained command, most recent first, holding the
// busy guard across the whole drain. It returns the number of commands
// reversed; a failing reverse action stops the drain and is returned.
func (e *Executor[C]) UndoAll(ctx context.Context, target C) (int, error) {
	if !e.acquire() {
		return 0, ErrBusy
	}
	defer e.busy.Store(false)

	undone := 0
	for {
		cmd, ok := e.history.Pop()
		if !ok {
			return undone, nil
		}
		if err := cmd.Undo(ctx, target); err != nil {
			e.logger.Error("command undo-all aborted command=%s undone=%d err=%v", cmd.Name(), undone, err)
			return undone, fmt.Errorf("command: undo %s: %w", cmd.Name(), err)
		}
		undone++
	}
}

// ClearHistory discards all retained commands without reversing them.
func (e *Executor[C]) ClearHistory() error {
	if !e.acquire() {
		return ErrBusy
	}
	defer e.busy.Store(false)

	e.history.Clear()
	return nil
}
