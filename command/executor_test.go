package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doc is the shared target commands mutate in these tests.
type doc struct {
	log []string
}

func step(name string, execErr, undoErr error) Command[*doc] {
	return NewFunc(name,
		func(_ context.Context, d *doc) error {
			d.log = append(d.log, "exec:"+name)
			return execErr
		},
		func(_ context.Context, d *doc) error {
			d.log = append(d.log, "undo:"+name)
			return undoErr
		},
	)
}

func TestExecutor_ExecutePushesHistory(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}

	require.NoError(t, e.Execute(context.Background(), step("a", nil, nil), d))

	assert.Equal(t, []string{"exec:a"}, d.log)
	assert.Equal(t, 1, e.HistoryLen())
	assert.False(t, e.IsBusy())
}

func TestExecutor_ExecuteWithoutHistory(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}

	require.NoError(t, e.Execute(context.Background(), step("a", nil, nil), d, WithoutHistory()))

	assert.Equal(t, []string{"exec:a"}, d.log)
	assert.Zero(t, e.HistoryLen())
}

func TestExecutor_ExecuteFailureNotRetained(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}
	boom := errors.New("boom")

	err := e.Execute(context.Background(), step("a", boom, nil), d)

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, e.HistoryLen(), "failed commands are not retained")
	assert.False(t, e.IsBusy(), "busy is cleared unconditionally")
}

// reentrant is a command that calls back into its executor mid-flight.
type reentrant struct {
	exec *Executor[*doc]
	got  error
}

func (r *reentrant) Name() string { return "reentrant" }

func (r *reentrant) Execute(ctx context.Context, d *doc) error {
	r.got = r.exec.Execute(ctx, step("nested", nil, nil), d)
	return nil
}

func (r *reentrant) Undo(context.Context, *doc) error { return nil }

func TestExecutor_BusyRejectsOverlap(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}

	cmd := &reentrant{exec: e}
	require.NoError(t, e.Execute(context.Background(), cmd, d))

	assert.ErrorIs(t, cmd.got, ErrBusy)
	assert.Empty(t, d.log, "the overlapping command must not run")
	assert.Equal(t, 1, e.HistoryLen(), "only the outer command is retained")
	assert.False(t, e.IsBusy())
}

func TestExecutor_UndoEmptyHistory(t *testing.T) {
	e := NewExecutor[*doc]()

	res, err := e.Undo(context.Background(), &doc{})

	require.NoError(t, err)
	assert.Equal(t, UndoNothing, res)
	assert.Equal(t, "nothing_to_undo", res.String())
}

func TestExecutor_UndoReversesMostRecent(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}
	ctx := context.Background()

	require.NoError(t, e.Execute(ctx, step("a", nil, nil), d))
	require.NoError(t, e.Execute(ctx, step("b", nil, nil), d))

	res, err := e.Undo(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, Undone, res)
	assert.Equal(t, []string{"exec:a", "exec:b", "undo:b"}, d.log)
	assert.Equal(t, 1, e.HistoryLen())
}

func TestExecutor_UndoAllDrainsInReverseOrder(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, e.Execute(ctx, step(name, nil, nil), d))
	}

	n, err := e.UndoAll(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"exec:a", "exec:b", "exec:c", "undo:c", "undo:b", "undo:a"}, d.log)
	assert.Zero(t, e.HistoryLen())
}

func TestExecutor_ClearHistorySkipsReverseActions(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}
	ctx := context.Background()

	require.NoError(t, e.Execute(ctx, step("a", nil, nil), d))
	require.NoError(t, e.ClearHistory())

	assert.Zero(t, e.HistoryLen())
	assert.Equal(t, []string{"exec:a"}, d.log, "clearing must not invoke reverse actions")
}

func TestExecutor_HistoryCapEvictsOldest(t *testing.T) {
	e := NewExecutor[*doc](func(o *Options) { o.UndoLimit = 3 })
	d := &doc{}
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, e.Execute(ctx, step(fmt.Sprintf("c%d", i), nil, nil), d))
	}
	require.Equal(t, 3, e.HistoryLen())

	d.log = nil
	_, err := e.UndoAll(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"undo:c5", "undo:c4", "undo:c3"}, d.log, "only the newest N survive eviction")
}

func TestExecutor_SetUndoLimitTrimsImmediately(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, e.Execute(ctx, step(name, nil, nil), d))
	}

	e.SetUndoLimit(2)
	assert.Equal(t, 2, e.HistoryLen())
	assert.Equal(t, 2, e.UndoLimit())

	d.log = nil
	_, err := e.UndoAll(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"undo:d", "undo:c"}, d.log, "the most recent entries are kept")
}

func TestExecutor_ZeroLimitDisablesRetention(t *testing.T) {
	e := NewExecutor[*doc](func(o *Options) { o.UndoLimit = 0 })
	d := &doc{}
	ctx := context.Background()

	require.NoError(t, e.Execute(ctx, step("a", nil, nil), d))

	assert.Equal(t, []string{"exec:a"}, d.log, "commands still execute")
	assert.Zero(t, e.HistoryLen(), "but are never stored")
}

func TestExecutor_UndoFailurePropagates(t *testing.T) {
	e := NewExecutor[*doc]()
	d := &doc{}
	ctx := context.Background()
	boom := errors.New("boom")

	require.NoError(t, e.Execute(ctx, step("a", nil, boom), d))

	res, err := e.Undo(ctx, d)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, UndoNothing, res)
	assert.False(t, e.IsBusy())
}
