// Package gamekit provides a high-level façade over the kit's gameplay
// architecture utilities: a type-keyed event bus, a per-owner finite state
// machine, a serialized command executor with bounded undo history, and the
// initiator startup pipeline. Most applications interact with this package
// by:
//  1. Creating a Kit via New() (optionally overriding the logger or bus)
//  2. Wiring the bus into whatever scene or session context owns it
//  3. Creating machines (fsm.New), executors (command.NewExecutor) and
//     startup managers (Kit.NewInitiator) against that shared context
//
// The façade only composes; each subsystem remains usable on its own. All
// defaults are safe for local development and testing; host engines
// typically supply a structured logger and drive the per-frame entry points
// themselves.
package gamekit

import (
	"context"

	"github.com/hupe1980/gamekit/event"
	"github.com/hupe1980/gamekit/initiator"
	"github.com/hupe1980/gamekit/logging"
)

// Options configures the Kit instance.
type Options struct {
	// Bus is the event bus shared by kit components. A fresh bus is created
	// when nil.
	Bus *event.Bus

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Context is the lifecycle context handed to initiator phases created
	// through NewInitiator. Defaults to context.Background().
	Context context.Context
}

// Kit aggregates the shared bus and logger for one scene or session. It is
// the composition root the redesigned bus asks for: components receive the
// bus by reference from here instead of through ambient global state.
type Kit struct {
	opts Options
	bus  *event.Bus
}

// New creates a new Kit instance with optional overrides.
func New(optFns ...func(o *Options)) *Kit {
	opts := Options{
		Logger:  logging.NoOpLogger{},
		Context: context.Background(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}

	return &Kit{opts: opts, bus: bus}
}

// Bus returns the kit's shared event bus.
func (k *Kit) Bus() *event.Bus { return k.bus }

// Logger returns the kit's logger.
func (k *Kit) Logger() logging.Logger { return k.opts.Logger }

// NewInitiator creates a startup manager on the kit's bus for the given
// required tags, wired with the kit's logger and lifecycle context.
func (k *Kit) NewInitiator(required []*initiator.Tag) (*initiator.Manager, error) {
	return initiator.NewManager(k.bus, required, func(o *initiator.Options) {
		o.Logger = k.opts.Logger
		o.Context = k.opts.Context
	})
}

// NewInitiatorFromManifest loads a startup manifest and creates a manager
// for its declared order. The manifest is returned so participants can
// resolve their tags by stage name.
func (k *Kit) NewInitiatorFromManifest(path string) (*initiator.Manager, *initiator.Manifest, error) {
	manifest, err := initiator.LoadManifestFile(path)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := initiator.NewManager(k.bus, manifest.Tags(), func(o *initiator.Options) {
		o.Logger = k.opts.Logger
		o.Context = k.opts.Context
	})
	if err != nil {
		return nil, nil, err
	}

	return mgr, manifest, nil
}
