package initiator

import (
	"context"
	"errors"

	"github.com/hupe1980/gamekit/event"
	"github.com/hupe1980/gamekit/fsm"
	"github.com/hupe1980/gamekit/logging"
)

// Options holds dependency + configuration overrides passed to NewManager().
type Options struct {
	// Logger receives registration diagnostics and per-participant phase
	// failures.
	Logger logging.Logger
	// Context is the lifecycle context passed to participant Init/Run
	// phases. Defaults to context.Background().
	Context context.Context
}

// Manager accumulates participants announced on the bus and, once every
// required tag is filled, runs init phases then run phases in declared
// order, exactly once per successful pass.
//
// Manager is driven entirely by bus delivery and is meant for the same
// cooperative, single-threaded host as the rest of the kit.
type Manager struct {
	logger     logging.Logger
	ctx        context.Context
	bus        *event.Bus
	required   []*Tag
	registered map[*Tag]Participant
	machine    *fsm.Machine
	subs       []*event.Subscription
}

// NewManager constructs a manager bound to bus, waiting for the given
// required tags in declared order. The required list is copied and never
// mutated afterwards. The manager subscribes itself for registration and
// withdrawal events; call Close to detach it.
func NewManager(bus *event.Bus, required []*Tag, optFns ...func(o *Options)) (*Manager, error) {
	if bus == nil {
		return nil, errors.New("initiator: nil bus")
	}

	opts := Options{
		Logger:  logging.NoOpLogger{},
		Context: context.Background(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Manager{
		logger:     opts.Logger,
		ctx:        opts.Context,
		bus:        bus,
		required:   append([]*Tag(nil), required...),
		registered: make(map[*Tag]Participant),
	}

	m.machine = fsm.New(m)
	m.machine.Add(&nonInitialized{})
	m.machine.Add(&initializing{})
	m.machine.Add(&initialized{})
	fsm.Change[*nonInitialized](m.machine)

	regSub, err := event.Subscribe(bus, m.onRegistered)
	if err != nil {
		return nil, err
	}
	wdSub, err := event.Subscribe(bus, m.onWithdrawn)
	if err != nil {
		return nil, err
	}
	m.subs = append(m.subs, regSub, wdSub)

	return m, nil
}

// Close detaches the manager from the bus. Registered participants are kept;
// no phases are triggered afterwards.
func (m *Manager) Close() {
	for _, sub := range m.subs {
		_ = m.bus.Unsubscribe(sub)
	}
	m.subs = nil
}

// Initialized reports whether a startup pass has completed.
func (m *Manager) Initialized() bool {
	return fsm.Is[*initialized](m.machine)
}

// RegisteredCount returns the number of currently registered participants.
func (m *Manager) RegisteredCount() int {
	return len(m.registered)
}

func (m *Manager) isRequired(tag *Tag) bool {
	for _, t := range m.required {
		if t == tag {
			return true
		}
	}
	return false
}

func (m *Manager) onRegistered(ev Registered) error {
	p := ev.Participant
	if p == nil {
		m.logger.Warn("initiator: registration without participant; ignoring")
		return nil
	}

	tag := p.Tag()
	switch {
	case tag == nil:
		m.logger.Warn("initiator: participant %T has no tag; ignoring", p)
		return nil
	case !m.isRequired(tag):
		m.logger.Warn("initiator: tag %s is not part of the startup order; ignoring", tag)
		return nil
	}
	if existing, ok := m.registered[tag]; ok && existing != p {
		m.logger.Warn("initiator: tag %s already registered by another participant; ignoring", tag)
		return nil
	}

	m.registered[tag] = p
	m.logger.Debug("initiator: registered tag=%s participants=%d/%d", tag, len(m.registered), len(m.required))

	if fsm.Is[*nonInitialized](m.machine) {
		m.attemptInitialization()
	}
	return nil
}

func (m *Manager) onWithdrawn(ev Withdrawn) error {
	p := ev.Participant
	if p == nil || p.Tag() == nil {
		return nil
	}

	tag := p.Tag()
	if existing, ok := m.registered[tag]; ok && existing == p {
		delete(m.registered, tag)
		m.logger.Debug("initiator: withdrew tag=%s", tag)
	}
	return nil
}

// attemptInitialization moves the machine into initializing with a launch
// closure as payload. The closure re-checks readiness itself: registrations
// always race conceptually with launch, so the check belongs to the attempt,
// not the caller.
func (m *Manager) attemptInitialization() {
	launch := func() {
		if !m.ready() {
			m.logger.Debug("initiator: not all required participants registered; waiting")
			fsm.Change[*nonInitialized](m.machine)
			return
		}

		m.runPhases()
		fsm.Change[*initialized](m.machine)
	}

	if _, err := fsm.ChangeWith[*initializing](m.machine, launchFunc(launch)); err != nil {
		m.logger.Error("initiator: initialization attempt failed: %v", err)
		fsm.Change[*nonInitialized](m.machine)
	}
}

// ready reports whether every required tag has a registered participant. An
// empty required list is trivially ready. Nil tags in the required list are
// logged and skipped.
func (m *Manager) ready() bool {
	for _, tag := range m.required {
		if tag == nil {
			m.logger.Warn("initiator: nil tag in startup order; skipping")
			continue
		}
		if _, ok := m.registered[tag]; !ok {
			return false
		}
	}
	return true
}

// runPhases walks the declared order once to build the participant sequence,
// then awaits every init phase and afterwards every run phase. A participant
// whose phase fails is logged and skipped so the rest of the sequence still
// starts.
func (m *Manager) runPhases() {
	sequence := make([]Participant, 0, len(m.required))
	for _, tag := range m.required {
		if tag == nil {
			continue
		}
		p, ok := m.registered[tag]
		if !ok {
			// Should not happen right after a readiness check; a withdrawal
			// event may have fired in between.
			m.logger.Error("initiator: participant for tag %s vanished before launch; skipping", tag)
			continue
		}
		sequence = append(sequence, p)
	}

	for _, p := range sequence {
		if err := p.Init(m.ctx); err != nil {
			m.logger.Error("initiator: init phase failed tag=%s err=%v", p.Tag(), err)
		}
	}
	for _, p := range sequence {
		if err := p.Run(m.ctx); err != nil {
			m.logger.Error("initiator: run phase failed tag=%s err=%v", p.Tag(), err)
		}
	}
}
