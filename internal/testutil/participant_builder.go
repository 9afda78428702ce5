package testutil

import (
	"context"

	"github.com/hupe1980/gamekit/initiator"
)

// StubParticipant is a scripted initiator participant that records its init
// and run phases into a Journal.
type StubParticipant struct {
	tag     *initiator.Tag
	journal *Journal
	initErr error
	runErr  error
}

// Tag implements initiator.Participant.
func (p *StubParticipant) Tag() *initiator.Tag { return p.tag }

// Init implements initiator.Participant.
func (p *StubParticipant) Init(context.Context) error {
	if p.journal != nil {
		p.journal.Record("init:" + p.tag.Name())
	}
	return p.initErr
}

// Run implements initiator.Participant.
func (p *StubParticipant) Run(context.Context) error {
	if p.journal != nil {
		p.journal.Record("run:" + p.tag.Name())
	}
	return p.runErr
}

// ParticipantBuilder provides a fluent helper for constructing scripted
// participants in tests. Example:
//
//	p := NewParticipantBuilder(tag).Journal(j).FailInit(err).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ParticipantBuilder struct {
	p StubParticipant
}

// NewParticipantBuilder creates a builder for a participant under tag.
func NewParticipantBuilder(tag *initiator.Tag) *ParticipantBuilder {
	return &ParticipantBuilder{p: StubParticipant{tag: tag}}
}

// Journal sets the journal phase calls are recorded into (chainable).
func (b *ParticipantBuilder) Journal(j *Journal) *ParticipantBuilder {
	b.p.journal = j
	return b
}

// FailInit makes the init phase return err (chainable).
func (b *ParticipantBuilder) FailInit(err error) *ParticipantBuilder {
	b.p.initErr = err
	return b
}

// FailRun makes the run phase return err (chainable).
func (b *ParticipantBuilder) FailRun(err error) *ParticipantBuilder {
	b.p.runErr = err
	return b
}

// Build returns the scripted participant.
func (b *ParticipantBuilder) Build() *StubParticipant {
	p := b.p
	return &p
}
