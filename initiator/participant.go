package initiator

import (
	"context"

	"github.com/hupe1980/gamekit/event"
)

// Participant is an entity taking part in ordered startup. It owns exactly
// one tag and exposes two lifecycle phases; both may suspend on ctx-aware
// work and each either completes or fails.
type Participant interface {
	// Tag returns the slot this participant registers under.
	Tag() *Tag
	// Init performs the participant's init phase.
	Init(ctx context.Context) error
	// Run performs the participant's run phase, after every participant's
	// init phase finished.
	Run(ctx context.Context) error
}

// Registered announces a participant becoming active.
type Registered struct {
	Participant Participant
}

// Withdrawn announces a participant becoming inactive.
type Withdrawn struct {
	Participant Participant
}

// Announce publishes a Registered event for p on the bus. Participants call
// this when they become active.
func Announce(b *event.Bus, p Participant) error {
	return event.Publish(b, Registered{Participant: p})
}

// Withdraw publishes a Withdrawn event for p on the bus. Participants call
// this when they become inactive.
func Withdraw(b *event.Bus, p Participant) error {
	return event.Publish(b, Withdrawn{Participant: p})
}
