// Package initiator orchestrates a declared, ordered set of startup
// participants through two sequential phases. Participants announce
// themselves on the event bus as they come alive; once every required tag
// has a registered participant, the manager walks the declared order and
// awaits each participant's init phase, then each participant's run phase.
//
// Individual phase failures are logged and skipped rather than aborting the
// pass: partial startup is preferred over total failure. Registration before
// readiness simply arms the manager for another attempt on the next
// announcement.
package initiator
