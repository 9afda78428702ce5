// Package event implements an in-process publish/subscribe bus routed by the
// concrete type of the published value. Handlers are registered per event
// type and invoked in subscription order; each publish call dispatches
// against an immutable snapshot of the registration list, so handlers may
// subscribe or unsubscribe during delivery without affecting the in-flight
// call.
//
// The bus is an explicitly constructed value. Components that need it should
// receive it from whatever composition root owns the scene or session; there
// is no package level singleton.
package event
