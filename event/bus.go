package event

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNilEvent is returned by Publish when the published value is nil.
	ErrNilEvent = errors.New("event: nil event")

	// ErrNilListener is returned by Subscribe/Unsubscribe when the handler
	// or listener is nil.
	ErrNilListener = errors.New("event: nil listener")
)

// Handler consumes one published event of type E. A non-nil return aborts
// delivery to the remaining handlers of the in-flight publish call; the bus
// itself never recovers handler failures.
type Handler[E any] func(E) error

// Listener is the interface form of Handler for subscribers that are
// long-lived objects. Registration through SubscribeListener is idempotent
// per listener instance.
type Listener[E any] interface {
	OnEvent(E) error
}

// Subscription identifies one registered handler. It is the handle passed to
// Bus.Unsubscribe.
type Subscription struct {
	key   reflect.Type
	owner any // non-nil for listener-object registrations; identity de-dup key
}

// EventType returns the event type this subscription routes.
func (s *Subscription) EventType() reflect.Type { return s.key }

// dispatcher is the type-erased view of a topic used by Unsubscribe and the
// empty-entry garbage collection. Handler storage stays strongly typed inside
// the concrete topic; the bus never downcasts individual handlers.
type dispatcher interface {
	remove(sub *Subscription) bool
	len() int
}

type entry[E any] struct {
	sub *Subscription
	fn  Handler[E]
}

type topic[E any] struct {
	entries []entry[E]
}

func (t *topic[E]) remove(sub *Subscription) bool {
	for i, e := range t.entries {
		if e.sub == sub {
			t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (t *topic[E]) len() int { return len(t.entries) }

// Bus is a type-keyed publish/subscribe registry. The zero value is not
// usable; construct with NewBus.
type Bus struct {
	mu     sync.RWMutex
	topics map[reflect.Type]dispatcher
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[reflect.Type]dispatcher)}
}

// Unsubscribe removes a previously registered subscription. Removing a
// subscription that was never registered (or already removed) is a silent
// no-op. When a type's last subscription is removed its routing entry is
// deleted.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrNilListener
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sub.key]
	if !ok {
		return nil
	}
	if t.remove(sub) && t.len() == 0 {
		delete(b.topics, sub.key)
	}
	return nil
}

func typeKey[E any]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// isNil reports whether v is nil in any of the kinds that can carry nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Subscribe registers a handler for events of type E and returns the handle
// used to unsubscribe it. Every call registers a distinct handler; use
// SubscribeListener when registration must be idempotent per subscriber
// instance.
func Subscribe[E any](b *Bus, h Handler[E]) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilListener
	}
	return subscribe(b, h, nil)
}

// SubscribeListener registers a listener object for events of type E.
// Re-registering the same listener instance is a no-op returning the
// original subscription handle; identity is reference equality.
func SubscribeListener[E any](b *Bus, l Listener[E]) (*Subscription, error) {
	if l == nil || isNil(l) {
		return nil, ErrNilListener
	}
	return subscribe(b, l.OnEvent, l)
}

func subscribe[E any](b *Bus, h Handler[E], owner any) (*Subscription, error) {
	key := typeKey[E]()

	b.mu.Lock()
	defer b.mu.Unlock()

	var t *topic[E]
	if d, ok := b.topics[key]; ok {
		t = d.(*topic[E])
	} else {
		t = &topic[E]{}
		b.topics[key] = t
	}

	if owner != nil {
		for _, e := range t.entries {
			if e.sub.owner == owner {
				return e.sub, nil
			}
		}
	}

	sub := &Subscription{key: key, owner: owner}
	t.entries = append(t.entries, entry[E]{sub: sub, fn: h})
	return sub, nil
}

// UnsubscribeListener removes a listener object registered through
// SubscribeListener. Unknown listeners are a silent no-op.
func UnsubscribeListener[E any](b *Bus, l Listener[E]) error {
	if l == nil || isNil(l) {
		return ErrNilListener
	}
	key := typeKey[E]()

	b.mu.Lock()
	defer b.mu.Unlock()

	d, ok := b.topics[key]
	if !ok {
		return nil
	}
	t := d.(*topic[E])
	for _, e := range t.entries {
		if e.sub.owner == l {
			if t.remove(e.sub) && t.len() == 0 {
				delete(b.topics, key)
			}
			return nil
		}
	}
	return nil
}

// Publish delivers ev to every handler currently subscribed for type E, in
// subscription order. Delivery runs against a snapshot taken at call time:
// handlers added or removed during this call do not change the set notified
// by this call. Publishing a type with no subscribers is a no-op.
//
// The first handler error aborts delivery to the remaining handlers in the
// snapshot and is returned to the caller; handlers that must not disturb
// their siblings should recover internally.
func Publish[E any](b *Bus, ev E) error {
	if isNil(ev) {
		return ErrNilEvent
	}
	key := typeKey[E]()

	b.mu.RLock()
	d, ok := b.topics[key]
	if !ok {
		b.mu.RUnlock()
		return nil
	}
	t := d.(*topic[E])
	snapshot := make([]entry[E], len(t.entries))
	copy(snapshot, t.entries)
	b.mu.RUnlock()

	for _, e := range snapshot {
		if err := e.fn(ev); err != nil {
			return fmt.Errorf("event: publish %s: %w", key, err)
		}
	}
	return nil
}

// Len reports the number of handlers currently subscribed for type E.
// Intended for diagnostics and tests.
func Len[E any](b *Bus) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if d, ok := b.topics[typeKey[E]()]; ok {
		return d.len()
	}
	return 0
}
