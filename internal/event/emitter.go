package event

import (
	"sync"
)

// Observer is called when an event is emitted.
type Observer[T any] func(T)

// Subscription represents an active observer subscription.
type Subscription struct {
	once        sync.Once
	unsubscribe func()
}

// Unsubscribe removes the observer. It is safe to call more than once and
// on a nil subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.once.Do(s.unsubscribe)
}

// Emitter fans events out to subscribed observers.
// The zero value is ready to use.
type Emitter[T any] struct {
	mu        sync.RWMutex
	observers map[uint64]Observer[T]
	order     []uint64
	nextID    uint64
	closed    bool
}

// Subscribe registers an observer. Subscribing to a closed emitter returns
// an inert subscription.
func (e *Emitter[T]) Subscribe(observer Observer[T]) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || observer == nil {
		return &Subscription{}
	}
	if e.observers == nil {
		e.observers = make(map[uint64]Observer[T])
	}

	id := e.nextID
	e.nextID++
	e.observers[id] = observer
	e.order = append(e.order, id)

	return &Subscription{unsubscribe: func() { e.remove(id) }}
}

// Emit delivers ev to every observer registered at the time of the call.
func (e *Emitter[T]) Emit(ev T) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return
	}
	observers := make([]Observer[T], 0, len(e.order))
	for _, id := range e.order {
		observers = append(observers, e.observers[id])
	}
	e.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(ev)
	}
}

// Len returns the number of active observers.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

// Close drops all observers; later emits are ignored. Close is idempotent.
func (e *Emitter[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.observers = nil
	e.order = nil
}

func (e *Emitter[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.observers[id]; !ok {
		return
	}
	delete(e.observers, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}
