// Package event provides a small typed observer used to deliver change
// notifications between the notebook, the concatenation engine and the
// adapter.
//
// Delivery is synchronous: Emit calls every observer on the caller's
// goroutine, in subscription order, before returning. Observers are invoked
// outside the emitter's lock, so an observer may subscribe, unsubscribe or
// emit again without deadlocking.
//
//	var changed event.Emitter[notebook.Change]
//	sub := changed.Subscribe(func(c notebook.Change) { ... })
//	defer sub.Unsubscribe()
//	changed.Emit(change)
package event
