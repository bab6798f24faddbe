package event

import (
	"testing"
)

func TestEmitter_ZeroValue(t *testing.T) {
	var e Emitter[int]
	e.Emit(1) // no observers, must not panic

	if e.Len() != 0 {
		t.Errorf("Expected 0 observers, got %d", e.Len())
	}
}

func TestEmitter_DeliversInOrder(t *testing.T) {
	var e Emitter[string]
	var got []string

	e.Subscribe(func(s string) { got = append(got, "a:"+s) })
	e.Subscribe(func(s string) { got = append(got, "b:"+s) })

	e.Emit("x")

	if len(got) != 2 || got[0] != "a:x" || got[1] != "b:x" {
		t.Errorf("Unexpected delivery order: %v", got)
	}
}

func TestEmitter_Unsubscribe(t *testing.T) {
	var e Emitter[int]
	count := 0

	sub := e.Subscribe(func(int) { count++ })
	e.Emit(1)
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	e.Emit(2)

	if count != 1 {
		t.Errorf("Expected 1 delivery, got %d", count)
	}
	if e.Len() != 0 {
		t.Errorf("Expected 0 observers after unsubscribe, got %d", e.Len())
	}
}

func TestEmitter_NilSubscription(t *testing.T) {
	var sub *Subscription
	sub.Unsubscribe()
}

func TestEmitter_ObserverMayResubscribe(t *testing.T) {
	var e Emitter[int]
	calls := 0

	var sub *Subscription
	sub = e.Subscribe(func(int) {
		calls++
		sub.Unsubscribe()
		e.Subscribe(func(int) { calls += 10 })
	})

	e.Emit(1)
	if calls != 1 {
		t.Errorf("Expected only the original observer on first emit, got %d", calls)
	}

	e.Emit(2)
	if calls != 11 {
		t.Errorf("Expected the new observer on second emit, got %d", calls)
	}
}

func TestEmitter_Close(t *testing.T) {
	var e Emitter[int]
	count := 0
	e.Subscribe(func(int) { count++ })

	e.Close()
	e.Close()
	e.Emit(1)

	if count != 0 {
		t.Errorf("Expected no delivery after Close, got %d", count)
	}

	sub := e.Subscribe(func(int) { count++ })
	sub.Unsubscribe()
	if e.Len() != 0 {
		t.Errorf("Expected closed emitter to reject subscriptions")
	}
}
