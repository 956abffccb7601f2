package transport

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInFlightRegistryRegisterAndCancel(t *testing.T) {
	r := NewInFlightRegistry()

	cancelled := false
	if !r.Register("req-1", func() { cancelled = true }) {
		t.Fatal("Register should succeed for a new ID")
	}

	if !r.Cancel("req-1") {
		t.Error("Cancel should return true for registered ID")
	}
	if !cancelled {
		t.Error("cancel function should have been called")
	}

	// Second cancel should return false (already removed).
	if r.Cancel("req-1") {
		t.Error("Cancel should return false after already cancelled")
	}
}

func TestInFlightRegistryRejectsDuplicateID(t *testing.T) {
	r := NewInFlightRegistry()

	var first, second bool
	r.Register("req-dup", func() { first = true })
	if r.Register("req-dup", func() { second = true }) {
		t.Fatal("Register should refuse an ID already in flight")
	}

	r.Cancel("req-dup")
	if !first || second {
		t.Errorf("cancel routed to wrong function: first=%v second=%v", first, second)
	}
}

func TestInFlightRegistryCancelUnknown(t *testing.T) {
	r := NewInFlightRegistry()

	if r.Cancel("req-unknown") {
		t.Error("Cancel should return false for unknown ID")
	}
}

func TestInFlightRegistryRemove(t *testing.T) {
	r := NewInFlightRegistry()

	cancelled := false
	r.Register("req-1", func() { cancelled = true })
	r.Remove("req-1")

	if r.Cancel("req-1") {
		t.Error("Cancel should return false after Remove")
	}
	if cancelled {
		t.Error("cancel function should not have been called by Remove")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestInFlightRegistryRemoveUnknown(t *testing.T) {
	r := NewInFlightRegistry()
	// Should not panic.
	r.Remove("req-unknown")
}

func TestInFlightRegistryConcurrentAccess(t *testing.T) {
	r := NewInFlightRegistry()
	var cancelCount atomic.Int64
	const numEntries = 100

	var wg sync.WaitGroup
	for i := 0; i < numEntries; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Register(id, func() { cancelCount.Add(1) })
		}(fmt.Sprintf("req-%d", i))
	}
	wg.Wait()

	if r.Len() != numEntries {
		t.Fatalf("Len() = %d, want %d", r.Len(), numEntries)
	}

	for i := 0; i < numEntries/2; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Cancel(id)
		}(fmt.Sprintf("req-%d", i))
	}
	wg.Wait()

	if cancelCount.Load() != numEntries/2 {
		t.Errorf("expected %d cancellations, got %d", numEntries/2, cancelCount.Load())
	}

	for i := numEntries / 2; i < numEntries; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Remove(id)
		}(fmt.Sprintf("req-%d", i))
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("Len() = %d after removing everything, want 0", r.Len())
	}
}
