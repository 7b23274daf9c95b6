package usage

import (
	"sync"
	"testing"
)

func TestLimiter_EnforcesDailyLimit(t *testing.T) {
	l := NewLimiter(2)

	if !l.Allow("user-1") {
		t.Fatal("first request must be allowed")
	}
	if !l.Allow("user-1") {
		t.Fatal("second request must be allowed")
	}
	if l.Allow("user-1") {
		t.Fatal("third request must be rejected")
	}
	if l.Count("user-1") != 3 {
		t.Fatalf("expected 3 counted requests, got %d", l.Count("user-1"))
	}
}

func TestLimiter_UsersAreIndependent(t *testing.T) {
	l := NewLimiter(1)

	if !l.Allow("user-1") {
		t.Fatal("user-1 first request must be allowed")
	}
	if !l.Allow("user-2") {
		t.Fatal("user-2 must not be affected by user-1's usage")
	}
}

func TestLimiter_ConcurrentFirstRequestsAllCounted(t *testing.T) {
	const requests = 50
	l := NewLimiter(requests)

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Allow("user-1")
		}()
	}
	wg.Wait()

	if got := l.Count("user-1"); got != requests {
		t.Fatalf("expected %d counted requests, got %d", requests, got)
	}
}

func TestLimiter_ZeroLimitDisablesEnforcement(t *testing.T) {
	l := NewLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("user-1") {
			t.Fatal("zero limit must never reject")
		}
	}
}

func TestLimiter_AnonymousNeverLimited(t *testing.T) {
	l := NewLimiter(1)
	for i := 0; i < 5; i++ {
		if !l.Allow("") {
			t.Fatal("anonymous requests must never be limited")
		}
	}
}
