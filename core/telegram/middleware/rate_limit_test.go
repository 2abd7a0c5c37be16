package middleware

import (
	"testing"
	"time"
)

func TestSlidingWindowAllow(t *testing.T) {
	win := newSlidingWindow(5*time.Second, 3)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		ok, warn := win.Allow(42, now.Add(time.Duration(i)*time.Second))
		if !ok || warn {
			t.Fatalf("message %d: ok=%v warn=%v, want ok without warning", i, ok, warn)
		}
	}

	// Fourth message within the window is dropped with a single warning.
	ok, warn := win.Allow(42, now.Add(3*time.Second))
	if ok || !warn {
		t.Fatalf("limited message: ok=%v warn=%v, want dropped with warning", ok, warn)
	}

	// Further floods within the window stay silent.
	ok, warn = win.Allow(42, now.Add(4*time.Second))
	if ok || warn {
		t.Fatalf("repeat flood: ok=%v warn=%v, want dropped silently", ok, warn)
	}

	// Once the early messages fall out of the window, traffic resumes.
	ok, _ = win.Allow(42, now.Add(10*time.Second))
	if !ok {
		t.Fatalf("message after window passed must be allowed")
	}
}

func TestSlidingWindowPerIdentity(t *testing.T) {
	win := newSlidingWindow(5*time.Second, 1)
	now := time.Now()

	if ok, _ := win.Allow(1, now); !ok {
		t.Fatalf("first identity must pass")
	}
	if ok, _ := win.Allow(2, now); !ok {
		t.Fatalf("second identity must pass independently")
	}
	if ok, _ := win.Allow(1, now); ok {
		t.Fatalf("first identity is over its own cap")
	}
}

func TestSlidingWindowWarnOncePerWindow(t *testing.T) {
	win := newSlidingWindow(5*time.Second, 1)
	now := time.Now()

	win.Allow(9, now)

	warned := 0
	for i := 1; i <= 4; i++ {
		if _, warn := win.Allow(9, now.Add(time.Duration(i)*time.Second)); warn {
			warned++
		}
	}
	if warned != 1 {
		t.Fatalf("warned %d times within one window, want 1", warned)
	}
}

func TestSlidingWindowEviction(t *testing.T) {
	win := newSlidingWindow(time.Second, 3)
	now := time.Now()

	win.Allow(7, now)
	if len(win.entries) != 1 {
		t.Fatalf("expected one tracked identity")
	}

	// Another identity arriving much later sweeps the stale entry.
	win.Allow(8, now.Add(time.Minute))
	if _, ok := win.entries[7]; ok {
		t.Fatalf("stale identity should have been evicted")
	}
}
