package buttons

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakePin struct {
	mu    sync.Mutex
	level bool
}

func (p *fakePin) ConfigureOutput(initial bool) error { p.set(initial); return nil }
func (p *fakePin) ConfigureInput(pullUp bool) error   { p.set(pullUp); return nil }
func (p *fakePin) Set(l bool)                         { p.set(l) }
func (p *fakePin) Toggle()                            { p.set(!p.Get()) }
func (p *fakePin) Number() int                        { return 0 }

func (p *fakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *fakePin) set(l bool) {
	p.mu.Lock()
	p.level = l
	p.mu.Unlock()
}

type fakeActions struct {
	mu      sync.Mutex
	resets  int
	banners int
}

func (a *fakeActions) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resets++
	return nil
}

func (a *fakeActions) RequestBanner() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.banners++
}

func (a *fakeActions) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.banners, a.resets
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func press(p *fakePin) {
	p.set(false)
	time.Sleep(3 * pollInterval)
	p.set(true)
	time.Sleep(3 * pollInterval)
}

func TestButtons_FallingEdgeFiresOnce(t *testing.T) {
	banner, reset := &fakePin{}, &fakePin{}
	act := &fakeActions{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, banner, reset, act)

	waitFor(t, func() bool { return banner.Get() && reset.Get() }) // pull-ups applied

	press(banner)
	waitFor(t, func() bool { b, _ := act.counts(); return b == 1 })

	// Held-low does not retrigger.
	banner.set(false)
	time.Sleep(5 * pollInterval)
	if b, _ := act.counts(); b != 1 {
		t.Fatalf("held button retriggered: %d banners", b)
	}
	banner.set(true)
}

func TestButtons_ResetButton(t *testing.T) {
	banner, reset := &fakePin{}, &fakePin{}
	act := &fakeActions{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, banner, reset, act)

	waitFor(t, func() bool { return reset.Get() })

	press(reset)
	waitFor(t, func() bool { _, r := act.counts(); return r == 1 })
	if b, _ := act.counts(); b != 0 {
		t.Fatalf("reset press fired banner %d times", b)
	}
}
