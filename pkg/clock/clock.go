// Package clock fornece a fonte de tempo usada pelo store e pelo agendador
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System lê o relógio de parede em UTC. Os instantes devolvidos nunca
// recuam, mesmo quando o relógio do sistema é ajustado para trás.
type System struct{}

var systemGuard monotonicGuard

func (System) Now() time.Time {
	return systemGuard.observe(time.Now().UTC())
}

// monotonicGuard guarda o último instante devolvido, em nanossegundos.
type monotonicGuard struct {
	last atomic.Int64
}

// observe devolve t, ou o último instante devolvido quando t é anterior a ele
func (g *monotonicGuard) observe(t time.Time) time.Time {
	for {
		last := g.last.Load()
		if t.UnixNano() <= last {
			return time.Unix(0, last).UTC()
		}
		if g.last.CompareAndSwap(last, t.UnixNano()) {
			return t
		}
	}
}

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.UTC()
}

// Advance moves the clock forward by d and returns the new instant.
func (f *Fake) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}
