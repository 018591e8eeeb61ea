package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicGuard_NeverGoesBack(t *testing.T) {
	var guard monotonicGuard
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, base, guard.observe(base))

	// relógio ajustado para trás
	assert.Equal(t, base, guard.observe(base.Add(-time.Minute)))
	assert.Equal(t, base.Add(time.Second), guard.observe(base.Add(time.Second)))
	assert.Equal(t, base.Add(time.Second), guard.observe(base))
}

func TestSystem_NowIsNonDecreasing(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			previous := System{}.Now()
			for i := 0; i < 1000; i++ {
				now := System{}.Now()
				if !assert.False(t, now.Before(previous)) {
					return
				}
				assert.Equal(t, time.UTC, now.Location())
				previous = now
			}
		}()
	}
	wg.Wait()
}

func TestFake_Advance(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fake := NewFake(base)

	assert.Equal(t, base.Add(time.Hour), fake.Advance(time.Hour))
	assert.Equal(t, base.Add(time.Hour), fake.Now())

	fake.Set(base)
	assert.Equal(t, base, fake.Now())
}
