package platform

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickClockAdvance(t *testing.T) {
	c := NewTickClock()
	require.EqualValues(t, 0, c.Now())

	require.EqualValues(t, 5, c.Advance(5))
	require.EqualValues(t, 5, c.Now())

	require.EqualValues(t, 8, c.Advance(3))
	require.EqualValues(t, 8, c.Now())
}

func TestTickClockConcurrentAdvance(t *testing.T) {
	c := NewTickClock()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(1)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 100, c.Now())
}

func TestIRQGuardExcludesConcurrentAccess(t *testing.T) {
	var guard IRQGuard
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer guard.Enter()()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, 200, counter)
}

func TestIRQGuardReentrantCallersSerialize(t *testing.T) {
	var guard IRQGuard
	leave := guard.Enter()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer guard.Enter()()
	}()
	select {
	case <-done:
		t.Fatal("second Enter should have blocked until the first was released")
	default:
	}
	leave()
	<-done
}
