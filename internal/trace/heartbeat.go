package trace

import (
	"sync"
	"time"
)

// StartHeartbeat records a heartbeat every interval until the returned stop
// function is called. A hung pass shows up as heartbeats with no span ends
// between them. stop is idempotent and waits for the goroutine.
func StartHeartbeat(t Tracer, interval time.Duration) (stop func()) {
	if t == nil || t.Level() == LevelOff || interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for beat := 1; ; beat++ {
			select {
			case <-ticker.C:
				record(t, Event{
					Time:   time.Now(),
					Kind:   KindHeartbeat,
					Scope:  ScopeRun,
					Name:   "heartbeat",
					Fields: Fields{Count: beat},
				})
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
