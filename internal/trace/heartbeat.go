package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval. Heartbeats without
// span-end events in between point at a stuck file.
type Heartbeat struct {
	tracer Tracer
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.run(interval)
	return h
}

func (h *Heartbeat) run(interval time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-ticker.C:
			h.tracer.Emit(&Event{
				Time:   now(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop is safe on a nil Heartbeat and idempotent.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
