package trace

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Progress counts the work of one run. Heartbeats report it, so a stuck run
// shows how far it got. A nil *Progress ignores updates.
type Progress struct {
	units     atomic.Int64
	done      atomic.Int64
	methods   atomic.Int64
	overloads atomic.Int64
}

// Expect adds n units to the planned total.
func (p *Progress) Expect(n int) {
	if p != nil {
		p.units.Add(int64(n))
	}
}

// UnitDone records a finished unit with the marker methods it specialized
// and the overloads they produced.
func (p *Progress) UnitDone(methods, overloads int) {
	if p == nil {
		return
	}
	p.done.Add(1)
	p.methods.Add(int64(methods))
	p.overloads.Add(int64(overloads))
}

func (p *Progress) String() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("units %d/%d, methods %d, overloads %d",
		p.done.Load(), p.units.Load(), p.methods.Load(), p.overloads.Load())
}

func (p *Progress) fields() map[string]string {
	return map[string]string{
		"units":     strconv.FormatInt(p.units.Load(), 10),
		"done":      strconv.FormatInt(p.done.Load(), 10),
		"methods":   strconv.FormatInt(p.methods.Load(), 10),
		"overloads": strconv.FormatInt(p.overloads.Load(), 10),
	}
}

// Heartbeat emits a liveness event every interval until stopped. Progress
// that stops moving between beats points at a hung unit.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	progress *Progress
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration, p *Progress) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   t,
		interval: interval,
		progress: p,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	var n uint64
	for {
		select {
		case <-ticker.C:
			n++
			h.beat(n)
		case <-h.stop:
			return
		}
	}
}

func (h *Heartbeat) beat(n uint64) {
	ev := &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		Name:   "heartbeat",
		Detail: "#" + strconv.FormatUint(n, 10),
	}
	if h.progress != nil {
		ev.Detail += " " + h.progress.String()
		ev.Extra = h.progress.fields()
	}
	h.tracer.Emit(ev)
}

// Stop ends the heartbeat and waits for its goroutine; safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
