package download

import (
	"io"
	"sync/atomic"
	"time"
)

const meterInterval = 100 * time.Millisecond

// meter counts bytes written by one task and samples its throughput.
// Only the owning task writes; readers use the atomic accessors.
type meter struct {
	completed atomic.Uint64
	speed     atomic.Uint64

	lastBytes uint64
	lastAt    time.Time
}

func (m *meter) reset() {
	m.completed.Store(0)
	m.speed.Store(0)
	m.lastBytes = 0
	m.lastAt = time.Now()
}

func (m *meter) add(n int) {
	done := m.completed.Add(uint64(n))
	now := time.Now()
	if elapsed := now.Sub(m.lastAt); elapsed >= meterInterval {
		m.speed.Store(uint64(float64(done-m.lastBytes) / elapsed.Seconds()))
		m.lastBytes = done
		m.lastAt = now
	}
}

// Completed is the number of bytes written in the current attempt.
func (m *meter) Completed() uint64 { return m.completed.Load() }

// Speed is the last sampled throughput in bytes per second.
func (m *meter) Speed() uint64 { return m.speed.Load() }

type meteredWriter struct {
	w io.Writer
	m *meter
}

func (mw meteredWriter) Write(p []byte) (int, error) {
	n, err := mw.w.Write(p)
	mw.m.add(n)
	return n, err
}
