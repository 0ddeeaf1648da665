package playback

import (
	"sync"
	"time"

	"github.com/pot-code/learnhub/internal/progress"
)

// DefaultWindow debounce window of progress writes during playback
const DefaultWindow = 2 * time.Second

// Payload a progress write
type Payload struct {
	Status          progress.RecordStatus
	ProgressSeconds int
}

// WriteFunc persists a payload
type WriteFunc func(p Payload) error

// Debouncer trailing-edge debounce of progress writes.
//
// It owns at most one scheduled task and the payload that task will write.
// A task that fires after being superseded is a no-op. Writes never overlap:
// an immediate write waits for a scheduled write already in flight.
type Debouncer struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	window  time.Duration
	clock   Clock
	write   WriteFunc
	onError func(error)

	timer   Timer
	pending *Payload
	gen     uint64
}

// NewDebouncer create a Debouncer, errors of scheduled writes are passed to onError
func NewDebouncer(window time.Duration, clock Clock, write WriteFunc, onError func(error)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if clock == nil {
		clock = RealClock
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Debouncer{
		window:  window,
		clock:   clock,
		write:   write,
		onError: onError,
	}
}

// Schedule replace the pending payload and restart the window
func (d *Debouncer) Schedule(p Payload) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.pending = &p
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen) })
}

// FlushNow drop any pending write and write p immediately
func (d *Debouncer) FlushNow(p Payload) error {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()

	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.write(p)
}

// Cancel drop the pending write
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Pending payload waiting for the window to close
func (d *Debouncer) Pending() (Payload, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return Payload{}, false
	}
	return *d.pending, true
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	// superseded while waiting for the previous write
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	p := *d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if err := d.write(p); err != nil {
		d.onError(err)
	}
}
