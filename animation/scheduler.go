// Package animation drives continuous redraws of a tree view.
//
// The scheduler owns two tickers: a perpetual frame ticker and a hover ticker
// that runs only while a node is hovered. Ticks are handed to a Poster, which
// forwards them to the owning event loop. The scheduler never touches view
// state itself.
//
// Every tick carries the generation it was produced under. Restart and Stop
// advance the generation, so ticks already queued when a view is re-laid-out
// or torn down fail Accept and are dropped by the event loop.
package animation

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Kind distinguishes frame ticks from hover ticks.
type Kind int

const (
	Frame Kind = iota // continuous repaint
	Hover             // state-level redraw while a node is hovered
)

// String returns the tick kind name.
func (k Kind) String() string {
	switch k {
	case Frame:
		return "frame"
	case Hover:
		return "hover"
	default:
		return "unknown"
	}
}

// Tick is one timer firing.
type Tick struct {
	Kind       Kind
	Generation uint64
	At         time.Time
}

// Poster forwards ticks to the goroutine that owns the view.
type Poster interface {
	Post(Tick) error
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(Tick) error

// Post calls f(t).
func (f PosterFunc) Post(t Tick) error { return f(t) }

// Defaults.
const (
	DefaultFPS       = 30
	DefaultHoverTick = 100 * time.Millisecond
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithFPS sets the frame rate. Non-positive values keep the default.
func WithFPS(fps int) Option {
	return func(s *Scheduler) {
		if fps > 0 {
			s.frameEvery = time.Second / time.Duration(fps)
		}
	}
}

// WithHoverInterval sets the hover tick period. Non-positive values keep the default.
func WithHoverInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.hoverEvery = d
		}
	}
}

// WithLogger sets the logger used for dropped ticks.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// Scheduler produces frame and hover ticks for one view.
type Scheduler struct {
	poster     Poster
	frameEvery time.Duration
	hoverEvery time.Duration
	log        *zap.SugaredLogger

	gen atomic.Uint64

	mu        sync.Mutex
	running   bool
	hovering  bool
	frameStop chan struct{}
	hoverStop chan struct{}
	wg        sync.WaitGroup
}

// NewScheduler creates a stopped scheduler posting to p.
func NewScheduler(p Poster, opts ...Option) *Scheduler {
	s := &Scheduler{
		poster:     p,
		frameEvery: time.Second / DefaultFPS,
		hoverEvery: DefaultHoverTick,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generation returns the current generation.
func (s *Scheduler) Generation() uint64 {
	return s.gen.Load()
}

// Accept reports whether t belongs to the current generation. The event loop
// calls it before acting on a tick.
func (s *Scheduler) Accept(t Tick) bool {
	return t.Generation == s.gen.Load()
}

// Running reports whether the frame ticker is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Hovering reports whether hover ticks are requested.
func (s *Scheduler) Hovering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hovering
}

// Start begins producing frame ticks. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.gen.Add(1)
	s.spawnLocked()
}

// SetHovering starts or stops the hover ticker.
func (s *Scheduler) SetHovering(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hovering == on {
		return
	}
	s.hovering = on
	if !s.running {
		return
	}
	if on {
		s.spawnHoverLocked(s.gen.Load())
	} else {
		s.stopHoverLocked()
	}
}

// Restart invalidates all outstanding ticks and restarts the tickers under a
// new generation. It is called when the layout the ticks were scheduled
// against is replaced.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	if !s.running {
		s.gen.Add(1)
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.gen.Add(1)
	s.spawnLocked()
}

// Stop halts both tickers, invalidates outstanding ticks and waits for the
// ticker goroutines to exit. No tick is posted after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.gen.Add(1)
	if s.running {
		s.stopLocked()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) spawnLocked() {
	gen := s.gen.Load()
	s.frameStop = make(chan struct{})
	s.wg.Add(1)
	go s.loop(Frame, s.frameEvery, gen, s.frameStop)
	if s.hovering {
		s.spawnHoverLocked(gen)
	}
}

func (s *Scheduler) spawnHoverLocked(gen uint64) {
	if s.hoverStop != nil {
		return
	}
	s.hoverStop = make(chan struct{})
	s.wg.Add(1)
	go s.loop(Hover, s.hoverEvery, gen, s.hoverStop)
}

func (s *Scheduler) stopHoverLocked() {
	if s.hoverStop != nil {
		close(s.hoverStop)
		s.hoverStop = nil
	}
}

func (s *Scheduler) stopLocked() {
	s.running = false
	if s.frameStop != nil {
		close(s.frameStop)
		s.frameStop = nil
	}
	s.stopHoverLocked()
}

func (s *Scheduler) loop(kind Kind, every time.Duration, gen uint64, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			// Stop may have won the race with the ticker.
			select {
			case <-stop:
				return
			default:
			}
			if err := s.poster.Post(Tick{Kind: kind, Generation: gen, At: now}); err != nil {
				s.log.Debugw("tick dropped", "kind", kind, "generation", gen, "error", err)
			}
		}
	}
}
