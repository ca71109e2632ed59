package animation

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// collector records posted ticks.
type collector struct {
	mu    sync.Mutex
	ticks []Tick
	err   error
}

func (c *collector) Post(t Tick) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, t)
	return c.err
}

func (c *collector) snapshot() []Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Tick(nil), c.ticks...)
}

func (c *collector) count(kind Kind) int {
	n := 0
	for _, t := range c.snapshot() {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

func fast(c *collector) *Scheduler {
	return NewScheduler(c, WithFPS(500), WithHoverInterval(2*time.Millisecond))
}

func TestScheduler_FrameTicks(t *testing.T) {
	c := &collector{}
	s := fast(c)
	require.False(t, s.Running())

	s.Start()
	require.True(t, s.Running())
	require.Eventually(t, func() bool { return c.count(Frame) >= 3 }, time.Second, time.Millisecond)
	require.Zero(t, c.count(Hover), "no hover ticks without a hovered node")

	s.Stop()
	for _, tick := range c.snapshot() {
		require.False(t, s.Accept(tick), "ticks from before Stop are stale")
	}
}

func TestScheduler_StartTwiceIsNoop(t *testing.T) {
	c := &collector{}
	s := fast(c)
	s.Start()
	gen := s.Generation()
	s.Start()
	require.Equal(t, gen, s.Generation())
	s.Stop()
}

func TestScheduler_NoTicksAfterStop(t *testing.T) {
	c := &collector{}
	s := fast(c)
	s.Start()
	s.SetHovering(true)
	require.Eventually(t, func() bool { return len(c.snapshot()) > 0 }, time.Second, time.Millisecond)

	s.Stop()
	n := len(c.snapshot())
	time.Sleep(20 * time.Millisecond)
	require.Len(t, c.snapshot(), n)
	require.False(t, s.Running())
}

func TestScheduler_HoverTicks(t *testing.T) {
	c := &collector{}
	s := fast(c)
	defer s.Stop()

	s.SetHovering(true)
	require.True(t, s.Hovering())
	s.Start()
	require.Eventually(t, func() bool { return c.count(Hover) >= 2 }, time.Second, time.Millisecond)

	s.SetHovering(false)
	require.False(t, s.Hovering())
	// Give an in-flight hover tick time to land, then expect silence.
	time.Sleep(10 * time.Millisecond)
	n := c.count(Hover)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, n, c.count(Hover))
	require.Greater(t, c.count(Frame), 0)
}

func TestScheduler_RestartInvalidatesOldTicks(t *testing.T) {
	c := &collector{}
	s := fast(c)
	defer s.Stop()

	s.Start()
	require.Eventually(t, func() bool { return c.count(Frame) > 0 }, time.Second, time.Millisecond)
	old := c.snapshot()[0]
	require.True(t, s.Accept(old))

	s.Restart()
	require.True(t, s.Running())
	require.False(t, s.Accept(old))

	require.Eventually(t, func() bool {
		ticks := c.snapshot()
		return s.Accept(ticks[len(ticks)-1])
	}, time.Second, time.Millisecond)
}

func TestScheduler_RestartWhileStopped(t *testing.T) {
	s := NewScheduler(&collector{})
	gen := s.Generation()
	s.Restart()
	require.Greater(t, s.Generation(), gen)
	require.False(t, s.Running())
}

func TestScheduler_PostErrorsKeepTicking(t *testing.T) {
	c := &collector{err: errors.New("queue full")}
	s := fast(c)
	s.Start()
	require.Eventually(t, func() bool { return c.count(Frame) >= 3 }, time.Second, time.Millisecond)
	s.Stop()
}

func TestPosterFunc(t *testing.T) {
	var got Tick
	p := PosterFunc(func(t Tick) error { got = t; return nil })
	require.NoError(t, p.Post(Tick{Kind: Hover, Generation: 7}))
	require.Equal(t, uint64(7), got.Generation)
	require.Equal(t, "hover", got.Kind.String())
}

func TestDefaults(t *testing.T) {
	s := NewScheduler(&collector{}, WithFPS(0), WithHoverInterval(-1))
	require.Equal(t, time.Second/DefaultFPS, s.frameEvery)
	require.Equal(t, DefaultHoverTick, s.hoverEvery)
}
