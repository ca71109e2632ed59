package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"treeviz/animation"
	"treeviz/client"
	"treeviz/core"
	"treeviz/interaction"
	"treeviz/layout"
	"treeviz/viewer"
)

// The test screen is 80×26 cells: a 24-row canvas of 480×288 pixels plus the
// legend and status rows. The root sits at (240, 70), inside cell (40, 5).
const (
	rootCol, rootRow = 40, 5
	emptyCol         = 2
	emptyRow         = 20
	legendRow        = 24
	statusRow        = 25
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1000, 0)} }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testCaps() Capabilities {
	return Capabilities{Name: "test", Colors: ColorTrue, UTF8: true}
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func mouse(col, row int, b tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(col, row, b, tcell.ModNone)
}

type fakeFetcher struct {
	doc *core.Document
	err error
	req client.TreeRequest
}

func (f *fakeFetcher) DecisionTree(_ context.Context, req client.TreeRequest) (*core.Document, error) {
	f.req = req
	return f.doc, f.err
}

func newTestSession(t *testing.T, root *core.TreeNode, opts ...Option) (*Session, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 26)
	t.Cleanup(screen.Fini)

	v := viewer.New(1, 1)
	v.SetTree(root)
	opts = append([]Option{WithCapabilities(testCaps())}, opts...)
	s := NewSession(screen, v, opts...)
	s.resize()
	return s, screen
}

func click(s *Session, col, row int) {
	ctx := context.Background()
	s.handleEvent(ctx, mouse(col, row, tcell.Button1))
	s.handleEvent(ctx, mouse(col, row, tcell.ButtonNone))
}

func screenRow(screen tcell.SimulationScreen, row int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		cell := cells[row*w+x]
		if len(cell.Runes) > 0 {
			sb.WriteRune(cell.Runes[0])
		}
	}
	return sb.String()
}

func TestSessionCanvasSize(t *testing.T) {
	s, _ := newTestSession(t, layout.GenerateTree(3, 2))

	w, h := s.View().Size()
	require.Equal(t, 480.0, w)
	require.Equal(t, 288.0, h)
	require.Len(t, s.View().Nodes(), 15)
}

func TestSessionResize(t *testing.T) {
	s, screen := newTestSession(t, layout.GenerateTree(3, 2))
	gen := s.sched.Generation()

	screen.SetSize(120, 40)
	s.handleEvent(context.Background(), tcell.NewEventResize(120, 40))

	w, h := s.View().Size()
	require.Equal(t, 720.0, w)
	require.Equal(t, 456.0, h)
	require.False(t, s.sched.Accept(animation.Tick{Kind: animation.Frame, Generation: gen}))
}

func TestSessionKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("zoom and reset", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, key('+'))
		require.InDelta(t, 1.2, s.View().State().Zoom, 1e-9)
		s.handleEvent(ctx, key('-'))
		s.handleEvent(ctx, key('-'))
		require.InDelta(t, 0.8, s.View().State().Zoom, 1e-9)
		s.handleEvent(ctx, key('0'))
		require.Equal(t, 1.0, s.View().State().Zoom)
	})

	t.Run("arrows pan", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
		s.handleEvent(ctx, tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
		require.Equal(t, PanStep, s.View().State().Pan.X)
		require.Equal(t, PanStep, s.View().State().Pan.Y)
	})

	t.Run("depth", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(4, 2))
		require.Len(t, s.View().Nodes(), 15)
		gen := s.sched.Generation()

		s.handleEvent(ctx, key('2'))
		require.Equal(t, 2, s.View().MaxDepth())
		require.Len(t, s.View().Nodes(), 7)
		require.Equal(t, "depth 2", s.Status())
		require.False(t, s.sched.Accept(animation.Tick{Generation: gen}))

		s.handleEvent(ctx, key('a'))
		require.Equal(t, layout.Unlimited, s.View().MaxDepth())
		require.Len(t, s.View().Nodes(), 31)
	})

	t.Run("pruning", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(3, 2))
		require.True(t, s.View().Pruning())
		s.handleEvent(ctx, key('p'))
		require.False(t, s.View().Pruning())
		require.False(t, s.request.UseAlphaBeta)
		require.Contains(t, s.StatusText(), "pruning hidden")
	})

	t.Run("quit", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, key('q'))
		require.True(t, s.quit)

		s, _ = newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
		require.True(t, s.quit)
	})
}

func TestSessionMouseSelect(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestSession(t, layout.GenerateTree(3, 2), WithClock(clock.now))

	click(s, rootCol, rootRow)
	n, ok := s.View().Selected()
	require.True(t, ok)
	require.Equal(t, 0, n.Index)
	require.Contains(t, s.StatusText(), "selected Root")

	clock.advance(time.Second)
	click(s, rootCol, rootRow)
	_, ok = s.View().Selected()
	require.False(t, ok)
	require.Equal(t, 1.0, s.View().State().Zoom)
}

func TestSessionMouseDoubleClick(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestSession(t, layout.GenerateTree(3, 2), WithClock(clock.now))

	click(s, rootCol, rootRow)
	clock.advance(100 * time.Millisecond)
	click(s, rootCol, rootRow)

	n, ok := s.View().Selected()
	require.True(t, ok)
	require.Equal(t, 0, n.Index)
	require.Equal(t, 1.5, s.View().State().Zoom)
}

func TestSessionMouseDrag(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, layout.GenerateTree(3, 2), WithClock(newFakeClock().now))

	s.handleEvent(ctx, mouse(emptyCol, emptyRow, tcell.Button1))
	require.Equal(t, interaction.ModeDragging, s.View().State().Mode)
	s.handleEvent(ctx, mouse(emptyCol+10, emptyRow, tcell.Button1))
	s.handleEvent(ctx, mouse(emptyCol+10, emptyRow, tcell.ButtonNone))

	st := s.View().State()
	require.Equal(t, interaction.ModeIdle, st.Mode)
	require.Equal(t, 60.0, st.Pan.X)
	require.Equal(t, 0.0, st.Pan.Y)
	require.Equal(t, interaction.None, st.Selected)
}

func TestSessionMouseWheel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, layout.GenerateTree(3, 2))

	s.handleEvent(ctx, mouse(rootCol, rootRow, tcell.WheelUp))
	require.InDelta(t, 1.2, s.View().State().Zoom, 1e-9)
	s.handleEvent(ctx, mouse(rootCol, rootRow, tcell.WheelDown))
	require.InDelta(t, 1.0, s.View().State().Zoom, 1e-9)
}

func TestSessionMouseLeavesCanvas(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, layout.GenerateTree(3, 2))

	s.handleEvent(ctx, mouse(rootCol, rootRow, tcell.ButtonNone))
	_, ok := s.View().Hovered()
	require.True(t, ok)

	s.handleEvent(ctx, mouse(rootCol, legendRow, tcell.ButtonNone))
	_, ok = s.View().Hovered()
	require.False(t, ok)
	require.Equal(t, interaction.ModeIdle, s.View().State().Mode)
}

func TestSessionFetch(t *testing.T) {
	ctx := context.Background()

	awaitFetch := func(t *testing.T, s *Session, screen tcell.SimulationScreen) {
		t.Helper()
		for {
			ev := screen.PollEvent()
			require.NotNil(t, ev)
			if in, ok := ev.(*tcell.EventInterrupt); ok {
				if _, ok := in.Data().(fetchResult); ok {
					s.handleEvent(ctx, ev)
					return
				}
			}
		}
	}

	t.Run("success", func(t *testing.T) {
		doc := &core.Document{
			Status: "success",
			Stats:  &core.Stats{NodesExplored: 42, DecisionTimeMS: 3.5},
			Tree:   core.Tree{Root: layout.GenerateTree(2, 3)},
		}
		f := &fakeFetcher{doc: doc}
		req := client.TreeRequest{UseAlphaBeta: true, Player: "X"}
		s, screen := newTestSession(t, nil, WithFetcher(f, req))
		require.Empty(t, s.View().Nodes())

		s.handleEvent(ctx, key('f'))
		require.Equal(t, "fetching decision tree…", s.Status())
		awaitFetch(t, s, screen)

		require.Equal(t, req, f.req)
		require.Equal(t, "loaded 13 nodes", s.Status())
		require.Len(t, s.View().Nodes(), 13)
		require.Contains(t, s.StatusText(), "42 explored in 3.5 ms")
		require.False(t, s.fetching)
	})

	t.Run("failure keeps the current tree", func(t *testing.T) {
		f := &fakeFetcher{err: errors.New("connection refused")}
		s, screen := newTestSession(t, layout.GenerateTree(3, 2), WithFetcher(f, client.TreeRequest{}))

		s.handleEvent(ctx, key('f'))
		awaitFetch(t, s, screen)

		require.Equal(t, "fetch failed: connection refused", s.Status())
		require.Len(t, s.View().Nodes(), 15)
	})

	t.Run("empty tree", func(t *testing.T) {
		f := &fakeFetcher{doc: &core.Document{Status: "success"}}
		s, screen := newTestSession(t, layout.GenerateTree(3, 2), WithFetcher(f, client.TreeRequest{}))

		s.handleEvent(ctx, key('f'))
		awaitFetch(t, s, screen)

		require.Equal(t, "service returned no tree", s.Status())
		require.Empty(t, s.View().Nodes())
	})

	t.Run("no fetcher", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, key('f'))
		require.Equal(t, "no search service configured", s.Status())
	})
}

func TestSessionAlphaBetaToggle(t *testing.T) {
	ctx := context.Background()
	await := func(t *testing.T, s *Session, screen tcell.SimulationScreen) {
		t.Helper()
		for s.fetching {
			ev := screen.PollEvent()
			require.NotNil(t, ev)
			if in, ok := ev.(*tcell.EventInterrupt); ok {
				if _, ok := in.Data().(fetchResult); ok {
					s.handleEvent(ctx, ev)
				}
			}
		}
	}

	doc := &core.Document{Status: "success", Tree: core.Tree{Root: layout.GenerateTree(2, 2)}}
	f := &fakeFetcher{doc: doc}
	s, screen := newTestSession(t, layout.GenerateTree(3, 2), WithFetcher(f, client.TreeRequest{UseAlphaBeta: true, Player: "X"}))
	require.True(t, s.View().Pruning())

	s.handleEvent(ctx, key('p'))
	require.True(t, s.fetching)
	await(t, s, screen)
	require.False(t, s.View().Pruning())
	require.Equal(t, client.TreeRequest{UseAlphaBeta: false, Player: "X"}, f.req)

	s.handleEvent(ctx, key('f'))
	await(t, s, screen)
	require.False(t, f.req.UseAlphaBeta)

	s.handleEvent(ctx, key('p'))
	await(t, s, screen)
	require.True(t, s.View().Pruning())
	require.True(t, f.req.UseAlphaBeta)
}

func TestSessionAlphaBetaToggleDuringFetch(t *testing.T) {
	ctx := context.Background()
	doc := &core.Document{Status: "success", Tree: core.Tree{Root: layout.GenerateTree(2, 2)}}
	f := &fakeFetcher{doc: doc}
	s, _ := newTestSession(t, layout.GenerateTree(3, 2), WithFetcher(f, client.TreeRequest{UseAlphaBeta: true}))

	s.fetching = true
	s.handleEvent(ctx, key('p'))
	require.False(t, s.request.UseAlphaBeta)

	s.handleEvent(ctx, tcell.NewEventInterrupt(fetchResult{req: client.TreeRequest{UseAlphaBeta: true}, doc: doc}))
	require.Len(t, s.View().Nodes(), 7)
	require.True(t, s.fetching)
	s.fetches.Wait()
	require.False(t, f.req.UseAlphaBeta)
}

func TestSessionSeedsPruningFromRequest(t *testing.T) {
	s, _ := newTestSession(t, layout.GenerateTree(3, 2), WithFetcher(&fakeFetcher{}, client.TreeRequest{UseAlphaBeta: false}))
	require.False(t, s.View().Pruning())
	require.Contains(t, s.StatusText(), "pruning hidden")
}

func TestSessionLayoutChangeStopsHoverTicks(t *testing.T) {
	ctx := context.Background()

	t.Run("resize", func(t *testing.T) {
		s, screen := newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, mouse(rootCol, rootRow, tcell.ButtonNone))
		require.True(t, s.sched.Hovering())

		screen.SetSize(120, 40)
		s.handleEvent(ctx, tcell.NewEventResize(120, 40))
		require.False(t, s.View().State().IsHovering())
		require.False(t, s.sched.Hovering())
	})

	t.Run("fetch", func(t *testing.T) {
		doc := &core.Document{Status: "success", Tree: core.Tree{Root: layout.GenerateTree(2, 2)}}
		s, _ := newTestSession(t, layout.GenerateTree(3, 2), WithFetcher(&fakeFetcher{doc: doc}, client.TreeRequest{}))
		s.handleEvent(ctx, mouse(rootCol, rootRow, tcell.ButtonNone))
		require.True(t, s.sched.Hovering())

		s.handleEvent(ctx, tcell.NewEventInterrupt(fetchResult{doc: doc}))
		require.Len(t, s.View().Nodes(), 7)
		require.False(t, s.sched.Hovering())
	})

	t.Run("depth", func(t *testing.T) {
		s, _ := newTestSession(t, layout.GenerateTree(3, 2))
		s.handleEvent(ctx, mouse(rootCol, rootRow, tcell.ButtonNone))
		s.handleEvent(ctx, key('2'))
		require.False(t, s.sched.Hovering())
	})
}

func TestSessionStaleTick(t *testing.T) {
	s, _ := newTestSession(t, layout.GenerateTree(3, 2))
	stale := animation.Tick{Kind: animation.Hover, Generation: s.sched.Generation()}

	s.sched.Restart()
	require.False(t, s.sched.Accept(stale))
	s.handleEvent(context.Background(), tcell.NewEventInterrupt(stale))
	require.False(t, s.quit)
}

func TestSessionDrawChrome(t *testing.T) {
	s, screen := newTestSession(t, layout.GenerateTree(3, 2), WithStats(&core.Stats{NodesExplored: 7, DecisionTimeMS: 1}))
	s.draw()

	legend := screenRow(screen, legendRow)
	require.Contains(t, legend, "Maximizing (X)")
	require.Contains(t, legend, "Pruned")

	status := screenRow(screen, statusRow)
	require.Contains(t, status, "depth 3")
	require.Contains(t, status, "15 nodes")

	var canvasRunes int
	for row := 0; row < legendRow; row++ {
		canvasRunes += len(strings.TrimSpace(screenRow(screen, row)))
	}
	require.Positive(t, canvasRunes)
}

func TestStatusText(t *testing.T) {
	s, _ := newTestSession(t, layout.GenerateTree(3, 2))
	require.Equal(t, "depth 3 │ zoom 1.0 │ 15 nodes", s.StatusText())

	s.stats = &core.Stats{NodesExplored: 1234, DecisionTimeMS: 12.34}
	require.Equal(t, "depth 3 │ zoom 1.0 │ 15 nodes │ 1234 explored in 12.3 ms", s.StatusText())
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	v := viewer.New(1, 1)
	v.SetTree(layout.GenerateTree(2, 2))
	s := NewSession(screen, v, WithCapabilities(testCaps()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.False(t, s.sched.Running())
}
