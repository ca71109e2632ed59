// Package terminal runs the interactive tree view on a tcell screen.
//
// All view mutations happen on the goroutine running Session.Run. Animation
// ticks and tree fetch results arrive as tcell interrupt events, so they are
// serialized with keyboard and mouse input.
package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"treeviz/animation"
	"treeviz/canvas"
	"treeviz/client"
	"treeviz/core"
	"treeviz/geometry"
	"treeviz/interaction"
	"treeviz/viewer"
)

// DoubleClickWindow is the longest gap between two releases on the same cell
// that counts as a double click.
const DoubleClickWindow = 400 * time.Millisecond

// chromeRows is the number of rows below the canvas: legend and status.
const chromeRows = 2

// Fetcher retrieves a tree from the search service.
type Fetcher interface {
	DecisionTree(ctx context.Context, req client.TreeRequest) (*core.Document, error)
}

// fetchResult is posted back to the event loop when a fetch completes.
type fetchResult struct {
	req client.TreeRequest
	doc *core.Document
	err error
}

// quitEvent is posted when the run context is canceled.
type quitEvent struct{}

// Option configures a Session.
type Option func(*Session)

// WithFetcher enables fetching trees from the search service. The view draws
// pruned branches exactly when req asks for alpha-beta pruning.
func WithFetcher(f Fetcher, req client.TreeRequest) Option {
	return func(s *Session) {
		s.fetcher = f
		s.request = req
	}
}

// WithLogger sets the logger. The session never writes logs to the screen.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCellSize sets how many canvas pixels one character cell covers.
func WithCellSize(w, h float64) Option {
	return func(s *Session) {
		if w > 0 && h > 0 {
			s.cellW, s.cellH = w, h
		}
	}
}

// WithAnimation sets the frame rate and hover tick period.
func WithAnimation(fps int, hover time.Duration) Option {
	return func(s *Session) {
		s.fps, s.hoverTick = fps, hover
	}
}

// WithStats sets the search statistics shown in the status line.
func WithStats(stats *core.Stats) Option {
	return func(s *Session) { s.stats = stats }
}

// WithCapabilities overrides terminal capability detection.
func WithCapabilities(c Capabilities) Option {
	return func(s *Session) { s.caps = c }
}

// WithClock sets the time source used for double-click detection.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one interactive tree view bound to a terminal screen.
type Session struct {
	screen  tcell.Screen
	view    *viewer.Viewer
	sched   *animation.Scheduler
	canvas  *canvas.CellCanvas
	log     *zap.SugaredLogger
	caps    Capabilities
	fetcher Fetcher
	request client.TreeRequest
	stats   *core.Stats
	now     func() time.Time

	cellW, cellH float64
	fps          int
	hoverTick    time.Duration

	status   string
	fetching bool
	fetches  sync.WaitGroup

	pressed   bool
	lastClick time.Time
	lastCell  [2]int

	quit bool
}

// NewSession creates a session drawing v onto screen. The screen is
// initialized by Run.
func NewSession(screen tcell.Screen, v *viewer.Viewer, opts ...Option) *Session {
	s := &Session{
		screen: screen,
		view:   v,
		log:    zap.NewNop().Sugar(),
		caps:   DetectCapabilities(),
		now:    time.Now,
		cellW:  6,
		cellH:  12,
		fps:    animation.DefaultFPS,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher != nil {
		s.view.SetPruning(s.request.UseAlphaBeta)
	}
	if s.caps.CJK {
		runewidth.DefaultCondition.EastAsianWidth = true
	}
	s.sched = animation.NewScheduler(
		animation.PosterFunc(s.post),
		animation.WithFPS(s.fps),
		animation.WithHoverInterval(s.hoverTick),
		animation.WithLogger(s.log),
	)
	return s
}

func (s *Session) post(t animation.Tick) error {
	return s.screen.PostEvent(tcell.NewEventInterrupt(t))
}

// Run initializes the screen and processes events until the user quits or
// ctx is canceled. The screen is finalized before Run returns.
func (s *Session) Run(ctx context.Context) error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.fetches.Wait()
	}()

	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.HideCursor()
	s.resize()

	s.sched.Start()
	defer s.sched.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
		case <-done:
		}
	}()

	if s.view.Root() == nil {
		s.fetch(ctx)
	}
	s.draw()

	s.log.Infow("session started", "terminal", s.caps.Name, "fps", s.fps)
	for !s.quit {
		ev := s.screen.PollEvent()
		if ev == nil {
			break
		}
		s.handleEvent(ctx, ev)
	}
	s.log.Infow("session ended")
	return nil
}

// View returns the viewer driven by this session.
func (s *Session) View() *viewer.Viewer {
	return s.view
}

// Status returns the current status message.
func (s *Session) Status() string {
	return s.status
}

func (s *Session) handleEvent(ctx context.Context, ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		s.resize()
		s.restart()
		s.draw()

	case *tcell.EventKey:
		s.handleKey(ctx, e)
		if !s.quit {
			s.draw()
		}

	case *tcell.EventMouse:
		if s.handleMouse(e) {
			s.draw()
		}

	case *tcell.EventInterrupt:
		switch data := e.Data().(type) {
		case animation.Tick:
			if s.sched.Accept(data) {
				s.draw()
			}
		case fetchResult:
			s.applyFetch(data)
			if data.req != s.request {
				s.fetch(ctx)
			}
			s.draw()
		case quitEvent:
			s.quit = true
		}
	}
}

// resize sizes the canvas to the screen minus the chrome rows.
func (s *Session) resize() {
	cols, rows := s.screen.Size()
	rows -= chromeRows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c, err := canvas.NewCellCanvas(cols, rows, s.cellW, s.cellH)
	if err != nil {
		s.log.Errorw("canvas resize failed", "cols", cols, "rows", rows, "error", err)
		return
	}
	s.canvas = c
	w, h := c.Size()
	s.view.Resize(w, h)
}

// dispatch feeds one event to the view and keeps the hover ticker in step.
func (s *Session) dispatch(ev interaction.Event) bool {
	changed := s.view.Dispatch(ev)
	s.sched.SetHovering(s.view.State().IsHovering())
	return changed
}

// restart moves the scheduler to a new generation after a layout change. The
// layout change may have cleared the hover, so the hover ticker follows it.
func (s *Session) restart() {
	s.sched.Restart()
	s.sched.SetHovering(s.view.State().IsHovering())
}

// cellPoint maps a screen cell to the canvas pixel at its center.
func (s *Session) cellPoint(col, row int) geometry.Vec {
	return s.canvas.PixelAt(col, row)
}

func (s *Session) onCanvas(row int) bool {
	_, rows := s.canvas.Grid()
	return row >= 0 && row < rows
}

func (s *Session) handleMouse(e *tcell.EventMouse) bool {
	if s.canvas == nil {
		return false
	}
	col, row := e.Position()
	btn := e.Buttons()

	switch {
	case btn&tcell.WheelUp != 0:
		return s.dispatch(interaction.ZoomIn{})
	case btn&tcell.WheelDown != 0:
		return s.dispatch(interaction.ZoomOut{})
	}

	if !s.onCanvas(row) {
		changed := false
		if s.pressed {
			s.pressed = false
			_, rows := s.canvas.Grid()
			changed = s.dispatch(interaction.PointerUp{P: s.cellPoint(col, rows-1)})
		}
		return s.dispatch(interaction.PointerLeave{}) || changed
	}

	p := s.cellPoint(col, row)
	switch {
	case btn&tcell.Button1 != 0 && !s.pressed:
		s.pressed = true
		changed := s.dispatch(interaction.PointerMove{P: p})
		return s.dispatch(interaction.PointerDown{P: p}) || changed

	case btn&tcell.Button1 != 0:
		return s.dispatch(interaction.PointerMove{P: p})

	case s.pressed:
		s.pressed = false
		changed := s.dispatch(interaction.PointerUp{P: p})
		changed = s.dispatch(interaction.Click{P: p}) || changed

		now := s.now()
		cell := [2]int{col, row}
		if cell == s.lastCell && now.Sub(s.lastClick) <= DoubleClickWindow {
			changed = s.dispatch(interaction.DoubleClick{P: p}) || changed
			s.lastClick = time.Time{}
		} else {
			s.lastClick = now
			s.lastCell = cell
		}
		return changed

	default:
		return s.dispatch(interaction.PointerMove{P: p})
	}
}

// fetch starts a tree request unless one is already in flight. The result
// is applied whenever it arrives, even if the depth changed meanwhile.
func (s *Session) fetch(ctx context.Context) {
	if s.fetcher == nil {
		s.status = "no search service configured"
		return
	}
	if s.fetching {
		return
	}
	s.fetching = true
	s.status = "fetching decision tree…"

	req := s.request
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		doc, err := s.fetcher.DecisionTree(ctx, req)
		if perr := s.screen.PostEvent(tcell.NewEventInterrupt(fetchResult{req: req, doc: doc, err: err})); perr != nil {
			s.log.Warnw("fetch result dropped", "error", perr)
		}
	}()
}

func (s *Session) applyFetch(r fetchResult) {
	s.fetching = false
	if r.err != nil {
		s.status = "fetch failed: " + r.err.Error()
		s.log.Errorw("decision tree fetch failed", "error", r.err)
		return
	}
	s.stats = r.doc.Stats
	s.view.SetTree(r.doc.Tree.Root)
	s.restart()
	if r.doc.Tree.Root == nil {
		s.status = "service returned no tree"
		return
	}
	s.status = fmt.Sprintf("loaded %d nodes", r.doc.Tree.Root.Count())
}

func (s *Session) draw() {
	if s.canvas == nil {
		return
	}
	s.view.Render(s.canvas)
	s.canvas.Draw(s.screen, 0, 0)

	cols, rows := s.screen.Size()
	s.drawLegend(rows-2, cols)
	s.drawStatus(rows-1, cols)
	s.screen.Show()
}
