package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/facet/pkg/render"
)

// keyHold is how long a terminal key press counts as held without a
// repeat or release.
const keyHold = 150 * time.Millisecond

// maxStep caps the simulated time of one frame so a stall does not fling
// the camera.
const maxStep = 0.1

var (
	hudFg = render.RGB(230, 230, 230)
	hudBg = render.RGB(20, 20, 28)
)

// termEvent is what the event goroutine hands to the frame loop.
type termEvent struct {
	intent   render.Intent
	action   Action
	release  bool
	resize   bool
	w, h     int
	received time.Time
}

// RunTerminal draws s in the terminal at fps frames per second until the
// user quits or ctx is cancelled. Input is applied between frames.
func RunTerminal(ctx context.Context, s *Scene, fps int) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	fb := render.NewFramebuffer(render.TerminalSize(width, height))
	bindings := DefaultBindings()
	held := NewHeldKeys(keyHold)

	events := make(chan termEvent, 64)
	go func() {
		for ev := range term.Events() {
			if te, ok := translate(ev, bindings); ok {
				te.received = time.Now()
				select {
				case events <- te:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	frame := time.Second / time.Duration(max(fps, 1))
	last := time.Now()
	var meter fpsMeter
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				switch {
				case ev.resize:
					width, height = ev.w, ev.h
					term.Erase()
					term.Resize(width, height)
					fb.Resize(render.TerminalSize(width, height))
				case ev.action != ActionNone:
					if s.Apply(ev.action) {
						return nil
					}
				case ev.release:
					held.Release(ev.intent)
				default:
					held.Press(ev.intent, ev.received)
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(last).Seconds(), maxStep)
		last = now

		s.Tick(held.Intent(now), dt)
		s.Draw(fb)
		fb.Draw(term, uv.Rect(0, 0, width, height))
		if s.HUD {
			drawText(term, 0, height-1, width, s.Status(meter.tick(now)))
		}
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}

// translate maps a terminal event to a termEvent. Unbound keys are dropped.
func translate(ev uv.Event, b Bindings) (termEvent, bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return termEvent{resize: true, w: ev.Width, h: ev.Height}, true
	case uv.KeyPressEvent:
		in, a := b.Lookup(func(key string) bool { return ev.MatchString(key) })
		return termEvent{intent: in, action: a}, in != 0 || a != ActionNone
	case uv.KeyReleaseEvent:
		in, _ := b.Lookup(func(key string) bool { return ev.MatchString(key) })
		return termEvent{intent: in, release: true}, in != 0
	}
	return termEvent{}, false
}

// drawText writes a single styled line at row y, padded to width.
func drawText(scr uv.Screen, x, y, width int, text string) {
	style := uv.Style{Fg: hudFg, Bg: hudBg}
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		scr.SetCell(col, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		col++
	}
	for ; col < width; col++ {
		scr.SetCell(col, y, &uv.Cell{Content: " ", Width: 1, Style: style})
	}
}

// fpsMeter averages frame rate over one-second windows.
type fpsMeter struct {
	start  time.Time
	frames int
	fps    float64
}

func (m *fpsMeter) tick(now time.Time) float64 {
	if m.start.IsZero() {
		m.start = now
	}
	m.frames++
	if elapsed := now.Sub(m.start); elapsed >= time.Second {
		m.fps = float64(m.frames) / elapsed.Seconds()
		m.frames = 0
		m.start = now
	}
	return m.fps
}
