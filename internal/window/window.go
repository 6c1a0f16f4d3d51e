// Package window shows a scene in a desktop window.
package window

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/facet/internal/app"
	"github.com/taigrr/facet/pkg/render"
)

// keys maps binding names to ebiten keys. Names without an entry
// ("ctrl+c") are terminal-only.
var keys = map[string]ebiten.Key{
	"w":     ebiten.KeyW,
	"s":     ebiten.KeyS,
	"a":     ebiten.KeyA,
	"d":     ebiten.KeyD,
	"r":     ebiten.KeyR,
	"f":     ebiten.KeyF,
	"q":     ebiten.KeyQ,
	"e":     ebiten.KeyE,
	"x":     ebiten.KeyX,
	"t":     ebiten.KeyT,
	"i":     ebiten.KeyI,
	"l":     ebiten.KeyL,
	"0":     ebiten.KeyDigit0,
	"1":     ebiten.KeyDigit1,
	"?":     ebiten.KeySlash,
	"left":  ebiten.KeyArrowLeft,
	"right": ebiten.KeyArrowRight,
	"up":    ebiten.KeyArrowUp,
	"down":  ebiten.KeyArrowDown,
	"space": ebiten.KeySpace,
	"esc":   ebiten.KeyEscape,
}

type game struct {
	scene    *app.Scene
	bindings app.Bindings
	fps      int

	fb     *render.Framebuffer
	img    *ebiten.Image
	frames int
	since  time.Time
	rate   float64
}

// Run opens a width×height window and blocks until it is closed or the
// quit key is pressed.
func Run(s *app.Scene, width, height, fps int) error {
	g := &game{
		scene:    s,
		bindings: app.DefaultBindings(),
		fps:      fps,
		fb:       render.NewFramebuffer(width, height),
		since:    time.Now(),
	}
	ebiten.SetWindowTitle("facet")
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(fps)
	err := ebiten.RunGame(g)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

func (g *game) Update() error {
	var in render.Intent
	for name, intent := range g.bindings.Intents {
		if k, ok := keys[name]; ok && ebiten.IsKeyPressed(k) {
			in |= intent
		}
	}
	for name, a := range g.bindings.Actions {
		k, ok := keys[name]
		if !ok || !inpututil.IsKeyJustPressed(k) {
			continue
		}
		if g.scene.Apply(a) {
			return ebiten.Termination
		}
	}
	g.scene.Tick(in, 1/float64(g.fps))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w, h := g.fb.Size()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}

	g.scene.Draw(g.fb)
	g.img.WritePixels(g.fb.Image().Pix)
	screen.DrawImage(g.img, nil)

	g.frames++
	if el := time.Since(g.since); el >= time.Second {
		g.rate = float64(g.frames) / el.Seconds()
		g.frames, g.since = 0, time.Now()
	}
	if g.scene.HUD {
		ebitenutil.DebugPrint(screen, g.scene.Status(g.rate))
	}
}

// Layout resizes the framebuffer to follow the window.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.fb.Size()
	}
	if w, h := g.fb.Size(); w != outsideWidth || h != outsideHeight {
		g.fb.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
