package app

import (
	"time"

	"github.com/taigrr/facet/pkg/render"
)

// Action is a one-shot command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleFill
	ActionToggleWireframe
	ActionToggleTexture
	ActionToggleInset
	ActionToggleHUD
	ActionToggleLight
	ActionSpin
	ActionReset
)

// Bindings maps key names to held intents and one-shot actions. Key names
// follow the terminal's spelling ("w", "up", "ctrl+c").
type Bindings struct {
	Intents map[string]render.Intent
	Actions map[string]Action
}

// DefaultBindings returns WASD movement, arrows for pitch and yaw and
// Q/E for roll.
func DefaultBindings() Bindings {
	return Bindings{
		Intents: map[string]render.Intent{
			"w":     render.IntentForward,
			"s":     render.IntentBackward,
			"a":     render.IntentLeft,
			"d":     render.IntentRight,
			"r":     render.IntentUp,
			"f":     render.IntentDown,
			"left":  render.IntentYawLeft,
			"right": render.IntentYawRight,
			"up":    render.IntentPitchUp,
			"down":  render.IntentPitchDown,
			"q":     render.IntentRollLeft,
			"e":     render.IntentRollRight,
		},
		Actions: map[string]Action{
			"esc":    ActionQuit,
			"ctrl+c": ActionQuit,
			"1":      ActionToggleFill,
			"x":      ActionToggleWireframe,
			"t":      ActionToggleTexture,
			"i":      ActionToggleInset,
			"?":      ActionToggleHUD,
			"l":      ActionToggleLight,
			"space":  ActionSpin,
			"0":      ActionReset,
		},
	}
}

// Lookup returns the intent and action bound to the first key name for
// which match reports true.
func (b Bindings) Lookup(match func(key string) bool) (render.Intent, Action) {
	for key, in := range b.Intents {
		if match(key) {
			return in, ActionNone
		}
	}
	for key, a := range b.Actions {
		if match(key) {
			return 0, a
		}
	}
	return 0, ActionNone
}

// HeldKeys turns press and release events into an Intent snapshot.
// Terminals often report presses only, as key repeats, so a press also
// expires after the hold window unless it is repeated.
type HeldKeys struct {
	hold    time.Duration
	pressed map[render.Intent]time.Time
}

// NewHeldKeys creates a tracker with the given hold window.
func NewHeldKeys(hold time.Duration) *HeldKeys {
	return &HeldKeys{hold: hold, pressed: make(map[render.Intent]time.Time)}
}

// Press marks in as held at now.
func (h *HeldKeys) Press(in render.Intent, now time.Time) {
	if in != 0 {
		h.pressed[in] = now
	}
}

// Release clears in.
func (h *HeldKeys) Release(in render.Intent) {
	delete(h.pressed, in)
}

// Intent returns every intent pressed within the hold window before now.
func (h *HeldKeys) Intent(now time.Time) render.Intent {
	var out render.Intent
	for in, at := range h.pressed {
		if now.Sub(at) > h.hold {
			delete(h.pressed, in)
			continue
		}
		out |= in
	}
	return out
}
