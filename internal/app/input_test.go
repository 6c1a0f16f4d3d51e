package app

import (
	"testing"
	"time"

	"github.com/taigrr/facet/pkg/render"
)

func TestBindingsLookup(t *testing.T) {
	b := DefaultBindings()
	tests := []struct {
		key    string
		intent render.Intent
		action Action
	}{
		{"w", render.IntentForward, ActionNone},
		{"left", render.IntentYawLeft, ActionNone},
		{"q", render.IntentRollLeft, ActionNone},
		{"esc", 0, ActionQuit},
		{"x", 0, ActionToggleWireframe},
		{"z", 0, ActionNone},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			in, a := b.Lookup(func(k string) bool { return k == tc.key })
			if in != tc.intent || a != tc.action {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tc.key, in, a, tc.intent, tc.action)
			}
		})
	}
}

func TestBindingsCoverEveryIntent(t *testing.T) {
	var all render.Intent
	for _, in := range DefaultBindings().Intents {
		if all&in != 0 {
			t.Errorf("intent %b bound twice", in)
		}
		all |= in
	}
	if want := render.IntentRollRight<<1 - 1; all != want {
		t.Errorf("bound intents = %b, want %b", all, want)
	}
}

func TestHeldKeys(t *testing.T) {
	t0 := time.Unix(100, 0)
	h := NewHeldKeys(150 * time.Millisecond)

	h.Press(render.IntentForward, t0)
	h.Press(render.IntentYawLeft, t0.Add(100*time.Millisecond))
	if got := h.Intent(t0.Add(120 * time.Millisecond)); got != render.IntentForward|render.IntentYawLeft {
		t.Errorf("Intent = %b", got)
	}

	if got := h.Intent(t0.Add(200 * time.Millisecond)); got != render.IntentYawLeft {
		t.Errorf("after forward expired: Intent = %b", got)
	}

	h.Press(render.IntentForward, t0.Add(210*time.Millisecond))
	h.Release(render.IntentYawLeft)
	if got := h.Intent(t0.Add(220 * time.Millisecond)); got != render.IntentForward {
		t.Errorf("after release: Intent = %b", got)
	}

	h.Press(0, t0)
	if got := h.Intent(t0.Add(time.Second)); got != 0 {
		t.Errorf("stale intents = %b", got)
	}
}
