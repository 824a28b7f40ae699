// Package hotkey registers one system-wide key combination for the lifetime
// of the process. Registration failure is non-fatal: the caller logs it and
// the application stays usable through its other triggers.
package hotkey

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// ErrAlreadyRegistered is returned by Register when the hook is running.
var ErrAlreadyRegistered = errors.New("hotkey: already registered")

// key is one member of the combination, with the rawcodes that satisfy it
// (modifiers match either their left or right variant).
type key struct {
	name     string
	rawcodes []uint16
}

// Registrar owns the global keyboard hook for a single combination.
// Register and Unregister bracket its lifetime; the zero Registrar is not
// usable, construct with New.
type Registrar struct {
	combo string
	keys  []key

	mu         sync.Mutex
	registered bool
}

// New parses a combination such as "F1" or "Ctrl+Alt+S". Every named key
// must map to a known virtual-key code.
func New(combo string) (*Registrar, error) {
	names := parseCombo(combo)
	if len(names) == 0 {
		return nil, fmt.Errorf("hotkey: empty combination %q", combo)
	}
	keys := make([]key, 0, len(names))
	for _, name := range names {
		rawcodes := rawcodesFor(name)
		if len(rawcodes) == 0 {
			return nil, fmt.Errorf("hotkey: unknown key %q in %q", name, combo)
		}
		keys = append(keys, key{name: name, rawcodes: rawcodes})
	}
	return &Registrar{combo: combo, keys: keys}, nil
}

// Combo returns the combination string the registrar was built from.
func (r *Registrar) Combo() string { return r.combo }

// Register starts the global hook and invokes callback each time every key
// of the combination is held down together. The callback runs on the hook
// goroutine; it should hand off quickly (post to a channel).
func (r *Registrar) Register(callback func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registered {
		return ErrAlreadyRegistered
	}

	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("hotkey: failed to install keyboard hook")
	}
	r.registered = true
	log.Printf("Hotkey registered: %s", r.combo)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("PANIC in hotkey goroutine: %v", rec)
			}
		}()

		pressed := make([]bool, len(r.keys))
		for ev := range evChan {
			if r.step(pressed, ev.Kind, ev.Rawcode) {
				log.Printf("Hotkey combination detected: %s", r.combo)
				if callback != nil {
					callback()
				}
			}
		}
		log.Printf("Hotkey event channel closed")
	}()

	return nil
}

// Unregister removes the hook. Safe to call when not registered.
func (r *Registrar) Unregister() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.registered {
		return
	}
	gohook.End()
	r.registered = false
	log.Printf("Hotkey unregistered: %s", r.combo)
}

// step folds one keyboard event into the pressed set and reports whether the
// full combination fired. Only a fresh KeyDown can complete the combination:
// auto-repeat (KeyHold) keeps held modifiers marked but never fires, so a
// held hotkey triggers once per physical press.
func (r *Registrar) step(pressed []bool, kind uint8, rawcode uint16) bool {
	idx := r.match(rawcode)
	if idx < 0 {
		return false
	}
	switch kind {
	case gohook.KeyDown:
		pressed[idx] = true
		if allPressed(pressed) {
			for i := range pressed {
				pressed[i] = false
			}
			return true
		}
	case gohook.KeyHold:
		pressed[idx] = true
	case gohook.KeyUp:
		pressed[idx] = false
	}
	return false
}

func (r *Registrar) match(rawcode uint16) int {
	for i := range r.keys {
		for _, rc := range r.keys[i].rawcodes {
			if rc == rawcode {
				return i
			}
		}
	}
	return -1
}

func allPressed(pressed []bool) bool {
	for _, p := range pressed {
		if !p {
			return false
		}
	}
	return true
}

// parseCombo lowercases and splits "Ctrl+Alt+s" into its key names.
func parseCombo(combo string) []string {
	var names []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// specialRawcodes covers keys that cannot be derived from their name.
// Values are Windows virtual-key codes; modifiers list both variants.
var specialRawcodes = map[string][]uint16{
	"ctrl":      {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":       {164, 165}, // VK_LMENU, VK_RMENU
	"shift":     {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"win":       {91, 92},   // VK_LWIN, VK_RWIN
	"cmd":       {91, 92},
	"super":     {91, 92},
	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

// rawcodesFor maps a key name to its virtual-key rawcodes. Letters, digits
// and function keys are computed; everything else comes from the table.
func rawcodesFor(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if rc, ok := specialRawcodes[name]; ok {
		return rc
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65} // VK_A..VK_Z
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48} // VK_0..VK_9
		}
	}
	if strings.HasPrefix(name, "f") && len(name) > 1 {
		n := 0
		for _, ch := range name[1:] {
			if ch < '0' || ch > '9' {
				return nil
			}
			n = n*10 + int(ch-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)} // VK_F1 = 112
		}
	}
	return nil
}
