package hotkey

import (
	"testing"

	gohook "github.com/robotn/gohook"
)

func TestRawcodesFor(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		// Modifier keys
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"win", []uint16{91, 92}},
		{"cmd", []uint16{91, 92}},
		{"super", []uint16{91, 92}},

		// Letters and digits
		{"a", []uint16{65}},
		{"q", []uint16{81}},
		{"z", []uint16{90}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},

		// Function keys
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},

		// Special keys
		{"space", []uint16{32}},
		{"enter", []uint16{13}},
		{"esc", []uint16{27}},

		// Unknown
		{"f25", nil},
		{"f0", nil},
		{"fx", nil},
		{"unknown", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			result := rawcodesFor(tt.keyName)
			if len(result) != len(tt.expected) {
				t.Fatalf("rawcodesFor(%q) returned %v, expected %v", tt.keyName, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("rawcodesFor(%q)[%d] = %d, expected %d", tt.keyName, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseCombo(t *testing.T) {
	tests := []struct {
		combo    string
		expected []string
	}{
		{"F1", []string{"f1"}},
		{"Ctrl+Alt+Q", []string{"ctrl", "alt", "q"}},
		{" Ctrl + Shift + s ", []string{"ctrl", "shift", "s"}},
		{"", nil},
		{"+", nil},
	}
	for _, tt := range tests {
		got := parseCombo(tt.combo)
		if len(got) != len(tt.expected) {
			t.Errorf("parseCombo(%q) = %v, expected %v", tt.combo, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("parseCombo(%q)[%d] = %q, expected %q", tt.combo, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestNewRejectsUnknownKeys(t *testing.T) {
	if _, err := New("Ctrl+Banana"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := New(""); err == nil {
		t.Error("expected error for empty combo")
	}
}

func TestNewValidCombo(t *testing.T) {
	r, err := New("Ctrl+Alt+S")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Combo() != "Ctrl+Alt+S" {
		t.Errorf("Combo() = %q", r.Combo())
	}
	if len(r.keys) != 3 {
		t.Errorf("parsed %d keys, expected 3", len(r.keys))
	}
	// Unregister without Register must be a no-op.
	r.Unregister()
}

func TestMatch(t *testing.T) {
	r, err := New("Ctrl+Q")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if idx := r.match(162); idx != 0 {
		t.Errorf("match(VK_LCONTROL) = %d, expected 0", idx)
	}
	if idx := r.match(163); idx != 0 {
		t.Errorf("match(VK_RCONTROL) = %d, expected 0", idx)
	}
	if idx := r.match(81); idx != 1 {
		t.Errorf("match(VK_Q) = %d, expected 1", idx)
	}
	if idx := r.match(65); idx != -1 {
		t.Errorf("match(VK_A) = %d, expected -1", idx)
	}
}

func TestStepFiresOncePerPhysicalPress(t *testing.T) {
	r, err := New("F1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pressed := make([]bool, len(r.keys))
	const f1 = 112

	if !r.step(pressed, gohook.KeyDown, f1) {
		t.Fatal("initial KeyDown should fire")
	}

	// Auto-repeat while the key stays held must not re-fire.
	for i := 0; i < 10; i++ {
		if r.step(pressed, gohook.KeyHold, f1) {
			t.Fatalf("KeyHold repeat %d fired", i)
		}
	}

	if r.step(pressed, gohook.KeyUp, f1) {
		t.Fatal("KeyUp should not fire")
	}
	if !r.step(pressed, gohook.KeyDown, f1) {
		t.Fatal("KeyDown after release should fire again")
	}
}

func TestStepComboHeldModifier(t *testing.T) {
	r, err := New("ctrl+s")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pressed := make([]bool, len(r.keys))
	const (
		lctrl = 162
		keyS  = 83
	)

	if r.step(pressed, gohook.KeyDown, lctrl) {
		t.Fatal("modifier alone should not fire")
	}
	if !r.step(pressed, gohook.KeyDown, keyS) {
		t.Fatal("completing the combination should fire")
	}

	// Ctrl is still physically held; its repeats restore the pressed mark
	// without firing.
	if r.step(pressed, gohook.KeyHold, lctrl) {
		t.Fatal("held modifier repeat fired")
	}
	if r.step(pressed, gohook.KeyHold, keyS) {
		t.Fatal("held key repeat fired")
	}

	// Releasing and re-pressing the non-modifier fires again.
	if r.step(pressed, gohook.KeyUp, keyS) {
		t.Fatal("KeyUp should not fire")
	}
	if !r.step(pressed, gohook.KeyDown, keyS) {
		t.Fatal("second press with modifier held should fire")
	}
}

func TestStepIgnoresUnrelatedKeys(t *testing.T) {
	r, err := New("F1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pressed := make([]bool, len(r.keys))

	if r.step(pressed, gohook.KeyDown, 65) {
		t.Fatal("unrelated key fired")
	}
	if pressed[0] {
		t.Fatal("unrelated key touched the pressed set")
	}
}
