package gui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// doubleCopyWindow is how close two Ctrl+C presses must be to paste.
const doubleCopyWindow = 500 * time.Millisecond

var (
	translateShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault}
	settingsShortcut  = &desktop.CustomShortcut{KeyName: fyne.KeyComma, Modifier: fyne.KeyModifierShortcutDefault}
)

// tapDetector recognises two presses within a time window.
type tapDetector struct {
	window time.Duration
	now    func() time.Time
	last   time.Time
}

func newTapDetector(window time.Duration) *tapDetector {
	return &tapDetector{window: window, now: time.Now}
}

// Tap records a press and reports whether it completes a double press. A
// completed double press resets the detector, so a third quick press
// starts a new pair.
func (d *tapDetector) Tap() bool {
	now := d.now()
	double := !d.last.IsZero() && now.Sub(d.last) < d.window
	if double {
		d.last = time.Time{}
	} else {
		d.last = now
	}
	return double
}

// isTranslateShortcut matches Ctrl+Enter on both the main and keypad keys.
func isTranslateShortcut(s fyne.Shortcut) bool {
	cs, ok := s.(*desktop.CustomShortcut)
	if !ok {
		return false
	}
	return (cs.KeyName == fyne.KeyReturn || cs.KeyName == fyne.KeyEnter) &&
		cs.Modifier == fyne.KeyModifierShortcutDefault
}

func isSettingsShortcut(s fyne.Shortcut) bool {
	cs, ok := s.(*desktop.CustomShortcut)
	return ok && cs.KeyName == fyne.KeyComma && cs.Modifier == fyne.KeyModifierShortcutDefault
}

func isCopyShortcut(s fyne.Shortcut) bool {
	_, ok := s.(*fyne.ShortcutCopy)
	return ok
}
