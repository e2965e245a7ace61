package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// SourceEntry is the multi-line input for the text to translate. It hands
// keyboard shortcuts to the window before falling back to the normal entry
// behaviour, so window shortcuts keep working while it has focus.
type SourceEntry struct {
	widget.Entry
	onEscape   func()
	onShortcut func(fyne.Shortcut) bool
}

// NewSourceEntry creates a new source entry
func NewSourceEntry() *SourceEntry {
	entry := &SourceEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *SourceEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut offers the shortcut to the window handler first.
func (e *SourceEntry) TypedShortcut(s fyne.Shortcut) {
	if e.onShortcut != nil && e.onShortcut(s) {
		return
	}
	e.Entry.TypedShortcut(s)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *SourceEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// SetOnShortcut sets the handler consulted for every shortcut. It returns
// true when it consumed the shortcut.
func (e *SourceEntry) SetOnShortcut(f func(fyne.Shortcut) bool) {
	e.onShortcut = f
}
