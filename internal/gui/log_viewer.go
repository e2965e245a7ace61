package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogBuffer keeps the most recent log lines for the log window. It is an
// io.Writer so it can sit behind a slog handler next to stderr.
type LogBuffer struct {
	mu       sync.Mutex
	lines    []string
	max      int
	partial  string
	onChange func()
}

// NewLogBuffer creates a buffer holding at most limit lines.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = 1000
	}
	return &LogBuffer{max: limit}
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		if line == "" {
			continue
		}
		b.lines = append(b.lines, line)
	}
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return len(p), nil
}

// Lines returns the buffered lines, newest first.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[len(b.lines)-1-i] = line
	}
	return out
}

// Clear drops all buffered lines.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.lines = nil
	b.partial = ""
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (b *LogBuffer) setOnChange(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = f
}

// LogViewer is a widget that displays log messages
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	buffer     *LogBuffer
}

// NewLogViewer creates a viewer over buffer and keeps it updated.
func NewLogViewer(buffer *LogBuffer) *LogViewer {
	v := &LogViewer{buffer: buffer}

	// Create log entry (read-only multiline)
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(600, 300))

	clearButton := widget.NewButton("クリア", buffer.Clear)

	v.container = container.NewBorder(
		widget.NewLabel("ログ (新しい順):"),
		container.NewHBox(clearButton),
		nil,
		nil,
		v.scrollView,
	)

	v.refresh()
	buffer.setOnChange(func() {
		fyne.Do(v.refresh)
	})

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// Detach stops updates from the buffer.
func (v *LogViewer) Detach() {
	v.buffer.setOnChange(nil)
}

func (v *LogViewer) refresh() {
	v.logEntry.SetText(strings.Join(v.buffer.Lines(), "\n"))
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
