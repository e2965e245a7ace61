package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/aitranslator/internal/translation"
)

// copiedIndicatorDuration is how long the "copied" note stays visible.
const copiedIndicatorDuration = 1500 * time.Millisecond

// ResultView shows the translated text with its language header
type ResultView struct {
	widget.BaseWidget

	container   *fyne.Container
	header      *widget.Label
	text        *widget.Label
	copiedLabel *widget.Label

	translated string
	hideTimer  *time.Timer
}

// NewResultView creates a new, empty result view
func NewResultView() *ResultView {
	v := &ResultView{}

	v.header = widget.NewLabel(resultHeader(""))
	v.header.TextStyle = fyne.TextStyle{Bold: true}

	v.text = widget.NewLabel("")
	v.text.Wrapping = fyne.TextWrapWord

	v.copiedLabel = widget.NewLabel("コピーしました")
	v.copiedLabel.Importance = widget.SuccessImportance
	v.copiedLabel.Hide()

	v.container = container.NewBorder(
		v.header,
		v.copiedLabel,
		nil, nil,
		container.NewVScroll(v.text),
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *ResultView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// SetResult displays a translation
func (v *ResultView) SetResult(text string, target translation.Language) {
	v.translated = text
	v.text.SetText(text)
	v.header.SetText(resultHeader(target))
}

// Text returns the displayed translation
func (v *ResultView) Text() string {
	return v.translated
}

// Clear empties the view
func (v *ResultView) Clear() {
	v.translated = ""
	v.text.SetText("")
	v.header.SetText(resultHeader(""))
	v.copiedLabel.Hide()
}

// ShowCopied shows the copied indicator for a moment
func (v *ResultView) ShowCopied() {
	v.copiedLabel.Show()
	if v.hideTimer != nil {
		v.hideTimer.Stop()
	}
	v.hideTimer = time.AfterFunc(copiedIndicatorDuration, func() {
		fyne.Do(v.copiedLabel.Hide)
	})
}

func sourceHeader(lang translation.Language) string {
	if lang == "" {
		return "入力"
	}
	return fmt.Sprintf("入力 (%s)", lang)
}

func resultHeader(lang translation.Language) string {
	if lang == "" {
		return "翻訳結果"
	}
	return fmt.Sprintf("翻訳結果 (%s)", lang)
}
