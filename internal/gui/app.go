package gui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/aitranslator/internal"
	"codeberg.org/snonux/aitranslator/internal/processor"
	"codeberg.org/snonux/aitranslator/internal/settings"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	sourceEntry     *SourceEntry
	sourceHeader    *widget.Label
	translateButton *ttwidget.Button
	pasteButton     *ttwidget.Button
	clearButton     *ttwidget.Button
	copyButton      *ttwidget.Button
	result          *ResultView
	errorLabel      *widget.Label
	statusLabel     *widget.Label

	// State management, only touched on the UI goroutine
	translating bool
	copyTaps    *tapDetector

	proc   *processor.Processor
	logger *slog.Logger
	logs   *LogBuffer

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds GUI application configuration
type Config struct {
	// Logs, when set, backs the log window.
	Logs   *LogBuffer
	Logger *slog.Logger
}

// clipboardAdapter exposes the window clipboard to the processor.
type clipboardAdapter struct {
	window fyne.Window
}

func (c clipboardAdapter) Content() string {
	return c.window.Clipboard().Content()
}

func (c clipboardAdapter) SetContent(content string) {
	c.window.Clipboard().SetContent(content)
}

// New creates a new GUI application
func New(proc *processor.Processor, config *Config) *Application {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logs := config.Logs
	if logs == nil {
		logs = NewLogBuffer(0)
	}

	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.codeberg.snonux.aitranslator")
	myApp.SetIcon(theme.ComputerIcon())

	a := &Application{
		app:      myApp,
		proc:     proc,
		logger:   logger,
		logs:     logs,
		copyTaps: newTapDetector(doubleCopyWindow),
		ctx:      ctx,
		cancel:   cancel,
	}

	a.applyTheme(proc.Theme())
	a.setupUI()
	proc.SetClipboard(clipboardAdapter{window: a.window})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("%s v%s", internal.AppName, internal.Version))
	a.window.Resize(fyne.NewSize(800, 600))

	// Source section
	a.sourceEntry = NewSourceEntry()
	a.sourceEntry.SetPlaceHolder("翻訳するテキストを入力してください...")
	a.sourceEntry.OnChanged = func(string) {
		a.updateTranslateButton()
	}
	a.sourceEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})
	a.sourceEntry.SetOnShortcut(a.handleShortcut)

	a.sourceHeader = widget.NewLabel(sourceHeader(""))
	a.sourceHeader.TextStyle = fyne.TextStyle{Bold: true}

	// Buttons (tooltips are set after the tooltip layer exists)
	a.pasteButton = ttwidget.NewButtonWithIcon("貼り付け", theme.ContentPasteIcon(), a.onPaste)
	a.clearButton = ttwidget.NewButtonWithIcon("クリア", theme.ContentClearIcon(), a.onClear)
	a.translateButton = ttwidget.NewButtonWithIcon("翻訳", theme.MailForwardIcon(), a.onTranslate)
	a.translateButton.Importance = widget.HighImportance
	a.copyButton = ttwidget.NewButtonWithIcon("コピー", theme.ContentCopyIcon(), a.onCopy)
	a.copyButton.Hide()

	sourceSection := container.NewBorder(
		container.NewBorder(nil, nil, a.sourceHeader, container.NewHBox(a.pasteButton, a.clearButton)),
		nil, nil, nil,
		a.sourceEntry,
	)

	// Result section
	a.result = NewResultView()
	a.errorLabel = widget.NewLabel("")
	a.errorLabel.Importance = widget.DangerImportance
	a.errorLabel.Wrapping = fyne.TextWrapWord
	a.errorLabel.Hide()

	resultSection := container.NewBorder(
		container.NewHBox(layout.NewSpacer(), a.copyButton),
		a.errorLabel,
		nil, nil,
		a.result,
	)

	actions := container.NewHBox(layout.NewSpacer(), a.translateButton, layout.NewSpacer())

	split := container.NewVSplit(
		sourceSection,
		container.NewBorder(actions, nil, nil, nil, resultSection),
	)
	split.SetOffset(0.45)

	a.statusLabel = widget.NewLabel("準備完了")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(), a.statusLabel),
		nil, nil,
		split,
	)

	a.window.SetMainMenu(a.buildMenu())

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.wg.Wait()
	})

	a.setupKeyboardShortcuts()
	a.updateTranslateButton()
}

func (a *Application) buildMenu() *fyne.MainMenu {
	settingsItem := fyne.NewMenuItem("設定", a.showSettings)
	quitItem := fyne.NewMenuItem("終了", func() { a.app.Quit() })
	quitItem.IsQuit = true

	return fyne.NewMainMenu(
		fyne.NewMenu("ファイル",
			settingsItem,
			fyne.NewMenuItemSeparator(),
			quitItem,
		),
		fyne.NewMenu("ヘルプ",
			fyne.NewMenuItem("ログ", a.showLogWindow),
			fyne.NewMenuItem("バージョン情報", a.showAbout),
		),
	)
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.pasteButton.SetToolTip("クリップボードから貼り付け (Ctrl+C を2回)")
	a.clearButton.SetToolTip("入力と結果をクリア")
	a.translateButton.SetToolTip("翻訳 (Ctrl+Enter)")
	a.copyButton.SetToolTip("翻訳結果をコピー")
}

// Run starts the GUI application. The settings dialog opens first when no
// API key is configured.
func (a *Application) Run() {
	if !a.proc.HasCredential() {
		a.showSettings()
	} else {
		a.window.Canvas().Focus(a.sourceEntry)
	}
	a.window.ShowAndRun()
}

// onTranslate starts a translation in the background
func (a *Application) onTranslate() {
	if a.translating {
		return
	}

	text := a.sourceEntry.Text
	if strings.TrimSpace(text) == "" {
		a.showError("翻訳するテキストを入力してください。")
		return
	}
	if !a.proc.HasCredential() {
		a.showError("APIキーが設定されていません。設定画面で設定してください。")
		a.showSettings()
		return
	}

	a.setTranslating(true)
	a.clearError()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		resp := a.proc.Translate(a.ctx, text)

		fyne.Do(func() {
			a.setTranslating(false)
			if !resp.OK() {
				a.showError(resp.Error)
				return
			}
			a.sourceHeader.SetText(sourceHeader(resp.SourceLanguage))
			a.result.SetResult(resp.TranslatedText, resp.TargetLanguage)
			a.copyButton.Show()
			a.updateStatus(fmt.Sprintf("%s → %s", resp.SourceLanguage, resp.TargetLanguage))
		})
	}()
}

func (a *Application) onPaste() {
	if text := a.proc.ReadClipboard(); text != "" {
		a.sourceEntry.SetText(text)
	}
}

func (a *Application) onClear() {
	a.sourceEntry.SetText("")
	a.sourceHeader.SetText(sourceHeader(""))
	a.result.Clear()
	a.copyButton.Hide()
	a.clearError()
	a.window.Canvas().Focus(a.sourceEntry)
}

func (a *Application) onCopy() {
	text := a.result.Text()
	if text == "" {
		return
	}
	a.proc.CopyToClipboard(text)
	a.result.ShowCopied()
}

// onCopyKey is called for every Ctrl+C. The second press within
// doubleCopyWindow pastes the clipboard into the source and reports true.
func (a *Application) onCopyKey() bool {
	if !a.copyTaps.Tap() {
		return false
	}
	a.onPaste()
	return true
}

// handleShortcut dispatches window shortcuts. It returns true when the
// shortcut was consumed.
func (a *Application) handleShortcut(s fyne.Shortcut) bool {
	switch {
	case isTranslateShortcut(s):
		if !a.translateButton.Disabled() {
			a.onTranslate()
		}
		return true
	case isSettingsShortcut(s):
		a.showSettings()
		return true
	case isCopyShortcut(s):
		return a.onCopyKey()
	}
	return false
}

// setupKeyboardShortcuts registers shortcuts for when no entry has focus
func (a *Application) setupKeyboardShortcuts() {
	canvas := a.window.Canvas()
	for _, s := range []fyne.Shortcut{translateShortcut, settingsShortcut, &fyne.ShortcutCopy{}} {
		canvas.AddShortcut(s, func(s fyne.Shortcut) {
			a.handleShortcut(s)
		})
	}
}

func (a *Application) setTranslating(translating bool) {
	a.translating = translating
	if translating {
		a.translateButton.SetText("翻訳中...")
		a.updateStatus("翻訳中...")
	} else {
		a.translateButton.SetText("翻訳")
		a.updateStatus("準備完了")
	}
	a.updateTranslateButton()
}

func (a *Application) updateTranslateButton() {
	if a.translating || strings.TrimSpace(a.sourceEntry.Text) == "" {
		a.translateButton.Disable()
	} else {
		a.translateButton.Enable()
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(message string) {
	a.errorLabel.SetText(message)
	a.errorLabel.Show()
}

func (a *Application) clearError() {
	a.errorLabel.SetText("")
	a.errorLabel.Hide()
}

func (a *Application) applyTheme(pref settings.Theme) {
	a.app.Settings().SetTheme(themeFor(pref))
}

func (a *Application) showAbout() {
	dialog.ShowInformation("バージョン情報", internal.BuildInfo(), a.window)
}

func (a *Application) showLogWindow() {
	w := a.app.NewWindow("ログ")
	viewer := NewLogViewer(a.logs)
	w.SetContent(viewer)
	w.SetOnClosed(viewer.Detach)
	w.Resize(fyne.NewSize(700, 400))
	w.Show()
}
