package gui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/aitranslator/internal/processor"
	"codeberg.org/snonux/aitranslator/internal/settings"
)

const apiKeysURL = "https://platform.openai.com/account/api-keys"

// showSettings opens the settings dialog. Theme changes apply and persist
// immediately; everything else is written on save.
func (a *Application) showSettings() {
	current := a.proc.LoadSettings()

	apiKeyEntry := widget.NewPasswordEntry()
	apiKeyEntry.SetPlaceHolder("sk-...")
	apiKeyEntry.SetText(current.APIKey)

	keysLink, _ := url.Parse(apiKeysURL)
	keysHint := widget.NewHyperlink("APIキーはOpenAIウェブサイトから取得できます", keysLink)

	themeSelect := widget.NewSelect(themeOptions(), nil)
	themeSelect.SetSelected(themeLabel(current.Theme))
	themeSelect.OnChanged = func(label string) {
		t := themeFromLabel(label)
		a.applyTheme(t)
		if err := a.proc.SetTheme(t); err != nil {
			a.logger.Warn("failed to save theme", "theme", t, "error", err)
		}
	}

	hostEntry := widget.NewEntry()
	hostEntry.SetPlaceHolder("例: proxy.example.com")
	hostEntry.SetText(current.Proxy.Host)
	portEntry := widget.NewEntry()
	portEntry.SetText(strconv.Itoa(current.Proxy.Port))
	userEntry := widget.NewEntry()
	userEntry.SetText(current.Proxy.Username)
	passEntry := widget.NewPasswordEntry()
	passEntry.SetText(current.Proxy.Password)

	proxyForm := widget.NewForm(
		widget.NewFormItem("ホスト", hostEntry),
		widget.NewFormItem("ポート", portEntry),
		widget.NewFormItem("ユーザー名（オプション）", userEntry),
		widget.NewFormItem("パスワード（オプション）", passEntry),
	)
	proxyCheck := widget.NewCheck("プロキシを使用する", func(enabled bool) {
		if enabled {
			proxyForm.Show()
		} else {
			proxyForm.Hide()
		}
	})
	proxyCheck.SetChecked(current.Proxy.Enabled)
	if !current.Proxy.Enabled {
		proxyForm.Hide()
	}

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("OpenAI APIキー", apiKeyEntry),
			widget.NewFormItem("", keysHint),
			widget.NewFormItem("テーマ", themeSelect),
		),
		proxyCheck,
		proxyForm,
		errorLabel,
	)

	var d dialog.Dialog
	cancelButton := widget.NewButton("キャンセル", func() { d.Hide() })
	saveButton := widget.NewButton("保存", func() {
		s := processor.Settings{
			APIKey: apiKeyEntry.Text,
			Proxy: settings.ProxyConfig{
				Enabled:  proxyCheck.Checked,
				Host:     strings.TrimSpace(hostEntry.Text),
				Port:     parsePort(portEntry.Text),
				Username: userEntry.Text,
				Password: passEntry.Text,
			},
			Theme: themeFromLabel(themeSelect.Selected),
		}
		if err := a.proc.SaveSettings(s); err != nil {
			errorLabel.SetText(fmt.Sprintf("設定の保存に失敗しました: %v", err))
			errorLabel.Show()
			return
		}
		d.Hide()
		a.updateStatus("設定を保存しました")
		a.updateTranslateButton()
	})
	saveButton.Importance = widget.HighImportance

	d = dialog.NewCustomWithoutButtons("設定",
		container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), cancelButton, saveButton), nil, nil, form),
		a.window)
	d.Resize(fyne.NewSize(520, 0))
	d.Show()
}

// parsePort reads the port field. A blank, zero or non-numeric field becomes
// the default port; other out of range numbers are kept so validation can
// reject them.
func parsePort(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return settings.DefaultProxyPort
	}
	return n
}
