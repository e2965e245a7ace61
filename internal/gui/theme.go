package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"codeberg.org/snonux/aitranslator/internal/settings"
)

// variantTheme forces the light or dark palette of the default theme
// regardless of the desktop preference.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// themeFor returns the fyne theme for a stored preference. The system
// preference uses the default theme, which follows the desktop.
func themeFor(pref settings.Theme) fyne.Theme {
	switch pref {
	case settings.ThemeLight:
		return &variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	case settings.ThemeDark:
		return &variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	default:
		return theme.DefaultTheme()
	}
}

var themeLabels = []struct {
	theme settings.Theme
	label string
}{
	{settings.ThemeLight, "ライト"},
	{settings.ThemeDark, "ダーク"},
	{settings.ThemeSystem, "システム設定に従う"},
}

func themeOptions() []string {
	options := make([]string, 0, len(themeLabels))
	for _, l := range themeLabels {
		options = append(options, l.label)
	}
	return options
}

func themeLabel(t settings.Theme) string {
	for _, l := range themeLabels {
		if l.theme == t {
			return l.label
		}
	}
	return themeLabel(settings.ThemeSystem)
}

func themeFromLabel(label string) settings.Theme {
	for _, l := range themeLabels {
		if l.label == label {
			return l.theme
		}
	}
	return settings.ThemeSystem
}
