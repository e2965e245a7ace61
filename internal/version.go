package internal

import (
	"fmt"
	"runtime"
)

// Version is the application version.
const Version = "0.3.0"

// AppName is shown in window titles and the about dialog.
const AppName = "AI Translator"

// BuildInfo describes the running binary for the about dialog.
func BuildInfo() string {
	return fmt.Sprintf("%s v%s\nGo %s %s/%s", AppName, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
