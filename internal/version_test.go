package internal

import (
	"runtime"
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	info := BuildInfo()

	for _, want := range []string{AppName, "v" + Version, runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(info, want) {
			t.Errorf("BuildInfo() = %q, missing %q", info, want)
		}
	}
}
