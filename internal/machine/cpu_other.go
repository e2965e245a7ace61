//go:build !linux && !darwin && !windows

package machine

func cpuModel() string {
	return ""
}
