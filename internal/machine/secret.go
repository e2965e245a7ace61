package machine

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"
)

// Placeholder replaces any host property that cannot be read.
const Placeholder = "unknown"

// Secret is a 32-byte symmetric key derived from the host identity.
type Secret [sha256.Size]byte

// Hex returns the lowercase hex form of the secret.
func (s Secret) Hex() string {
	return hex.EncodeToString(s[:])
}

// Derive computes the machine secret. It never fails.
func Derive() Secret {
	return FromIdentity(Identity())
}

// FromIdentity hashes an identity string into a Secret.
func FromIdentity(identity string) Secret {
	return sha256.Sum256([]byte(identity))
}

// Identity returns "<hostname>-<platform>-<arch>-<cpu model>".
// Platform and arch names follow the Node.js conventions so that a
// credential written by the Electron build of the app can still be read.
func Identity() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	return strings.Join([]string{
		orPlaceholder(hostname),
		platformName(runtime.GOOS),
		archName(runtime.GOARCH),
		orPlaceholder(cpuModel()),
	}, "-")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// platformName maps GOOS to the value of Node's os.platform().
func platformName(goos string) string {
	switch goos {
	case "windows":
		return "win32"
	case "":
		return Placeholder
	default:
		return goos
	}
}

// archName maps GOARCH to the value of Node's os.arch().
func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	case "ppc64le":
		return "ppc64"
	case "":
		return Placeholder
	default:
		return goarch
	}
}
