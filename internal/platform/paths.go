// Package platform provides platform-specific default paths for certificate
// material and SSH identities.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// letsencryptLiveDir returns the platform's Let's Encrypt live directory.
// On macOS Homebrew installs under its prefix; everywhere else the standard
// system location applies.
func letsencryptLiveDir() string {
	if runtime.GOOS == "darwin" {
		if pathExists("/opt/homebrew/etc/letsencrypt") {
			return "/opt/homebrew/etc/letsencrypt/live"
		}
		if pathExists("/usr/local/etc/letsencrypt") {
			return "/usr/local/etc/letsencrypt/live"
		}
	}
	return "/etc/letsencrypt/live"
}

// DefaultCertPaths returns the default certificate and key paths for a
// domain, following the Let's Encrypt live layout.
func DefaultCertPaths(domain string) (certPath, keyPath string) {
	live := letsencryptLiveDir()
	return filepath.Join(live, domain, "fullchain.pem"),
		filepath.Join(live, domain, "privkey.pem")
}

// DefaultIdentity returns the first SSH identity found in the user's ~/.ssh
// directory, preferring ed25519 keys. Empty when none exists.
func DefaultIdentity() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		path := filepath.Join(home, ".ssh", name)
		if pathExists(path) {
			return path
		}
	}
	return ""
}

// pathExists checks if a path exists.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
