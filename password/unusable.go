package password

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
)

// UnusablePrefix marks a stored credential that can never authenticate.
const UnusablePrefix = "!"

const unusableSuffixBytes = 30

// Unusable returns a fresh sentinel for accounts created without a password.
//
// The random suffix keeps sentinels distinct so they never look like a shared value.
func Unusable() (string, error) {
	buf := make([]byte, unusableSuffixBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return UnusablePrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// IsUsable reports whether encodedHash can ever match a password.
func IsUsable(encodedHash string) bool {
	return encodedHash != "" && !strings.HasPrefix(encodedHash, UnusablePrefix)
}
