package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const keyBytes = 48

// LoadOrCreateKey returns the session-signing key stored at path.
// On first run the file does not exist yet: a random key is generated,
// written with 0600 permissions and reused on every later start, so
// sessions survive process restarts. The file must be kept out of any
// shared distribution.
func LoadOrCreateKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("secret key file %s is empty", path)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read secret key file: %w", err)
	}

	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	key := base64.RawURLEncoding.EncodeToString(raw)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("failed to create secret key directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
		return "", fmt.Errorf("failed to write secret key file: %w", err)
	}

	return key, nil
}
