//go:build darwin

package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

type darwinKeyring struct{}

func newPlatformKeyring() Keyring {
	return &darwinKeyring{}
}

// GetKey retrieves the encryption key from macOS Keychain, falling back to
// the environment when the keychain has nothing usable
func (k *darwinKeyring) GetKey() (string, error) {
	key, err := keyring.Get(ServiceName, KeyName)
	if err == nil && key != "" {
		return key, nil
	}
	if env := os.Getenv(EnvKey); env != "" {
		return env, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("encryption key not found in keychain: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to retrieve key from keychain: %w", err)
	}
	return "", errors.New("encryption key is empty")
}

// SetKey stores the encryption key in macOS Keychain
func (k *darwinKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	err := keyring.Set(ServiceName, KeyName, password)
	if err != nil {
		return fmt.Errorf("failed to store key in keychain: %w", err)
	}

	return nil
}

// DeleteKey removes the encryption key from macOS Keychain
func (k *darwinKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("encryption key not found in keychain: %w", err)
		}
		return fmt.Errorf("failed to delete key from keychain: %w", err)
	}

	return nil
}

// IsAvailable reports whether a key is stored, or failing that whether the
// keychain accepts writes at all
func (k *darwinKeyring) IsAvailable() bool {
	if _, err := keyring.Get(ServiceName, KeyName); err == nil {
		return true
	}
	probe := KeyName + ".probe"
	if err := keyring.Set(ServiceName, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, probe)
	return true
}
