//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
)

var ErrNoKey = errors.New(EnvKey + " is not set")

type envKeyring struct{}

func newPlatformKeyring() Keyring {
	return &envKeyring{}
}

// GetKey reads the database key from the environment
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// SetKey cannot persist anything; it tells the user which variable to export
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	return fmt.Errorf("no OS keyring on this platform: export %s to reuse this password", EnvKey)
}

func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("no OS keyring on this platform: unset %s manually", EnvKey)
}

func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}
