// Package keyring provides access to the system keychain for storing the
// API token.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "alkime-sessions"

// Secret names an entry stored in the keychain.
type Secret string

// APIToken is the bearer token sent to the processing API.
const APIToken Secret = "api-token"

// DisplayName returns a human-readable name for the secret.
func (s Secret) DisplayName() string {
	if s == APIToken {
		return "API token"
	}

	return string(s)
}

// Get retrieves a secret from the system keychain.
func Get(secret Secret) (string, error) {
	value, err := keyring.Get(serviceName, string(secret))
	if err != nil {
		return "", fmt.Errorf("failed to get %s from keychain: %w", secret.DisplayName(), err)
	}

	return value, nil
}

// Set stores a secret in the system keychain.
func Set(secret Secret, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s must not be empty", secret.DisplayName())
	}

	if err := keyring.Set(serviceName, string(secret), value); err != nil {
		return fmt.Errorf("failed to set %s in keychain: %w", secret.DisplayName(), err)
	}

	return nil
}

// IsSet checks if a secret exists in the keychain.
func IsSet(secret Secret) bool {
	_, err := keyring.Get(serviceName, string(secret))

	return err == nil
}

// Token returns the API token, preferring an explicit value over the
// keychain. A missing keychain entry is not an error.
func Token(explicit string) (string, error) {
	if token := strings.TrimSpace(explicit); token != "" {
		return token, nil
	}

	value, err := keyring.Get(serviceName, string(APIToken))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s from keychain: %w", APIToken.DisplayName(), err)
	}

	return value, nil
}
