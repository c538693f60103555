package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups this app's secrets in the OS keychain.
	KeyringService = "jobtrack"

	apiKeyAccount = "jobtrack:remote-api-key"
	apiKeyEnv     = "JOBTRACK_API_KEY"
)

// GetRemoteAPIKey returns the bearer key used for the remote function calls,
// preferring the OS keychain over the environment.
func GetRemoteAPIKey() (string, error) {
	if pw, err := keyring.Get(KeyringService, apiKeyAccount); err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if v := strings.TrimSpace(os.Getenv(apiKeyEnv)); v != "" {
		return v, nil
	}
	return "", errors.New("remote API key not found (set it in keychain or via " + apiKeyEnv + ")")
}

func SetRemoteAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, apiKeyAccount, key)
}

func DeleteRemoteAPIKey() error {
	return keyring.Delete(KeyringService, apiKeyAccount)
}
