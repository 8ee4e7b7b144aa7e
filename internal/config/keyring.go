package config

import (
	"os"

	"github.com/zalando/go-keyring"
)

const keyringService = "STTDesktop"

// Keyring account names for the two cloud services.
const (
	GroqKeyName       = "api_key"
	ElevenLabsKeyName = "elevenlabs_api_key"
)

// envFor maps keyring account names to their environment fallbacks.
var envFor = map[string]string{
	GroqKeyName:       "GROQ_API_KEY",
	ElevenLabsKeyName: "ELEVENLABS_API_KEY",
}

// SetAPIKey stores an API key in the OS keyring.
func SetAPIKey(name, key string) error {
	return keyring.Set(keyringService, name, key)
}

// APIKey returns the API key for name from the OS keyring, falling back to
// the corresponding environment variable. Empty string when not configured.
func APIKey(name string) string {
	if key, err := keyring.Get(keyringService, name); err == nil && key != "" {
		return key
	}
	if env, ok := envFor[name]; ok {
		return os.Getenv(env)
	}
	return ""
}

// DeleteAPIKey removes a stored API key. Missing entries are not an error.
func DeleteAPIKey(name string) error {
	err := keyring.Delete(keyringService, name)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}
