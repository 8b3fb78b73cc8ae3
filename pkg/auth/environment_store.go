package auth

import (
	"os"
	"time"
)

// APIKeyEnv is the environment variable holding a Pexels API key
const APIKeyEnv = "PEXELS_API_KEY"

// EnvironmentStore implements CredentialStore over PEXELS_API_KEY. The same
// key is returned for every profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve reads the key from the environment
func (e *EnvironmentStore) Retrieve(profile string) (*Credential, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, ErrCredentialsNotFound
	}
	if profile == "" {
		profile = DefaultProfile
	}

	return &Credential{
		Profile:      profile,
		APIKey:       apiKey,
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential if the variable is set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

// Exists checks if the variable is set
func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv(APIKeyEnv) != ""
}
