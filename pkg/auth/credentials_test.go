package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestManager_StoreRetrieve(t *testing.T) {
	manager, store := NewMockManager()

	require.NoError(t, manager.Store("work", "abcd1234efgh5678"))
	assert.Equal(t, 1, store.Count())

	cred, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "work", cred.Profile)
	assert.Equal(t, "abcd1234efgh5678", cred.APIKey)
	assert.WithinDuration(t, time.Now(), cred.LastModified, time.Minute)

	key, err := manager.APIKey("work")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh5678", key)
}

func TestManager_DefaultProfile(t *testing.T) {
	manager, store := NewMockManager()

	require.NoError(t, manager.Store("", "key-for-default"))
	assert.True(t, store.Exists(DefaultProfile))

	key, err := manager.APIKey("")
	require.NoError(t, err)
	assert.Equal(t, "key-for-default", key)
}

func TestManager_Validation(t *testing.T) {
	manager, _ := NewMockManager()
	assert.Error(t, manager.Store("default", ""))

	_, err := manager.Retrieve("missing")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManager_Fallback(t *testing.T) {
	failing := NewMockStore()
	failing.StoreError = errors.New("keychain locked")
	working := NewMockStore()

	manager := NewManagerWithStores(failing, working)
	require.NoError(t, manager.Store("default", "abcdefghijkl"))
	assert.Equal(t, 0, failing.Count())
	assert.Equal(t, 1, working.Count())

	working.StoreError = errors.New("disk full")
	err := manager.Store("default", "abcdefghijkl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestManager_EnvironmentLast(t *testing.T) {
	t.Setenv(APIKeyEnv, "env-key-123456")

	stored := NewMockStore()
	manager := NewManagerWithStores(stored, NewEnvironmentStore())

	key, err := manager.APIKey("any")
	require.NoError(t, err)
	assert.Equal(t, "env-key-123456", key)

	require.NoError(t, manager.Store("any", "stored-key-123456"))
	key, err = manager.APIKey("any")
	require.NoError(t, err)
	assert.Equal(t, "stored-key-123456", key)
}

func TestManager_Delete(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore(), NewEnvironmentStore())

	require.NoError(t, manager.Store("default", "abcdefghijkl"))
	require.NoError(t, manager.Delete("default"))

	err := manager.Delete("default")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManager_List(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()
	require.NoError(t, older.Store(&Credential{Profile: "a", APIKey: "old", LastModified: time.Now().Add(-time.Hour)}))
	require.NoError(t, newer.Store(&Credential{Profile: "a", APIKey: "new", LastModified: time.Now()}))
	require.NoError(t, newer.Store(&Credential{Profile: "b", APIKey: "b", LastModified: time.Now()}))

	creds, err := NewManagerWithStores(older, newer).List()
	require.NoError(t, err)
	require.Len(t, creds, 2)
	for _, c := range creds {
		if c.Profile == "a" {
			assert.Equal(t, "new", c.APIKey)
		}
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********", MaskKey("short"))
	assert.Equal(t, "5634...ba0a", MaskKey("563492ad6f91700001ba0a"))
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv(PassphraseEnv, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "nested", ".passphrase"))

	_, err = store.Retrieve("default")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	cred := &Credential{Profile: "default", APIKey: "secret-api-key-1234", LastModified: time.Now()}
	require.NoError(t, store.Store(cred))
	require.NoError(t, store.Store(&Credential{Profile: "work", APIKey: "other-key"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "secret-api-key-1234")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "secret-api-key-1234", got.APIKey)

	list, err := reopened.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, reopened.Delete("work"))
	assert.False(t, reopened.Exists("work"))
	require.NoError(t, reopened.Delete("default"))
	assert.NoFileExists(t, path)
	assert.ErrorIs(t, reopened.Delete("default"), ErrCredentialsNotFound)
}

func TestEncryptedFileStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv(PassphraseEnv, "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Profile: "default", APIKey: "k"}))

	t.Setenv(PassphraseEnv, "second")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = other.Retrieve("default")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv(APIKeyEnv, "")
	assert.False(t, store.Exists("default"))
	_, err := store.Retrieve("default")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	t.Setenv(APIKeyEnv, "from-env")
	cred, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, cred.Profile)
	assert.Equal(t, "from-env", cred.APIKey)

	assert.ErrorIs(t, store.Store(cred), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&Credential{Profile: "default", APIKey: "keyring-key"}))
	assert.True(t, store.Exists("default"))

	cred, err := store.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "keyring-key", cred.APIKey)

	require.NoError(t, store.Delete("default"))
	_, err = store.Retrieve("default")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Delete("default"), ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Store(&Credential{}), ErrInvalidCredentials)
}

func TestShowAPIKeyGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowAPIKeyGuide(&buf)
	assert.Contains(t, buf.String(), APIKeyPage)
	assert.Contains(t, buf.String(), APIKeyEnv)
}
