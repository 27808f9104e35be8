package credentials

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TokenLifecycle(t *testing.T) {
	t.Setenv(EnvHubToken, "")
	store := NewStore(keyring.NewArrayKeyring(nil))

	_, src, err := store.Token()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, SourceNone, src)

	require.NoError(t, store.SetToken("  secret  "))

	tok, src, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)
	assert.Equal(t, SourceKeyring, src)

	require.NoError(t, store.DeleteToken())
	_, _, err = store.Token()
	assert.ErrorIs(t, err, ErrNoToken)

	// deleting twice is fine
	require.NoError(t, store.DeleteToken())
}

func TestStore_EnvWins(t *testing.T) {
	t.Setenv(EnvHubToken, "from-env")
	store := NewStore(keyring.NewArrayKeyring([]keyring.Item{{Key: hubTokenKey, Data: []byte("from-ring")}}))

	tok, src, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
	assert.Equal(t, SourceEnv, src)
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	store := NewStore(keyring.NewArrayKeyring(nil))
	assert.Error(t, store.SetToken("   "))
}

func TestStore_NilStore(t *testing.T) {
	t.Setenv(EnvHubToken, "")
	var store *Store
	_, _, err := store.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLazyStore_EnvTokenNeverOpensKeyring(t *testing.T) {
	t.Setenv(EnvHubToken, "from-env")
	opened := 0
	store := NewLazyStore(func() (keyring.Keyring, error) {
		opened++
		return keyring.NewArrayKeyring(nil), nil
	})

	tok, src, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
	assert.Equal(t, SourceEnv, src)
	assert.Zero(t, opened)
}

func TestLazyStore_OpensOnce(t *testing.T) {
	t.Setenv(EnvHubToken, "")
	opened := 0
	store := NewLazyStore(func() (keyring.Keyring, error) {
		opened++
		return keyring.NewArrayKeyring(nil), nil
	})

	require.NoError(t, store.SetToken("secret"))
	tok, src, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)
	assert.Equal(t, SourceKeyring, src)
	assert.Equal(t, 1, opened)
}

func TestLazyStore_OpenFailure(t *testing.T) {
	t.Setenv(EnvHubToken, "")
	store := NewLazyStore(func() (keyring.Keyring, error) {
		return nil, errors.New("no backend")
	})

	_, _, err := store.Token()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.ErrorContains(t, store.SetToken("secret"), "no backend")
}

func TestStore_NilKeyringCannotWrite(t *testing.T) {
	assert.Error(t, NewStore(nil).SetToken("secret"))
	assert.Error(t, NewStore(nil).DeleteToken())
}
