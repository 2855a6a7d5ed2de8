package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New(keyring.NewArrayKeyring(nil))

	_, err := s.Get(APIKeyName)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(APIKeyName, "abc123"))
	got, err := s.Get(APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	require.NoError(t, s.Delete(APIKeyName))
	_, err = s.Get(APIKeyName)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(APIKeyName), "deleting a missing key is a no-op")
}

type brokenRing struct {
	keyring.Keyring
}

func (brokenRing) Set(keyring.Item) error { return errors.New("locked") }

func TestStoreSetFailure(t *testing.T) {
	s := New(brokenRing{Keyring: keyring.NewArrayKeyring(nil)})

	err := s.Set(APIKeyName, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}
