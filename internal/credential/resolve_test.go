package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	s := New(keyring.NewArrayKeyring(nil))

	key, err := ResolveAPIKey(s)
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, s.Set(APIKeyName, "stored"))
	key, err = ResolveAPIKey(s)
	require.NoError(t, err)
	assert.Equal(t, "stored", key)

	t.Setenv(EnvAPIKey, "from-env")
	key, err = ResolveAPIKey(s)
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}
