package credential

import (
	"errors"
	"os"
)

// EnvAPIKey overrides the stored API key when set.
const EnvAPIKey = "HEALTHMON_API_KEY"

// Getter is the read side of a credential store.
type Getter interface {
	Get(key string) (string, error)
}

// ResolveAPIKey returns the API key from the environment, falling back to
// the store. A missing key is not an error: it returns "".
func ResolveAPIKey(g Getter) (string, error) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v, nil
	}
	if g == nil {
		return "", nil
	}

	v, err := g.Get(APIKeyName)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
