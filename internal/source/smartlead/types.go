package smartlead

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nhle/healthmon/internal/record"
)

// ErrMissingID is returned when an account lookup is requested without an ID.
var ErrMissingID = errors.New("account id is required")

// APIError is returned for any non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuth reports whether the API rejected the credential.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err (or any error in its chain) is an
// APIError caused by a rejected credential.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsAuth()
}

// pageErrorMessage describes a failed list request: the body's "message",
// else its "detail", else the whole JSON body. A body that is not JSON (or
// is null) falls back to the status line.
func pageErrorMessage(resp *http.Response, body []byte) string {
	fallback := fmt.Sprintf("API Error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil || decoded == nil {
		return fallback
	}
	if msg, ok := bodyField(decoded, "message", "detail"); ok {
		return msg
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return fallback
	}
	return compact.String()
}

// accountErrorMessage describes a failed single-account lookup: the
// body's "message", else the status code.
func accountErrorMessage(resp *http.Response, body []byte) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		if msg, ok := bodyField(decoded, "message"); ok {
			return msg
		}
	}
	return fmt.Sprintf("API Error: %d", resp.StatusCode)
}

func bodyField(decoded any, keys ...string) (string, bool) {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return "", false
	}
	return record.Record(obj).FirstNonEmpty(keys...)
}

// pageEnvelopeKeys are the object fields that may hold the record array,
// in lookup order.
var pageEnvelopeKeys = []string{"data", "email_accounts", "items"}

// decodePage extracts the account records from one list response. The body
// may be a bare array or an object wrapping the array under one of
// pageEnvelopeKeys; the first key present with a non-null value wins. Any
// other shape decodes to an empty page.
func decodePage(body []byte) ([]record.Record, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	switch v := decoded.(type) {
	case []any:
		return record.FromSlice(v), nil
	case map[string]any:
		for _, k := range pageEnvelopeKeys {
			inner, ok := v[k]
			if !ok || inner == nil {
				continue
			}
			if items, ok := inner.([]any); ok {
				return record.FromSlice(items), nil
			}
			return nil, nil
		}
	}
	return nil, nil
}
