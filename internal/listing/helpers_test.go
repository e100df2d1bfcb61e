package listing

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

// objectKeys returns, in document order, the member names of the object
// stored under field in the top-level object read from dec.
func objectKeys(t *testing.T, dec *json.Decoder, field string) []string {
	t.Helper()

	var envelope map[string]json.RawMessage
	require.NoError(t, dec.Decode(&envelope))

	inner := json.NewDecoder(bytes.NewReader(envelope[field]))
	tok, err := inner.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for inner.More() {
		tok, err := inner.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))

		var skip json.RawMessage
		require.NoError(t, inner.Decode(&skip))
	}
	return keys
}
