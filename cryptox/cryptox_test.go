package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		content string
	}{
		{"short content", "enigma", "hello"},
		{"empty content", "enigma", ""},
		{"binary-ish content", "k", "\x00\x01\x02\xff\xfe"},
		{"long passphrase", strings.Repeat("correct horse battery staple ", 8), "payload"},
		{"large content", "key", strings.Repeat("0123456789abcdef", 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Encrypt(tt.key, strings.NewReader(tt.content))
			require.NoError(t, err)
			require.NotEqual(t, tt.content, string(sealed))

			opened, err := Decrypt(tt.key, sealed)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(opened))
		})
	}
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	first, err := Encrypt("key", strings.NewReader("same content"))
	require.NoError(t, err)

	second, err := Encrypt("key", strings.NewReader("same content"))
	require.NoError(t, err)

	// Same input must never produce the same sealed output twice.
	assert.NotEqual(t, first, second)
}

func TestDecryptWrongKey(t *testing.T) {
	sealed, err := Encrypt("right key", strings.NewReader("secret"))
	require.NoError(t, err)

	_, err = Decrypt("wrong key", sealed)
	require.Error(t, err)
}

func TestDecryptTamperedContent(t *testing.T) {
	sealed, err := Encrypt("key", strings.NewReader("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff

	_, err = Decrypt("key", sealed)
	require.Error(t, err)
}

func TestDecryptTruncatedContent(t *testing.T) {
	_, err := Decrypt("key", []byte{0x01, 0x02})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestEncryptReadFailure(t *testing.T) {
	_, err := Encrypt("key", failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading content")
}

func TestAESGCMAdapter(t *testing.T) {
	sealed, err := AESGCM{}.Encrypt("key", bytes.NewReader([]byte("via adapter")))
	require.NoError(t, err)

	opened, err := Decrypt("key", sealed)
	require.NoError(t, err)
	assert.Equal(t, "via adapter", string(opened))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}
