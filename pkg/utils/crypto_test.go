package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cryptoTestKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt([]byte("EAAGsometoken"), cryptoTestKey)
	require.NoError(t, err)
	require.NotEmpty(t, encrypted)

	plaintext, err := Decrypt(encrypted, cryptoTestKey)
	require.NoError(t, err)
	assert.Equal(t, "EAAGsometoken", plaintext)
}

func TestDecryptWithWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("EAAGsometoken"), cryptoTestKey)
	require.NoError(t, err)

	_, err = Decrypt(encrypted, []byte("ffffffffffffffffffffffffffffffff"))
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := Decrypt("not base64!!!", cryptoTestKey)
	assert.Error(t, err)
}

func TestEncryptRejectsBadKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("data"), []byte("short"))
	assert.Error(t, err)
}
