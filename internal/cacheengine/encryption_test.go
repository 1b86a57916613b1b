package cacheengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptorSealOpenRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	enc, err := NewEncryptor(key)
	require.NoError(t, err)

	plaintext := []byte("some cached audio bytes")

	ciphertext, err := enc.Seal(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := enc.Open(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptorOpenRejectsShortCiphertext(t *testing.T) {
	key := make([]byte, 16)
	enc, err := NewEncryptor(key)
	require.NoError(t, err)

	_, err = enc.Open([]byte("short"))
	assert.Error(t, err)
}

func TestEncryptorOpenRejectsTamperedCiphertext(t *testing.T) {
	key := make([]byte, 16)
	enc, err := NewEncryptor(key)
	require.NoError(t, err)

	ciphertext, err := enc.Seal([]byte("hello world"))
	require.NoError(t, err)

	ciphertext[len(ciphertext)-1] ^= 0xFF

	_, err = enc.Open(ciphertext)
	assert.Error(t, err)
}

func TestNewEncryptorRejectsInvalidKeySize(t *testing.T) {
	_, err := NewEncryptor([]byte("too-short"))
	assert.Error(t, err)
}
