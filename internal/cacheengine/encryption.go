package cacheengine

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// nonceSize is the standard GCM nonce length; Encryptor prefixes every
// sealed blob with it so Open never needs an out-of-band nonce store
// (spec §4.4.4: "12-byte nonce prefix, 16-byte tag suffix").
const nonceSize = 12

// Encryptor wraps AES-GCM for at-rest encryption of cached track bytes.
// Not a replacement for platform DRM — spec Non-goals exclude DRM beyond
// this local at-rest layer.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor builds an Encryptor from a 16/24/32-byte AES key, typically
// sourced from capability.SecureStore under a per-profile key entry.
func NewEncryptor(key []byte) (*Encryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cacheengine: new aes cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cacheengine: new gcm: %w", err)
	}

	return &Encryptor{gcm: gcm}, nil
}

// Seal encrypts plaintext, returning nonce||ciphertext||tag.
func (e *Encryptor) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cacheengine: generate nonce: %w", err)
	}

	return e.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal, rejecting any ciphertext shorter than the nonce
// prefix or whose tag fails to authenticate.
func (e *Encryptor) Open(blob []byte) ([]byte, error) {
	if len(blob) < nonceSize {
		return nil, fmt.Errorf("cacheengine: ciphertext shorter than nonce prefix")
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cacheengine: decrypt: %w", err)
	}

	return plaintext, nil
}
