package cipher

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// MessageCipher encrypts message bodies at rest with XChaCha20-Poly1305. The
// key is process-wide and read-only after initialization.
type MessageCipher struct {
	key []byte
}

// New builds a cipher from a 32-byte key.
func New(key []byte) (*MessageCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	// Copy so callers cannot mutate the key after construction.
	k := make([]byte, len(key))
	copy(k, key)
	return &MessageCipher{key: k}, nil
}

// Seal encrypts plaintext. The random nonce is prefixed to the ciphertext.
func (c *MessageCipher) Seal(plaintext string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Open decrypts and authenticates a sealed message.
func (c *MessageCipher) Open(sealed []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt message: %w", err)
	}
	return string(plain), nil
}
