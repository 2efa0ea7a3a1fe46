package crypto

import (
	"crypto/aes"

	"github.com/samber/oops"
)

// AESCipher seals payloads with AES-CBC. The encryption token is the key and
// must be 16, 24 or 32 bytes long.
type AESCipher struct{}

func (AESCipher) Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, oops.With("key_length", len(key)).Wrapf(ErrInvalidKeySize, "aes: %v", err)
	}
	return cbcSeal(block, plaintext)
}

func (AESCipher) Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, oops.With("key_length", len(key)).Wrapf(ErrInvalidKeySize, "aes: %v", err)
	}
	return cbcOpen(block, ciphertext)
}
