package crypto

import (
	"github.com/samber/oops"
	"golang.org/x/crypto/blowfish"
)

// BlowfishCipher seals payloads with Blowfish-CBC. The encryption token is
// the key and must be between 1 and 56 bytes long.
type BlowfishCipher struct{}

func (BlowfishCipher) Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, oops.With("key_length", len(key)).Wrapf(ErrInvalidKeySize, "blowfish: %v", err)
	}
	return cbcSeal(block, plaintext)
}

func (BlowfishCipher) Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, oops.With("key_length", len(key)).Wrapf(ErrInvalidKeySize, "blowfish: %v", err)
	}
	return cbcOpen(block, ciphertext)
}
