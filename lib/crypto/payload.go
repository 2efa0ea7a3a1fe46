package crypto

import (
	"errors"

	"github.com/ppaass/ppaass/lib/common"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
)

var (
	ErrInvalidKeySize    = errors.New("crypto: invalid key size")
	ErrInvalidCiphertext = errors.New("crypto: invalid ciphertext")
	ErrInvalidPadding    = errors.New("crypto: invalid padding")
)

// PayloadCipher encrypts and decrypts message payloads under a key taken
// from the message's encryption token.
type PayloadCipher interface {
	Encrypt(key, plaintext []byte) ([]byte, error)
	Decrypt(key, ciphertext []byte) ([]byte, error)
}

// PlainCipher passes payloads through unchanged.
type PlainCipher struct{}

func (PlainCipher) Encrypt(_, plaintext []byte) ([]byte, error) {
	return copyBytes(plaintext), nil
}

func (PlainCipher) Decrypt(_, ciphertext []byte) ([]byte, error) {
	return copyBytes(ciphertext), nil
}

// copyBytes always returns a non-nil slice, matching the CBC ciphers and
// the frame decoder for zero-length payloads.
func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// CipherFor returns the cipher for an encryption kind.
func CipherFor(kind common.EncryptionKind) (PayloadCipher, error) {
	switch kind {
	case common.Plain:
		return PlainCipher{}, nil
	case common.Blowfish:
		return BlowfishCipher{}, nil
	case common.AES:
		return AESCipher{}, nil
	default:
		return nil, &common.EncryptionKindError{Tag: byte(kind)}
	}
}

// Seal encrypts plaintext for kind using token as the key.
func Seal(kind common.EncryptionKind, token, plaintext []byte) ([]byte, error) {
	c, err := CipherFor(kind)
	if err != nil {
		return nil, err
	}
	out, err := c.Encrypt(token, plaintext)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":         "Seal",
			"encryption": kind.String(),
		}).WithError(err).Debug("failed to seal payload")
		return nil, oops.In("crypto").With("encryption", kind.String()).Wrap(err)
	}
	return out, nil
}

// Open decrypts ciphertext for kind using token as the key.
func Open(kind common.EncryptionKind, token, ciphertext []byte) ([]byte, error) {
	c, err := CipherFor(kind)
	if err != nil {
		return nil, err
	}
	out, err := c.Decrypt(token, ciphertext)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":         "Open",
			"encryption": kind.String(),
		}).WithError(err).Debug("failed to open payload")
		return nil, oops.In("crypto").With("encryption", kind.String()).Wrap(err)
	}
	return out, nil
}

// SealMessage builds a message whose payload is plaintext sealed under token.
func SealMessage(id, token []byte, kind common.EncryptionKind, plaintext []byte) (common.Message, error) {
	payload, err := Seal(kind, token, plaintext)
	if err != nil {
		return common.Message{}, err
	}
	return common.NewMessage(id, token, kind, payload), nil
}

// OpenMessage returns the plaintext payload of m.
func OpenMessage(m common.Message) ([]byte, error) {
	return Open(m.EncryptionKind, m.EncryptionToken, m.Payload)
}
