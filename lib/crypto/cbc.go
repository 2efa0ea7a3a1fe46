package crypto

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
)

var log = logger.GetPpaassLogger()

// cbcSeal pads data with PKCS#7, encrypts it in CBC mode under a fresh
// random IV and returns IV || ciphertext.
func cbcSeal(block cipher.Block, data []byte) ([]byte, error) {
	bs := block.BlockSize()
	plaintext := pkcs7Pad(data, bs)

	out := make([]byte, bs+len(plaintext))
	iv := out[:bs]
	if _, err := rand.Read(iv); err != nil {
		return nil, oops.Wrapf(err, "generating iv")
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[bs:], plaintext)

	log.WithFields(logger.Fields{
		"at":                "cbcSeal",
		"plaintext_length":  len(data),
		"ciphertext_length": len(out),
	}).Debug("payload sealed")
	return out, nil
}

// cbcOpen reverses cbcSeal.
func cbcOpen(block cipher.Block, data []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(data) < 2*bs || len(data)%bs != 0 {
		log.WithFields(logger.Fields{
			"at":         "cbcOpen",
			"reason":     "bad_length",
			"length":     len(data),
			"block_size": bs,
		}).Debug("rejecting ciphertext")
		return nil, oops.With("length", len(data), "block_size", bs).
			Wrapf(ErrInvalidCiphertext, "ciphertext must be iv plus whole blocks")
	}

	iv, body := data[:bs], data[bs:]
	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)
	return pkcs7Unpad(plaintext, bs)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+padding)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	length := len(data)
	if length == 0 {
		return nil, ErrInvalidPadding
	}
	padding := int(data[length-1])
	if padding == 0 || padding > blockSize || padding > length {
		return nil, oops.With("padding", padding).Wrap(ErrInvalidPadding)
	}
	for _, b := range data[length-padding:] {
		if b != byte(padding) {
			return nil, ErrInvalidPadding
		}
	}
	return data[:length-padding], nil
}
