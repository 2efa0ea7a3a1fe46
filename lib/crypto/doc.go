// Package crypto seals and opens message payloads.
//
// The message's encryption token is used directly as the key. Plain passes
// bytes through; Blowfish and AES run in CBC mode with PKCS#7 padding and a
// random IV prepended to the ciphertext.
package crypto
