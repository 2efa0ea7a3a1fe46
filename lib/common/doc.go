// Package common implements the wire codecs shared by the ppaass agent and
// proxy.
//
// # Address frame
//
//	[kind:1][host len:8, domain only][host][port:2]
//
// Kind 1 is IPv4 (4 host bytes), 2 is IPv6 (16 host bytes) and 3 is a domain
// name whose length is carried explicitly.
//
// # Message frame
//
//	[id len:8][id][token len:8][token][encryption:1][payload len:8][payload]
//
// Encryption 0 is plain, 1 Blowfish and 2 AES. The payload is ciphertext;
// see lib/crypto for sealing and opening it.
//
// All integers are big-endian. Decoding walks a Cursor that only moves
// forward, never panics on malformed input, and reports ErrBufferUnderflow,
// ErrInvalidAddressKind or ErrInvalidEncryptionKind. Decoded byte fields are
// copies and never alias the input.
//
// Encoders and decoders hold no shared state and are safe to call from any
// number of goroutines.
package common
