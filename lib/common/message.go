package common

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
)

// EncryptionKind names the cipher applied to a message payload.
type EncryptionKind byte

const (
	Plain    EncryptionKind = 0
	Blowfish EncryptionKind = 1
	AES      EncryptionKind = 2
)

const (
	lengthPrefixSize  = 8
	encryptionTagSize = 1
)

// EncryptionKindFromByte validates a wire tag.
func EncryptionKindFromByte(tag byte) (EncryptionKind, error) {
	switch EncryptionKind(tag) {
	case Plain, Blowfish, AES:
		return EncryptionKind(tag), nil
	default:
		return 0, &EncryptionKindError{Tag: tag}
	}
}

// ParseEncryptionKind maps "plain", "blowfish" or "aes" to its kind.
func ParseEncryptionKind(s string) (EncryptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "none":
		return Plain, nil
	case "blowfish":
		return Blowfish, nil
	case "aes":
		return AES, nil
	default:
		return 0, oops.With("encryption", s).Wrapf(ErrInvalidEncryptionKind, "unknown encryption kind %q", s)
	}
}

func (k EncryptionKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Blowfish:
		return "blowfish"
	case AES:
		return "aes"
	default:
		return "EncryptionKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Message is the secured envelope exchanged between agent and proxy.
// Payload is ciphertext and is never inspected here.
type Message struct {
	ID              []byte
	EncryptionToken []byte
	EncryptionKind  EncryptionKind
	Payload         []byte
}

func NewMessage(id, token []byte, kind EncryptionKind, payload []byte) Message {
	return Message{
		ID:              id,
		EncryptionToken: token,
		EncryptionKind:  kind,
		Payload:         payload,
	}
}

// EncodedLen is the size of the message frame.
func (m Message) EncodedLen() int {
	return 3*lengthPrefixSize + encryptionTagSize + len(m.ID) + len(m.EncryptionToken) + len(m.Payload)
}

// Bytes encodes the message frame:
//
//	[id len:8][id][token len:8][token][encryption:1][payload len:8][payload]
func (m Message) Bytes() []byte {
	return AppendMessage(make([]byte, 0, m.EncodedLen()), m)
}

// AppendMessage appends the encoded frame of m to dst.
func AppendMessage(dst []byte, m Message) []byte {
	dst = appendLengthPrefixed(dst, m.ID)
	dst = appendLengthPrefixed(dst, m.EncryptionToken)
	dst = append(dst, byte(m.EncryptionKind))
	return appendLengthPrefixed(dst, m.Payload)
}

func appendLengthPrefixed(dst, field []byte) []byte {
	dst = binary.BigEndian.AppendUint64(dst, uint64(len(field)))
	return append(dst, field...)
}

// ReadMessage decodes one message frame at the cursor.
func ReadMessage(c *Cursor) (Message, error) {
	start := c.Offset()

	id, err := c.ReadLengthPrefixed()
	if err != nil {
		return Message{}, messageError(err, start, "id")
	}
	token, err := c.ReadLengthPrefixed()
	if err != nil {
		return Message{}, messageError(err, start, "encryption_token")
	}
	tag, err := c.ReadByte()
	if err != nil {
		return Message{}, messageError(err, start, "encryption_kind")
	}
	kind, err := EncryptionKindFromByte(tag)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":     "ReadMessage",
			"reason": "invalid_encryption_kind",
			"tag":    tag,
			"offset": c.Offset() - 1,
		}).Debug("rejecting message frame")
		return Message{}, messageError(err, start, "encryption_kind")
	}
	payload, err := c.ReadLengthPrefixed()
	if err != nil {
		return Message{}, messageError(err, start, "payload")
	}

	return Message{
		ID:              id,
		EncryptionToken: token,
		EncryptionKind:  kind,
		Payload:         payload,
	}, nil
}

// DecodeMessage decodes a message frame from the front of b and returns the
// bytes that follow it.
func DecodeMessage(b []byte) (Message, []byte, error) {
	c := NewCursor(b)
	m, err := ReadMessage(c)
	if err != nil {
		return Message{}, b, err
	}
	return m, c.Rest(), nil
}

func messageError(err error, start int, field string) error {
	return oops.In("message").With("frame_offset", start, "field", field).Wrap(err)
}
