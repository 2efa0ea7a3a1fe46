package common

import (
	"encoding/binary"

	"github.com/samber/oops"
)

// Cursor is a read-only position over a byte slice. It only ever moves
// forward; a failed read leaves it where it was.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Offset is the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining is the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Rest returns the unread bytes without consuming them. The slice aliases
// the underlying buffer.
func (c *Cursor) Rest() []byte {
	return c.buf[c.off:]
}

func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// ReadN returns a copy of the next n bytes.
func (c *Cursor) ReadN(n uint64) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.off:])
	c.off += int(n)
	return out, nil
}

// ReadLengthPrefixed reads an 8-byte big-endian length followed by that many
// bytes. If the body is short the length prefix is still consumed.
func (c *Cursor) ReadLengthPrefixed() ([]byte, error) {
	n, err := c.ReadUint64()
	if err != nil {
		return nil, err
	}
	return c.ReadN(n)
}

func (c *Cursor) need(n uint64) error {
	remaining := uint64(c.Remaining())
	if n > remaining {
		return oops.
			Code("buffer_underflow").
			With("offset", c.off).
			With("needed", n).
			With("remaining", remaining).
			Wrapf(ErrBufferUnderflow, "need %d bytes at offset %d, have %d", n, c.off, remaining)
	}
	return nil
}
