package common

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMessageEqual(t *testing.T, expected, actual Message) {
	t.Helper()
	assert.True(t, bytes.Equal(expected.ID, actual.ID), "id: expected %x, got %x", expected.ID, actual.ID)
	assert.True(t, bytes.Equal(expected.EncryptionToken, actual.EncryptionToken),
		"encryption token: expected %x, got %x", expected.EncryptionToken, actual.EncryptionToken)
	assert.Equal(t, expected.EncryptionKind, actual.EncryptionKind, "encryption kind")
	assert.True(t, bytes.Equal(expected.Payload, actual.Payload), "payload: expected %x, got %x", expected.Payload, actual.Payload)
}

func TestMessageBytesPlain(t *testing.T) {
	m := NewMessage(nil, nil, Plain, []byte{0x41, 0x42})

	expected := make([]byte, 16)
	expected = append(expected, 0x00)
	expected = append(expected, 0, 0, 0, 0, 0, 0, 0, 2, 0x41, 0x42)

	assert.Equal(t, expected, m.Bytes())
	assert.Equal(t, len(expected), m.EncodedLen())
}

func TestMessageBytesLayout(t *testing.T) {
	m := NewMessage([]byte("id1"), []byte("tk"), AES, []byte{0xAA})
	b := m.Bytes()

	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 3}, b[0:8])
	assert.Equal(t, []byte("id1"), b[8:11])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 2}, b[11:19])
	assert.Equal(t, []byte("tk"), b[19:21])
	assert.Equal(t, byte(2), b[21])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1, 0xAA}, b[22:])
}

func TestMessageRoundTrip(t *testing.T) {
	large := bytes.Repeat([]byte{0x5A}, 70000)
	kinds := []EncryptionKind{Plain, Blowfish, AES}

	tests := []struct {
		name    string
		id      []byte
		token   []byte
		payload []byte
	}{
		{"all empty", []byte{}, []byte{}, []byte{}},
		{"nil fields", nil, nil, nil},
		{"empty payload", []byte("message-1"), []byte("secret-token"), []byte{}},
		{"empty id", []byte{}, []byte("t"), []byte("hello")},
		{"large payload", []byte("big"), []byte("token"), large},
	}

	for _, tt := range tests {
		for _, kind := range kinds {
			t.Run(tt.name+"/"+kind.String(), func(t *testing.T) {
				m := NewMessage(tt.id, tt.token, kind, tt.payload)
				decoded, rest, err := DecodeMessage(m.Bytes())
				require.NoError(t, err)
				assert.Empty(t, rest)
				assertMessageEqual(t, m, decoded)
			})
		}
	}
}

func TestDecodeMessageZeroLengthFieldsAreNonNil(t *testing.T) {
	m := NewMessage(nil, nil, Plain, nil)

	decoded, _, err := DecodeMessage(m.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []byte{}, decoded.ID)
	assert.Equal(t, []byte{}, decoded.EncryptionToken)
	assert.Equal(t, []byte{}, decoded.Payload)
}

func TestDecodeMessageInvalidEncryptionKind(t *testing.T) {
	for _, tag := range []byte{3, 4, 0x7F, 0xFF} {
		buf := NewMessage([]byte("id"), []byte("tok"), Plain, []byte("payload")).Bytes()
		tagOffset := 8 + 2 + 8 + 3
		buf[tagOffset] = tag

		c := NewCursor(buf)
		_, err := ReadMessage(c)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidEncryptionKind)

		var kindErr *EncryptionKindError
		require.True(t, errors.As(err, &kindErr))
		assert.Equal(t, tag, kindErr.Tag)
		assert.Equal(t, tagOffset+1, c.Offset(), "payload must not be read")
	}
}

func TestDecodeMessageTruncated(t *testing.T) {
	full := NewMessage([]byte("id"), []byte("token"), Blowfish, []byte("ciphertext")).Bytes()

	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", []byte{}},
		{"partial id length", full[:4]},
		{"partial id", full[:9]},
		{"missing token", full[:10]},
		{"partial token", full[:20]},
		{"missing tag", full[:23]},
		{"missing payload length", full[:24]},
		{"partial payload", full[:len(full)-1]},
		{"oversized id length", []byte{0x80, 0, 0, 0, 0, 0, 0, 0, 'x'}},
		{"max id length", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() {
				_, _, err = DecodeMessage(tt.buf)
			})
			assert.ErrorIs(t, err, ErrBufferUnderflow)
		})
	}
}

func TestDecodeMessageReturnsRemainder(t *testing.T) {
	first := NewMessage([]byte("1"), []byte("k"), Plain, []byte("a"))
	second := NewMessage([]byte("2"), []byte("k"), AES, []byte("b"))
	buf := AppendMessage(first.Bytes(), second)

	got1, rest, err := DecodeMessage(buf)
	require.NoError(t, err)
	assertMessageEqual(t, first, got1)

	got2, rest, err := DecodeMessage(rest)
	require.NoError(t, err)
	assertMessageEqual(t, second, got2)
	assert.Empty(t, rest)
}

func TestParseEncryptionKind(t *testing.T) {
	for name, want := range map[string]EncryptionKind{"plain": Plain, "Blowfish": Blowfish, " aes ": AES} {
		got, err := ParseEncryptionKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseEncryptionKind("rot13")
	assert.ErrorIs(t, err, ErrInvalidEncryptionKind)
	assert.Equal(t, "EncryptionKind(9)", EncryptionKind(9).String())
}

func FuzzDecodeMessage(f *testing.F) {
	f.Add(NewMessage(nil, nil, Plain, []byte{0x41, 0x42}).Bytes())
	f.Add(NewMessage([]byte("id"), []byte("token"), AES, []byte("x")).Bytes())
	f.Fuzz(func(t *testing.T, data []byte) {
		m, rest, err := DecodeMessage(data)
		if err != nil {
			return
		}
		consumed := len(data) - len(rest)
		assert.Equal(t, data[:consumed], m.Bytes())
	})
}
