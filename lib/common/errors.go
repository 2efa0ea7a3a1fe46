package common

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddressKind    = errors.New("common: invalid address kind")
	ErrInvalidEncryptionKind = errors.New("common: invalid encryption kind")
	ErrBufferUnderflow       = errors.New("common: buffer underflow")
	ErrInvalidHostLength     = errors.New("common: host length does not match address kind")
)

// AddressKindError reports an address tag byte outside {1, 2, 3}.
type AddressKindError struct {
	Tag byte
}

func (e *AddressKindError) Error() string {
	return fmt.Sprintf("common: invalid address kind %d", e.Tag)
}

func (e *AddressKindError) Is(target error) bool {
	return target == ErrInvalidAddressKind
}

// EncryptionKindError reports an encryption tag byte outside {0, 1, 2}.
type EncryptionKindError struct {
	Tag byte
}

func (e *EncryptionKindError) Error() string {
	return fmt.Sprintf("common: invalid encryption kind %d", e.Tag)
}

func (e *EncryptionKindError) Is(target error) bool {
	return target == ErrInvalidEncryptionKind
}
