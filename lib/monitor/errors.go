package monitor

import "errors"

var (
	// ErrChannelFull is returned by TrySend when the buffer is at capacity.
	ErrChannelFull = errors.New("monitor: channel is full")
	// ErrChannelClosed is returned by TrySend once the receiver has shut down.
	ErrChannelClosed = errors.New("monitor: channel is closed")
)
