package asyncnet

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	LENGTHSIZE = 2
)

// MaxFrameLen is the largest payload the length header can describe.
const MaxFrameLen = 1<<(8*LENGTHSIZE) - 1

// ErrMaxLenExceeded indicates the message length exceeds the maximum allowed.
var ErrMaxLenExceeded = errors.New("maximum message length exceeded")

// Encode returns in prefixed with a big-endian length header.
func Encode(in []byte) ([]byte, error) {
	if len(in) > MaxFrameLen {
		return nil, ErrMaxLenExceeded
	}

	out := make([]byte, LENGTHSIZE+len(in))
	binary.BigEndian.PutUint16(out[:LENGTHSIZE], uint16(len(in)))
	copy(out[LENGTHSIZE:], in)

	return out, nil
}

// Write writes data prefixed with a big-endian length header in a single call.
func Write(w io.Writer, in []byte) error {
	out, err := Encode(in)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}

	return nil
}

// Read reads data prefixed with a big-endian length header.
func Read(r io.Reader) ([]byte, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}

	message := make([]byte, int(length))
	if _, err := io.ReadFull(r, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ReadPooled is like Read but takes the message buffer from the shared pool.
// The caller must hand it back with PutBuffer once done.
func ReadPooled(r io.Reader) ([]byte, error) {
	var header [LENGTHSIZE]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(header[:]))

	message := GetBuffer(length)[:length]
	if _, err := io.ReadFull(r, message); err != nil {
		PutBuffer(message)
		return nil, err
	}

	return message, nil
}

// SplitFrame extracts the first complete frame from buf. It returns the
// payload, the number of bytes consumed, and false when buf does not yet
// hold a complete frame. The payload aliases buf.
func SplitFrame(buf []byte) ([]byte, int, bool) {
	if len(buf) < LENGTHSIZE {
		return nil, 0, false
	}
	n := LENGTHSIZE + int(binary.BigEndian.Uint16(buf[:LENGTHSIZE]))
	if len(buf) < n {
		return nil, 0, false
	}

	return buf[LENGTHSIZE:n], n, true
}
