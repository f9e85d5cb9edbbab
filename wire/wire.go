// Package wire implements the framed request/response protocol spoken over a
// management link. A frame is a 4-byte big-endian length followed by a JSON
// body. The package is transport-agnostic: Conn drives the client side of a
// link, and ReadFrame/WriteFrame are usable by servers and test fixtures.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the largest frame body accepted on a link.
const MaxFrameSize = 1 << 20

var (
	ErrConnClosed    = errors.New("wire: connection closed")
	ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")
)

// WriteFrame encodes v as JSON and writes it as a single length-prefixed frame.
func WriteFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: encode frame: %w", err)
	}
	if len(body) > MaxFrameSize {
		return ErrFrameTooLarge
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// ReadFrame reads a single length-prefixed frame and decodes it into v.
func ReadFrame(r io.Reader, v any) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return ErrFrameTooLarge
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("wire: decode frame: %w", err)
	}
	return nil
}
