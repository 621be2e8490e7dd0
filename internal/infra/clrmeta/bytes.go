// Where: cli/internal/infra/clrmeta/bytes.go
// What: Little-endian cursor with sticky errors and ECMA-335 compressed integers.
// Why: Keep table, signature, and blob decoders free of per-read error plumbing.
package clrmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// FormatError reports malformed metadata.
type FormatError struct {
	Where string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid metadata (%s): %v", e.Where, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

var errShort = errors.New("unexpected end of data")

type cursor struct {
	data []byte
	pos  int
	err  error
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.pos+n > len(c.data) {
		c.fail(errShort)
		return nil
	}
	out := c.data[c.pos : c.pos+n]
	c.pos += n
	return out
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) u8() byte {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) peek() (byte, bool) {
	if c.err != nil || c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

func (c *cursor) u16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (c *cursor) u32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (c *cursor) u64() uint64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// index reads a 2- or 4-byte heap/table index.
func (c *cursor) index(size int) uint32 {
	if size == 4 {
		return c.u32()
	}
	return uint32(c.u16())
}

// compressed reads an ECMA-335 compressed unsigned integer (II.23.2).
func (c *cursor) compressed() uint32 {
	b0 := c.u8()
	switch {
	case b0&0x80 == 0:
		return uint32(b0)
	case b0&0xC0 == 0x80:
		b1 := c.u8()
		return uint32(b0&0x3F)<<8 | uint32(b1)
	case b0&0xE0 == 0xC0:
		rest := c.take(3)
		if rest == nil {
			return 0
		}
		return uint32(b0&0x1F)<<24 | uint32(rest[0])<<16 | uint32(rest[1])<<8 | uint32(rest[2])
	}
	c.fail(fmt.Errorf("bad compressed integer lead byte 0x%02x", b0))
	return 0
}

// decodeCompressed decodes one compressed integer from the front of data.
func decodeCompressed(data []byte) (uint32, int, error) {
	c := newCursor(data)
	v := c.compressed()
	if c.err != nil {
		return 0, 0, c.err
	}
	return v, c.pos, nil
}
