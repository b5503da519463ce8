package reader

import "encoding/binary"

// Cursor is a forward-only little-endian reader over a byte slice.
//
// Cursor performs no bounds checking: reading past the end of the buffer
// panics. Callers that read sizes taken from the file itself must check
// Remaining() before trusting them.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of buf
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the number of bytes consumed so far
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Rest returns the unread part of the buffer without advancing
func (c *Cursor) Rest() []byte {
	return c.buf[c.off:]
}

// Skip advances the cursor by n bytes
func (c *Cursor) Skip(n int) {
	_ = c.buf[c.off : c.off+n]
	c.off += n
}

// Bytes returns the next n bytes and advances past them.
// The returned slice aliases the underlying buffer.
func (c *Cursor) Bytes(n int) []byte {
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

// Uint8 reads one byte
func (c *Cursor) Uint8() uint8 {
	v := c.buf[c.off]
	c.off++
	return v
}

// Uint16 reads a little-endian uint16
func (c *Cursor) Uint16() uint16 {
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v
}

// Uint32 reads a little-endian uint32
func (c *Cursor) Uint32() uint32 {
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

// Int32 reads a little-endian int32
func (c *Cursor) Int32() int32 {
	return int32(c.Uint32())
}

// Uint64 reads a little-endian uint64
func (c *Cursor) Uint64() uint64 {
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v
}

// PeekUint8 returns the next byte without advancing
func (c *Cursor) PeekUint8() uint8 {
	return c.buf[c.off]
}

// PeekUint32 returns the next little-endian uint32 without advancing
func (c *Cursor) PeekUint32() uint32 {
	return binary.LittleEndian.Uint32(c.buf[c.off:])
}
