package reader

import (
	"errors"
	"fmt"
)

// Container magic values, stored little-endian at offset 0
const (
	// MagicYRP1 identifies the legacy container ("yrp1")
	MagicYRP1 uint32 = 0x31707279
	// MagicYRPX identifies the modern container ("yrpX")
	MagicYRPX uint32 = 0x58707279
)

// Replay header flags
const (
	FlagCompressed     uint32 = 0x1
	FlagTag            uint32 = 0x2
	FlagDecoded        uint32 = 0x4
	FlagSingleMode     uint32 = 0x8
	FlagLua64          uint32 = 0x10
	FlagNewReplay      uint32 = 0x20
	FlagHandTest       uint32 = 0x40
	FlagDirectSeed     uint32 = 0x80
	Flag64BitDuelFlag  uint32 = 0x100
	FlagExtendedHeader uint32 = 0x200
)

const (
	// BaseHeaderSize is the size of ReplayHeader on disk
	BaseHeaderSize = 32
	// ExtendedHeaderSize is the size of ExtendedReplayHeader on disk
	ExtendedHeaderSize = BaseHeaderSize + 8 + 4*8

	// LatestHeaderVersion is the newest extended header version understood
	LatestHeaderVersion uint64 = 1
)

var (
	// ErrTooSmall indicates the buffer cannot hold the header it announces
	ErrTooSmall = errors.New("replay too small")
	// ErrWrongMagic indicates the container tag is not the expected one
	ErrWrongMagic = errors.New("wrong replay magic")
	// ErrVersionTooNew indicates an extended header newer than LatestHeaderVersion
	ErrVersionTooNew = errors.New("replay header version too new")
)

// ReplayHeader is the fixed 32-byte container header
//
// Binary Format (little-endian):
//
//	magic   : uint32  - MagicYRPX or MagicYRP1
//	version : uint32  - client version, unused
//	flags   : uint32  - see Flag* constants
//	seed    : uint32  - unix timestamp (yrpX, extended yrp) or core duel seed
//	size    : uint32  - uncompressed size of everything after the header
//	hash    : uint32  - unused
//	props   : [8]byte - LZMA properties when FlagCompressed is set
type ReplayHeader struct {
	Magic   uint32
	Version uint32
	Flags   uint32
	Seed    uint32
	Size    uint32
	Hash    uint32
	Props   [8]byte
}

// ExtendedReplayHeader is the 72-byte header used when FlagExtendedHeader
// is set. The base header is its prefix, not a separate record.
//
// Binary Format (little-endian, after the 32 base bytes):
//
//	header_version : uint64
//	seed           : [4]uint64 - 128-bit core duel seed (as 4 words)
type ExtendedReplayHeader struct {
	ReplayHeader
	HeaderVersion uint64
	Seed128       [4]uint64
}

// Has reports whether all bits of flag are set
func (h *ReplayHeader) Has(flag uint32) bool {
	return h.Flags&flag == flag
}

// Extended reports whether the header was read with the extended layout
func (h *ExtendedReplayHeader) Extended() bool {
	return h.Has(FlagExtendedHeader)
}

// HeaderSize returns the number of bytes the header occupies on disk.
// Payload offsets must use this value of the header being decoded, since a
// nested legacy container may use a different layout than its parent.
func (h *ExtendedReplayHeader) HeaderSize() int {
	if h.Extended() {
		return ExtendedHeaderSize
	}
	return BaseHeaderSize
}

// MagicName returns a printable name for a container magic
func MagicName(magic uint32) string {
	switch magic {
	case MagicYRPX:
		return "yrpX"
	case MagicYRP1:
		return "yrp1"
	default:
		return fmt.Sprintf("0x%08x", magic)
	}
}

// ResolveHeader parses the container header at the start of buf.
// The magic is validated before anything else, so a buffer with a foreign
// tag always yields ErrWrongMagic as long as the tag itself is present.
func ResolveHeader(buf []byte, expectedMagic uint32) (*ExtendedReplayHeader, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: %d bytes, need at least 4 for magic", ErrTooSmall, len(buf))
	}

	c := NewCursor(buf)
	magic := c.PeekUint32()
	if magic != expectedMagic {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrWrongMagic, MagicName(magic), MagicName(expectedMagic))
	}

	if len(buf) < BaseHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrTooSmall, len(buf), BaseHeaderSize)
	}

	h := &ExtendedReplayHeader{}
	h.Magic = c.Uint32()
	h.Version = c.Uint32()
	h.Flags = c.Uint32()
	h.Seed = c.Uint32()
	h.Size = c.Uint32()
	h.Hash = c.Uint32()
	copy(h.Props[:], c.Bytes(len(h.Props)))

	if !h.Extended() {
		return h, nil
	}

	if len(buf) < ExtendedHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, extended header needs %d", ErrTooSmall, len(buf), ExtendedHeaderSize)
	}

	h.HeaderVersion = c.Uint64()
	for i := range h.Seed128 {
		h.Seed128[i] = c.Uint64()
	}

	if h.HeaderVersion > LatestHeaderVersion {
		return nil, fmt.Errorf("%w: version %d, latest known %d", ErrVersionTooNew, h.HeaderVersion, LatestHeaderVersion)
	}

	return h, nil
}

// Payload returns the bytes that follow the header in buf
func (h *ExtendedReplayHeader) Payload(buf []byte) []byte {
	return buf[h.HeaderSize():]
}
