// Package replay decodes a complete yrpX file: container header, payload,
// duelist table and the duel message stream, plus the legacy yrp1 replay
// some files embed after their messages.
package replay

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/duel"
	"github.com/fsnow/duel-replay/pkg/reader"
)

// ErrDuelFlagsMismatch indicates the embedded legacy replay was recorded
// with different duel options than the replay around it
var ErrDuelFlagsMismatch = errors.New("legacy replay duel flags mismatch")

// Options controls Decode
type Options struct {
	// Legacy decodes the embedded legacy replay, if any
	Legacy bool
}

// Replay is a decoded yrpX file
type Replay struct {
	Header    *reader.ExtendedReplayHeader
	Names     [][]string
	DuelFlags uint64
	Blocks    []decoder.Block

	// Unresolved lists zones whose xyz materials never showed up
	Unresolved []duel.Place

	// HasLegacy is set when the message stream ended in a legacy handoff;
	// Legacy is only decoded when Options.Legacy is set
	HasLegacy bool
	Legacy    *LegacyReplay
}

// LegacyReplay is a decoded yrp1 container
type LegacyReplay struct {
	Header    *reader.ExtendedReplayHeader
	Names     [][]string
	DuelFlags uint64
	Decks     *reader.DeckList
	Responses [][]byte
}

// container holds a resolved header and its decompressed payload
type container struct {
	header  *reader.ExtendedReplayHeader
	payload []byte
}

// open resolves the header for magic and decompresses what follows it.
// The same routine serves the outer file and the embedded legacy replay.
func open(data []byte, magic uint32) (*container, error) {
	h, err := reader.ResolveHeader(data, magic)
	if err != nil {
		return nil, err
	}
	payload, err := reader.Decompress(h, h.Payload(data))
	if err != nil {
		return nil, fmt.Errorf("%s payload: %w", reader.MagicName(magic), err)
	}
	log.Debug().
		Str("magic", reader.MagicName(magic)).
		Uint32("flags", h.Flags).
		Int("header_size", h.HeaderSize()).
		Int("payload", len(payload)).
		Msg("container opened")
	return &container{header: h, payload: payload}, nil
}

// Decode decodes a yrpX file
func Decode(data []byte, opts Options) (*Replay, error) {
	ct, err := open(data, reader.MagicYRPX)
	if err != nil {
		return nil, err
	}

	c := reader.NewCursor(ct.payload)
	names, err := reader.ReadNames(ct.header.Flags, c)
	if err != nil {
		return nil, fmt.Errorf("duelists: %w", err)
	}
	duelFlags, err := reader.ReadDuelFlags(ct.header.Flags, c)
	if err != nil {
		return nil, err
	}

	res, err := decoder.Decode(c.Rest())
	if err != nil {
		return nil, err
	}

	r := &Replay{
		Header:     ct.header,
		Names:      names,
		DuelFlags:  duelFlags,
		Blocks:     res.Blocks,
		Unresolved: res.Unresolved,
		HasLegacy:  res.HasLegacy,
	}

	if res.HasLegacy && opts.Legacy {
		legacy, err := DecodeLegacy(res.Legacy)
		if err != nil {
			return nil, fmt.Errorf("legacy replay at message offset %d: %w", res.LegacyOffset, err)
		}
		if legacy.DuelFlags != duelFlags {
			return nil, fmt.Errorf("%w: replay 0x%x, legacy 0x%x", ErrDuelFlagsMismatch, duelFlags, legacy.DuelFlags)
		}
		r.Legacy = legacy
	}
	return r, nil
}

// DecodeLegacy decodes a yrp1 container
func DecodeLegacy(data []byte) (*LegacyReplay, error) {
	ct, err := open(data, reader.MagicYRP1)
	if err != nil {
		return nil, err
	}

	flags := ct.header.Flags
	c := reader.NewCursor(ct.payload)
	names, err := reader.ReadNames(flags, c)
	if err != nil {
		return nil, fmt.Errorf("duelists: %w", err)
	}
	duelists := 0
	for _, team := range names {
		duelists += len(team)
	}
	duelFlags, err := reader.ReadDuelFlags(flags, c)
	if err != nil {
		return nil, err
	}

	// ReadResponses walks the deck section itself
	decksAt := c.Offset()
	decks, err := reader.ReadDecks(c, duelists)
	if err != nil {
		return nil, fmt.Errorf("decks: %w", err)
	}
	c = reader.NewCursor(ct.payload)
	c.Skip(decksAt)
	responses, err := reader.ReadResponses(c, duelists)
	if err != nil {
		return nil, fmt.Errorf("responses: %w", err)
	}

	return &LegacyReplay{
		Header:    ct.header,
		Names:     names,
		DuelFlags: duelFlags,
		Decks:     decks,
		Responses: responses,
	}, nil
}
