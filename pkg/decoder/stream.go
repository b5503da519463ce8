package decoder

import (
	"slices"

	"github.com/fsnow/duel-replay/pkg/duel"
)

// Block is one decoded message in the output stream
type Block struct {
	// TimeOffsetMS is always 0, replays carry no timing
	TimeOffsetMS uint32
	Msg          *duel.Msg
}

// Stream collects decoded blocks in arrival order
type Stream struct {
	blocks       []Block
	legacy       []byte
	legacyOffset int
	hasLegacy    bool
}

// Append adds a message as the next block
func (s *Stream) Append(msg *duel.Msg) {
	s.blocks = append(s.blocks, Block{Msg: msg})
}

func (s *Stream) Len() int {
	return len(s.blocks)
}

// Blocks returns a copy of the block list
func (s *Stream) Blocks() []Block {
	return slices.Clone(s.blocks)
}

// Legacy returns the embedded legacy replay bytes and their offset in the
// message buffer, if the stream ended with a legacy handoff
func (s *Stream) Legacy() ([]byte, int, bool) {
	return s.legacy, s.legacyOffset, s.hasLegacy
}

func (s *Stream) setLegacy(tail []byte, offset int) {
	s.legacy = tail
	s.legacyOffset = offset
	s.hasLegacy = true
}
