package decoder

import "github.com/fsnow/duel-replay/pkg/duel"

// Result of decoding a whole message buffer
type Result struct {
	Blocks []Block

	// Legacy holds the embedded legacy replay when HasLegacy is set;
	// LegacyOffset is its position in the message buffer
	Legacy       []byte
	LegacyOffset int
	HasLegacy    bool

	Unresolved []duel.Place
}

// Decode runs a session over buf. On error no blocks are returned.
func Decode(buf []byte) (*Result, error) {
	s := NewSession(buf)
	if err := s.Run(); err != nil {
		return nil, err
	}
	legacy, off, ok := s.stream.Legacy()
	return &Result{
		Blocks:       s.stream.Blocks(),
		Legacy:       legacy,
		LegacyOffset: off,
		HasLegacy:    ok,
		Unresolved:   s.Unresolved(),
	}, nil
}
