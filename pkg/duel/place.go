// Package duel holds the structured form of core-engine messages: card
// places, duel events and per-card queries.
package duel

import "fmt"

// Loc is a card location bit as used by the core engine
type Loc uint32

// Locations
const (
	LocDeck    Loc = 0x01
	LocHand    Loc = 0x02
	LocMZone   Loc = 0x04
	LocSZone   Loc = 0x08
	LocGrave   Loc = 0x10
	LocRemoved Loc = 0x20
	LocExtra   Loc = 0x40
	LocOverlay Loc = 0x80
)

// Card positions
const (
	PosFaceUpAttack    uint32 = 0x1
	PosFaceDownAttack  uint32 = 0x2
	PosFaceUpDefense   uint32 = 0x4
	PosFaceDownDefense uint32 = 0x8
	PosFaceDown               = PosFaceDownAttack | PosFaceDownDefense
)

// Zone counts per controller
const (
	MZoneCount = 7 // 5 main monster zones + 2 extra monster zones
	SZoneCount = 8 // 5 spell/trap zones + field zone + 2 pendulum zones
)

func (l Loc) String() string {
	switch l {
	case LocDeck:
		return "deck"
	case LocHand:
		return "hand"
	case LocMZone:
		return "mzone"
	case LocSZone:
		return "szone"
	case LocGrave:
		return "grave"
	case LocRemoved:
		return "removed"
	case LocExtra:
		return "extra"
	case LocOverlay:
		return "overlay"
	case 0:
		return "none"
	default:
		return fmt.Sprintf("loc(0x%x)", uint32(l))
	}
}

// IsZone reports whether the location is made of fixed zones rather than a pile
func (l Loc) IsZone() bool {
	return l == LocMZone || l == LocSZone
}

// Place identifies one card slot on the board.
//
// OSeq is the index inside the xyz material list of the monster at
// (Con, Loc, Seq), or -1 for a card that is not a material.
type Place struct {
	Con  uint8  `json:"con" bson:"con"`
	Loc  Loc    `json:"loc" bson:"loc"`
	Seq  uint32 `json:"seq" bson:"seq"`
	OSeq int32  `json:"oseq" bson:"oseq"`
}

// NewPlace returns a non-material place
func NewPlace(con uint8, loc Loc, seq uint32) Place {
	return Place{Con: con, Loc: loc, Seq: seq, OSeq: -1}
}

// IsOverlay reports whether the place denotes an xyz material
func (p Place) IsOverlay() bool {
	return p.OSeq >= 0
}

// Owner returns the zone holding the xyz monster a material belongs to
func (p Place) Owner() Place {
	return Place{Con: p.Con, Loc: p.Loc, Seq: p.Seq, OSeq: -1}
}

// IsNone reports whether the place refers to no location at all
// (token creation or removal from the duel)
func (p Place) IsNone() bool {
	return p.Loc == 0
}

// Less orders places by controller, location, sequence and material index
func (p Place) Less(q Place) bool {
	if p.Con != q.Con {
		return p.Con < q.Con
	}
	if p.Loc != q.Loc {
		return p.Loc < q.Loc
	}
	if p.Seq != q.Seq {
		return p.Seq < q.Seq
	}
	return p.OSeq < q.OSeq
}

func (p Place) String() string {
	if p.IsOverlay() {
		return fmt.Sprintf("p%d/%s/%d/mat%d", p.Con, p.Loc, p.Seq, p.OSeq)
	}
	return fmt.Sprintf("p%d/%s/%d", p.Con, p.Loc, p.Seq)
}
