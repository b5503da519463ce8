package board

import (
	"slices"

	"github.com/fsnow/duel-replay/pkg/duel"
)

// Zone is one monster or spell/trap zone. Xyz materials belong to the zone
// and stay there when the monster leaves until they are moved themselves.
type Zone struct {
	Card      *Card
	Materials []*Card
}

type side struct {
	piles map[duel.Loc][]*Card
	mzone [duel.MZoneCount]Zone
	szone [duel.SZoneCount]Zone
	lp    uint32
}

// Mirror is the board as seen through the decoded events
type Mirror struct {
	sides [2]side

	Turn       uint32
	TurnPlayer uint8
	Phase      uint16
	// Winner is the winning player, -1 while the duel runs
	Winner int
}

// New returns an empty board
func New() *Mirror {
	m := &Mirror{Winner: -1}
	for i := range m.sides {
		m.sides[i].piles = make(map[duel.Loc][]*Card)
	}
	return m
}

func (m *Mirror) side(con uint8) *side {
	return &m.sides[con&1]
}

func (m *Mirror) zone(p duel.Place) *Zone {
	s := m.side(p.Con)
	switch p.Loc {
	case duel.LocMZone:
		if p.Seq < duel.MZoneCount {
			return &s.mzone[p.Seq]
		}
	case duel.LocSZone:
		if p.Seq < duel.SZoneCount {
			return &s.szone[p.Seq]
		}
	}
	return nil
}

// LP returns the life points of a player
func (m *Mirror) LP(con uint8) uint32 {
	return m.side(con).lp
}

// PileSize returns the number of cards in a pile, or the number of
// occupied zones for the monster and spell/trap zones
func (m *Mirror) PileSize(con uint8, loc duel.Loc) int {
	s := m.side(con)
	var zones []Zone
	switch loc {
	case duel.LocMZone:
		zones = s.mzone[:]
	case duel.LocSZone:
		zones = s.szone[:]
	default:
		return len(s.piles[loc])
	}
	n := 0
	for _, z := range zones {
		if z.Card != nil {
			n++
		}
	}
	return n
}

// CardAt returns the card at p, or nil
func (m *Mirror) CardAt(p duel.Place) *Card {
	if p.IsNone() {
		return nil
	}
	if p.IsOverlay() {
		z := m.zone(p.Owner())
		if z == nil || int(p.OSeq) >= len(z.Materials) {
			return nil
		}
		return z.Materials[p.OSeq]
	}
	if p.Loc.IsZone() {
		if z := m.zone(p); z != nil {
			return z.Card
		}
		return nil
	}
	pile := m.side(p.Con).piles[p.Loc]
	if int(p.Seq) >= len(pile) {
		return nil
	}
	return pile[p.Seq]
}

// HasCard reports whether the mirror knows a card at p
func (m *Mirror) HasCard(p duel.Place) bool {
	return m.CardAt(p) != nil
}

// HasXyzMat reports whether the zone holds materials
func (m *Mirror) HasXyzMat(zone duel.Place) bool {
	z := m.zone(zone.Owner())
	return z != nil && len(z.Materials) > 0
}

// ParseQuery folds a query into the card at its place. It returns the
// cached fields that repeated known values, and false when the mirror has
// no card there.
func (m *Mirror) ParseQuery(q *duel.Query) (duel.QueryField, bool) {
	c := m.CardAt(q.Place)
	if c == nil {
		return 0, false
	}
	if q.Data.Has(duel.FieldMaterials) && !q.Place.IsOverlay() {
		m.syncMaterials(q.Place, q.Data.Materials)
	}
	return c.ParseQuery(&q.Data), true
}

func (m *Mirror) syncMaterials(p duel.Place, codes []uint32) {
	z := m.zone(p)
	if z == nil {
		return
	}
	for len(z.Materials) < len(codes) {
		z.Materials = append(z.Materials, &Card{})
	}
	z.Materials = z.Materials[:len(codes)]
	for i, code := range codes {
		z.Materials[i].Code.Set(code)
	}
}

// take removes and returns the card at p
func (m *Mirror) take(p duel.Place) *Card {
	if p.IsNone() {
		return nil
	}
	if p.IsOverlay() {
		z := m.zone(p.Owner())
		if z == nil || int(p.OSeq) >= len(z.Materials) {
			return nil
		}
		c := z.Materials[p.OSeq]
		z.Materials = slices.Delete(z.Materials, int(p.OSeq), int(p.OSeq)+1)
		return c
	}
	if p.Loc.IsZone() {
		z := m.zone(p)
		if z == nil {
			return nil
		}
		c := z.Card
		z.Card = nil
		return c
	}
	s := m.side(p.Con)
	pile := s.piles[p.Loc]
	if int(p.Seq) >= len(pile) {
		return nil
	}
	c := pile[p.Seq]
	s.piles[p.Loc] = slices.Delete(pile, int(p.Seq), int(p.Seq)+1)
	return c
}

// put places c at p. Cards sent nowhere leave the duel; a nil card
// leaves p as it is.
func (m *Mirror) put(p duel.Place, c *Card) {
	if p.IsNone() || c == nil {
		return
	}
	if p.IsOverlay() {
		z := m.zone(p.Owner())
		if z == nil {
			return
		}
		at := min(int(p.OSeq), len(z.Materials))
		z.Materials = slices.Insert(z.Materials, at, c)
		return
	}
	if p.Loc.IsZone() {
		if z := m.zone(p); z != nil {
			z.Card = c
		}
		return
	}
	s := m.side(p.Con)
	pile := s.piles[p.Loc]
	at := min(int(p.Seq), len(pile))
	s.piles[p.Loc] = slices.Insert(pile, at, c)
}

func (m *Mirror) deckTop(con uint8) *Card {
	s := m.side(con)
	deck := s.piles[duel.LocDeck]
	if len(deck) == 0 {
		return &Card{}
	}
	c := deck[len(deck)-1]
	s.piles[duel.LocDeck] = deck[:len(deck)-1]
	if c == nil {
		return &Card{}
	}
	return c
}

func setCode(c *Card, code uint32) {
	if code == 0 {
		c.Code.Reset()
		return
	}
	c.Code.Set(code)
}
