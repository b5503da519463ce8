package board

import (
	"slices"

	"github.com/fsnow/duel-replay/pkg/duel"
)

// ApplyEvent updates the mirror with one decoded event
func (m *Mirror) ApplyEvent(ev duel.Event) {
	switch e := ev.(type) {
	case *duel.DuelStart:
		m.start(e)

	case *duel.Win:
		m.Winner = int(e.Player)

	case *duel.NewTurn:
		m.Turn++
		m.TurnPlayer = e.Player

	case *duel.NewPhase:
		m.Phase = e.Phase

	case *duel.Draw:
		s := m.side(e.Player)
		for _, dc := range e.Cards {
			c := m.deckTop(e.Player)
			c.forgetState()
			setCode(c, dc.Code)
			c.Position.Set(dc.Position)
			s.piles[duel.LocHand] = append(s.piles[duel.LocHand], c)
		}

	case *duel.CardMove:
		m.move(e)

	case *duel.PosChange:
		if c := m.CardAt(e.Place); c != nil {
			c.Position.Set(e.Cur)
			if e.Code != 0 {
				c.Code.Set(e.Code)
			}
		}

	case *duel.CardSet:
		if c := m.CardAt(e.Place); c != nil {
			c.Position.Set(e.Position)
			setCode(c, e.Code)
		}

	case *duel.CardSwap:
		c1 := m.take(e.Place1)
		c2 := m.take(e.Place2)
		m.put(e.Place1, c2)
		m.put(e.Place2, c1)

	case *duel.Summon:
		if c := m.CardAt(e.Place); c != nil {
			setCode(c, e.Code)
			c.Position.Set(e.Position)
		}

	case *duel.Chaining:
		if c := m.CardAt(e.Place); c != nil && e.Code != 0 {
			c.Code.Set(e.Code)
		}

	case *duel.Shuffle:
		m.shuffle(e)

	case *duel.ConfirmCards:
		for _, rc := range e.Cards {
			if c := m.CardAt(rc.Place); c != nil {
				setCode(c, rc.Code)
			}
		}

	case *duel.DeckTop:
		deck := m.side(e.Player).piles[duel.LocDeck]
		if i := len(deck) - 1 - int(e.Seq); i >= 0 && i < len(deck) {
			setCode(deck[i], e.Code)
			deck[i].Position.Set(e.Position)
		}

	case *duel.LPChange:
		s := m.side(e.Player)
		switch e.Kind {
		case duel.LPDamage, duel.LPPay:
			if e.Amount >= s.lp {
				s.lp = 0
			} else {
				s.lp -= e.Amount
			}
		case duel.LPRecover:
			s.lp += e.Amount
		case duel.LPUpdate:
			s.lp = e.Amount
		}

	case *duel.Equip:
		if c := m.CardAt(e.Card); c != nil {
			if e.Target != nil {
				c.Equipped.Set(*e.Target)
			} else {
				c.Equipped.Set(duel.NewPlace(0, 0, 0))
			}
		}

	case *duel.Target:
		c := m.CardAt(e.Card)
		if c == nil || !c.Relations.Known() {
			return
		}
		rel, _ := c.Relations.Get()
		idx := slices.Index(rel, e.Target)
		switch {
		case e.Cancel && idx >= 0:
			c.Relations.Set(slices.Delete(slices.Clone(rel), idx, idx+1))
		case !e.Cancel && idx < 0:
			c.Relations.Set(append(slices.Clone(rel), e.Target))
		}

	case *duel.CounterChange:
		m.counter(e)

	case *duel.SwapGraveDeck:
		m.swapGraveDeck(e)

	case *duel.ShuffleSetCards:
		cards := make([]*Card, len(e.From))
		for i, p := range e.From {
			cards[i] = m.take(p)
		}
		for i, c := range cards {
			if c == nil || i >= len(e.To) {
				continue
			}
			c.Code.Reset()
			m.put(e.To[i], c)
		}

	case *duel.DeckReversed:
		for i := range m.sides {
			slices.Reverse(m.sides[i].piles[duel.LocDeck])
		}

	case *duel.TagSwap:
		s := m.side(e.Player)
		deck := newCards(pileSize(e.DeckSize))
		if len(deck) > 0 {
			setCode(deck[len(deck)-1], e.DeckTopCode)
		}
		s.piles[duel.LocDeck] = deck
		s.piles[duel.LocHand] = knownCards(e.Hand)
		s.piles[duel.LocExtra] = knownCards(e.Extra)

	case *duel.FieldReload:
		m.reload(e)
	}
}

// maxPileSize bounds piles rebuilt from 32-bit counts
const maxPileSize = 0xffff

func pileSize(n uint32) int {
	return int(min(n, maxPileSize))
}

func (m *Mirror) start(e *duel.DuelStart) {
	*m = *New()
	for p := range m.sides {
		s := &m.sides[p]
		s.lp = e.LP[p]
		s.piles[duel.LocDeck] = newCards(int(e.DeckSize[p]))
		s.piles[duel.LocExtra] = newCards(int(e.ExtraSize[p]))
	}
}

func newCards(n int) []*Card {
	cards := make([]*Card, n)
	for i := range cards {
		cards[i] = &Card{}
	}
	return cards
}

func knownCards(list []duel.DrawnCard) []*Card {
	cards := make([]*Card, len(list))
	for i, dc := range list {
		c := &Card{}
		setCode(c, dc.Code)
		c.Position.Set(dc.Position)
		cards[i] = c
	}
	return cards
}

// reload rebuilds the board from a field snapshot. Turn and phase carry
// over; card identities are unknown until queried.
func (m *Mirror) reload(e *duel.FieldReload) {
	turn, player, phase := m.Turn, m.TurnPlayer, m.Phase
	*m = *New()
	m.Turn, m.TurnPlayer, m.Phase = turn, player, phase

	for p := range m.sides {
		rs := &e.Sides[p]
		s := &m.sides[p]
		s.lp = rs.LP
		for i, z := range rs.MZone {
			if z.Occupied {
				c := &Card{}
				c.Position.Set(z.Position)
				s.mzone[i] = Zone{Card: c, Materials: newCards(pileSize(z.Materials))}
			}
		}
		for i, z := range rs.SZone {
			if z.Occupied {
				c := &Card{}
				c.Position.Set(z.Position)
				s.szone[i] = Zone{Card: c}
			}
		}
		s.piles[duel.LocDeck] = newCards(pileSize(rs.DeckSize))
		s.piles[duel.LocHand] = newCards(pileSize(rs.HandSize))
		s.piles[duel.LocGrave] = newCards(pileSize(rs.GraveSize))
		s.piles[duel.LocRemoved] = newCards(pileSize(rs.RemovedSize))
		s.piles[duel.LocExtra] = newCards(pileSize(rs.ExtraSize))
	}
}

// swapGraveDeck exchanges graveyard and deck; flagged graveyard cards go
// to the extra deck instead
func (m *Mirror) swapGraveDeck(e *duel.SwapGraveDeck) {
	s := m.side(e.Player)
	grave := s.piles[duel.LocGrave]
	s.piles[duel.LocGrave] = s.piles[duel.LocDeck]
	for _, c := range s.piles[duel.LocGrave] {
		c.forgetState()
	}

	var deck []*Card
	for i, c := range grave {
		c.forgetState()
		if slices.Contains(e.ToExtra, uint32(i)) {
			s.piles[duel.LocExtra] = append(s.piles[duel.LocExtra], c)
			continue
		}
		deck = append(deck, c)
	}
	s.piles[duel.LocDeck] = deck
}

func (m *Mirror) move(e *duel.CardMove) {
	c := m.take(e.From)

	// a monster moving between monster zones keeps its materials
	var mats []*Card
	if e.From.Loc == duel.LocMZone && !e.From.IsOverlay() &&
		e.To.Loc == duel.LocMZone && !e.To.IsOverlay() {
		if z := m.zone(e.From); z != nil {
			mats, z.Materials = z.Materials, nil
		}
	}

	if c == nil {
		c = &Card{}
	}
	if e.From.Loc != e.To.Loc || e.From.IsOverlay() != e.To.IsOverlay() {
		c.forgetState()
	}
	setCode(c, e.Code)
	if !e.To.IsOverlay() {
		c.Position.Set(e.Position)
	}
	m.put(e.To, c)

	if len(mats) > 0 {
		if z := m.zone(e.To); z != nil {
			z.Materials = append(z.Materials, mats...)
		}
	}
}

func (m *Mirror) shuffle(e *duel.Shuffle) {
	pile := m.side(e.Player).piles[e.Loc]
	if e.Loc == duel.LocDeck {
		for _, c := range pile {
			c.Code.Reset()
		}
		return
	}
	for i, code := range e.Codes {
		if i >= len(pile) {
			break
		}
		setCode(pile[i], code)
	}
}

func (m *Mirror) counter(e *duel.CounterChange) {
	c := m.CardAt(e.Place)
	if c == nil || !c.Counters.Known() {
		return
	}
	cur, _ := c.Counters.Get()
	counters := slices.Clone(cur)
	i := slices.IndexFunc(counters, func(ct duel.Counter) bool { return ct.Type == e.Type })
	switch {
	case e.Remove && i >= 0:
		if counters[i].Count <= e.Count {
			counters = slices.Delete(counters, i, i+1)
		} else {
			counters[i].Count -= e.Count
		}
	case !e.Remove && i >= 0:
		counters[i].Count += e.Count
	case !e.Remove:
		counters = append(counters, duel.Counter{Type: e.Type, Count: e.Count})
	}
	c.Counters.Set(counters)
}
