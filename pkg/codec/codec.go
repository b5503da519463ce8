// Package codec decodes single core-engine messages into duel.Msg values.
//
// DecodeOne receives a message as [type][body] and reports how many bytes
// it consumed. It never reads past the slice it is given; a body that is
// too short shows up as a consumed count larger than the slice.
package codec

import (
	"github.com/fsnow/duel-replay/pkg/duel"
)

// ResultState is the outcome of decoding one message
type ResultState int

const (
	// ResultOK means Msg holds a decoded message
	ResultOK ResultState = iota
	// ResultSwallowed means the message was understood but produces nothing
	ResultSwallowed
	// ResultUnknown means the message type is not part of the catalogue
	ResultUnknown
)

func (s ResultState) String() string {
	switch s {
	case ResultOK:
		return "ok"
	case ResultSwallowed:
		return "swallowed"
	default:
		return "unknown"
	}
}

// Result of DecodeOne
type Result struct {
	State     ResultState
	Msg       *duel.Msg
	BytesRead int
}

// EncodeContext is the decoding state the codec reads and updates between
// messages
type EncodeContext interface {
	// PileSize returns the number of cards in a controller's location
	PileSize(con uint8, loc duel.Loc) int

	MatchWinReason() uint32
	SetMatchWinReason(reason uint32)

	// HasXyzMat reports whether the zone holds xyz materials
	HasXyzMat(zone duel.Place) bool
	// GetXyzLeft returns where the xyz monster of a zone went
	GetXyzLeft(zone duel.Place) (duel.Place, bool)
	// XyzLeft records that the xyz monster at from moved to left
	XyzLeft(left, from duel.Place)
	// XyzMatDefer queues a zone whose materials are not known yet
	XyzMatDefer(zone duel.Place)
	// TakeDeferredXyzMat returns and clears the queued zones
	TakeDeferredXyzMat() []duel.Place
}

// DecodeOne decodes the message at the start of buf
func DecodeOne(ctx EncodeContext, buf []byte) Result {
	if len(buf) == 0 {
		return Result{State: ResultUnknown}
	}
	t := buf[0]
	w := &wire{buf: buf, off: 1}
	msg := &duel.Msg{Type: t}

	deferred := ctx.TakeDeferredXyzMat()

	state := decodeBody(ctx, t, w, msg)
	if state != ResultOK {
		for _, zone := range deferred {
			ctx.XyzMatDefer(zone)
		}
		if state == ResultUnknown {
			return Result{State: ResultUnknown}
		}
		return Result{State: state, BytesRead: w.off}
	}

	msg.XyzResolved = resolveDeferred(ctx, deferred)
	return Result{State: ResultOK, Msg: msg, BytesRead: w.off}
}

func resolveDeferred(ctx EncodeContext, zones []duel.Place) []duel.XyzLink {
	var resolved []duel.XyzLink
	for _, zone := range zones {
		if to, ok := ctx.GetXyzLeft(zone); ok {
			resolved = append(resolved, duel.XyzLink{Zone: zone, To: to})
			continue
		}
		if ctx.HasXyzMat(zone) {
			resolved = append(resolved, duel.XyzLink{Zone: zone, To: zone})
			continue
		}
		ctx.XyzMatDefer(zone)
	}
	return resolved
}

func decodeBody(ctx EncodeContext, t uint8, w *wire, msg *duel.Msg) ResultState {
	switch t {
	case MsgRetry, MsgWaiting:
	case MsgRefreshDeck:
		w.u8()
	case MsgHint, MsgPlayerHint:
		w.u8()
		w.u8()
		w.u64()
	case MsgCardHint:
		w.locInfo()
		w.u8()
		w.u64()
	case MsgRockPaperScissors:
		w.u8()
	case MsgMatchKill:
		ctx.SetMatchWinReason(w.u32())
	default:
		return decodeEvent(ctx, t, w, msg)
	}
	return ResultSwallowed
}

func decodeEvent(ctx EncodeContext, t uint8, w *wire, msg *duel.Msg) ResultState {
	switch t {
	case MsgStart:
		ev := &duel.DuelStart{DuelType: w.u8()}
		ev.LP[0] = w.u32()
		ev.LP[1] = w.u32()
		ev.DeckSize[0] = w.u16()
		ev.ExtraSize[0] = w.u16()
		ev.DeckSize[1] = w.u16()
		ev.ExtraSize[1] = w.u16()
		msg.Event = ev

	case MsgWin:
		msg.Event = &duel.Win{Player: w.u8(), Reason: w.u8(), MatchReason: ctx.MatchWinReason()}

	case MsgUpdateData:
		con := w.u8()
		loc := duel.Loc(w.u8())
		msg.Queries = readZoneQueries(ctx, w, con, loc)

	case MsgUpdateCard:
		pl := w.shortPlace()
		if d, ok := readQuery(w); ok {
			msg.Queries = []duel.Query{{Place: pl, Data: d}}
		}

	case MsgConfirmDeckTop, MsgConfirmCards:
		ev := &duel.ConfirmCards{Player: w.u8(), DeckTop: t == MsgConfirmDeckTop}
		n := w.count(10)
		ev.Cards = make([]duel.RevealedCard, 0, n)
		for i := 0; i < n && !w.short(); i++ {
			code := w.u32()
			con := w.u8()
			loc := duel.Loc(w.u8())
			seq := w.u32()
			ev.Cards = append(ev.Cards, duel.RevealedCard{Code: code, Place: duel.NewPlace(con, loc, seq)})
		}
		msg.Event = ev

	case MsgShuffleDeck:
		msg.Event = &duel.Shuffle{Player: w.u8(), Loc: duel.LocDeck}

	case MsgShuffleHand, MsgShuffleExtra:
		ev := &duel.Shuffle{Player: w.u8(), Loc: duel.LocHand}
		if t == MsgShuffleExtra {
			ev.Loc = duel.LocExtra
		}
		n := w.count(4)
		ev.Codes = make([]uint32, 0, n)
		for i := 0; i < n && !w.short(); i++ {
			ev.Codes = append(ev.Codes, w.u32())
		}
		msg.Event = ev

	case MsgDeckTop:
		msg.Event = &duel.DeckTop{Player: w.u8(), Seq: w.u32(), Code: w.u32(), Position: w.u32()}

	case MsgNewTurn:
		msg.Event = &duel.NewTurn{Player: w.u8()}

	case MsgNewPhase:
		msg.Event = &duel.NewPhase{Phase: w.u16()}

	case MsgMove:
		msg.Event = decodeMove(ctx, w)

	case MsgPosChange:
		ev := &duel.PosChange{Code: w.u32()}
		ev.Place = w.shortPlace()
		ev.Prev = uint32(w.u8())
		ev.Cur = uint32(w.u8())
		msg.Event = ev

	case MsgSet:
		ev := &duel.CardSet{Code: w.u32()}
		ev.Place, ev.Position = w.locInfo()
		msg.Event = ev

	case MsgSwap:
		ev := &duel.CardSwap{Code1: w.u32()}
		ev.Place1, _ = w.locInfo()
		ev.Code2 = w.u32()
		ev.Place2, _ = w.locInfo()
		msg.Event = ev

	case MsgFieldDisabled:
		msg.Event = &duel.FieldDisabled{Zones: w.u32()}

	case MsgSummoning, MsgSpSummoning, MsgFlipSummoning:
		ev := &duel.Summon{Kind: summonKind(t), Code: w.u32()}
		ev.Place, ev.Position = w.locInfo()
		msg.Event = ev

	case MsgSummoned, MsgSpSummoned, MsgFlipSummoned:
		msg.Event = &duel.SummonDone{Kind: summonKind(t - 1)}

	case MsgChaining:
		ev := &duel.Chaining{Code: w.u32()}
		ev.Place, ev.Position = w.locInfo()
		con := w.u8()
		loc := duel.Loc(w.u8())
		seq := w.u32()
		ev.ChainPlace = duel.NewPlace(con, loc, seq)
		ev.Desc = w.u64()
		ev.Count = w.u32()
		msg.Event = ev

	case MsgChained, MsgChainSolving, MsgChainSolved, MsgChainNegated, MsgChainDisabled:
		msg.Event = &duel.ChainStep{Kind: chainStepKind(t), Count: w.u8()}

	case MsgChainEnd:
		msg.Event = &duel.ChainStep{Kind: duel.ChainEnd}

	case MsgDraw:
		ev := &duel.Draw{Player: w.u8()}
		ev.Cards = w.drawnCards(w.count(8))
		msg.Event = ev

	case MsgDamage, MsgRecover, MsgLPUpdate, MsgPayLPCost:
		msg.Event = &duel.LPChange{Kind: lpChangeKind(t), Player: w.u8(), Amount: w.u32()}

	case MsgEquip:
		ev := &duel.Equip{}
		ev.Card, _ = w.locInfo()
		target, _ := w.locInfo()
		ev.Target = &target
		msg.Event = ev

	case MsgUnequip:
		ev := &duel.Equip{}
		ev.Card, _ = w.locInfo()
		msg.Event = ev

	case MsgCardTarget, MsgCancelTarget:
		ev := &duel.Target{Cancel: t == MsgCancelTarget}
		ev.Card, _ = w.locInfo()
		ev.Target, _ = w.locInfo()
		msg.Event = ev

	case MsgAddCounter, MsgRemoveCounter:
		ev := &duel.CounterChange{Type: w.u16(), Remove: t == MsgRemoveCounter}
		ev.Place = w.shortPlace()
		ev.Count = w.u16()
		msg.Event = ev

	case MsgAttack:
		ev := &duel.Attack{}
		ev.Attacker, _ = w.locInfo()
		if target, _ := w.locInfo(); !target.IsNone() {
			ev.Target = &target
		}
		msg.Event = ev

	case MsgBattle:
		ev := &duel.Battle{}
		ev.Attacker, _ = w.locInfo()
		ev.AttackerAtk = w.u32()
		ev.AttackerDef = w.u32()
		ev.AttackerDies = w.u8() != 0
		ev.Target, _ = w.locInfo()
		ev.TargetAtk = w.u32()
		ev.TargetDef = w.u32()
		ev.TargetDies = w.u8() != 0
		msg.Event = ev

	case MsgAttackDisabled:
		msg.Event = &duel.BattleStep{Kind: duel.AttackDisabled}
	case MsgDamageStepStart:
		msg.Event = &duel.BattleStep{Kind: duel.DamageStepStart}
	case MsgDamageStepEnd:
		msg.Event = &duel.BattleStep{Kind: duel.DamageStepEnd}

	case MsgTossCoin, MsgTossDice:
		ev := &duel.Toss{Player: w.u8(), Dice: t == MsgTossDice}
		n := int(w.u8())
		ev.Results = make([]uint8, 0, n)
		for i := 0; i < n && !w.short(); i++ {
			ev.Results = append(ev.Results, w.u8())
		}
		msg.Event = ev

	case MsgSwapGraveDeck:
		ev := &duel.SwapGraveDeck{Player: w.u8(), DeckSize: w.u32()}
		for i, b := range w.rest() {
			for bit := 0; bit < 8; bit++ {
				if b&(1<<bit) != 0 {
					ev.ToExtra = append(ev.ToExtra, uint32(i*8+bit))
				}
			}
		}
		msg.Event = ev

	case MsgShuffleSetCard:
		ev := &duel.ShuffleSetCards{Loc: duel.Loc(w.u8())}
		n := w.clamp(int(w.u8()), 20)
		ev.From = make([]duel.Place, 0, n)
		ev.To = make([]duel.Place, 0, n)
		for i := 0; i < n && !w.short(); i++ {
			p, _ := w.locInfo()
			ev.From = append(ev.From, p)
		}
		for i := 0; i < n && !w.short(); i++ {
			p, _ := w.locInfo()
			ev.To = append(ev.To, p)
		}
		msg.Event = ev

	case MsgReverseDeck:
		msg.Event = &duel.DeckReversed{}

	case MsgCardSelected:
		msg.Event = &duel.CardsSelected{Cards: w.places()}

	case MsgRandomSelected:
		ev := &duel.CardsSelected{Random: true, Player: w.u8()}
		ev.Cards = w.places()
		msg.Event = ev

	case MsgBecomeTarget, MsgBeChainTarget:
		msg.Event = &duel.BecomeTarget{Chain: t == MsgBeChainTarget, Cards: w.places()}

	case MsgMissedEffect:
		ev := &duel.MissedEffect{}
		ev.Place, _ = w.locInfo()
		ev.Code = w.u32()
		msg.Event = ev

	case MsgCreateRelation, MsgReleaseRelation:
		ev := &duel.Target{Cancel: t == MsgReleaseRelation}
		ev.Card, _ = w.locInfo()
		ev.Target, _ = w.locInfo()
		msg.Event = ev

	case MsgHandRes:
		res := w.u8()
		msg.Event = &duel.HandResult{Hands: [2]uint8{res & 0x3, (res >> 2) & 0x3}}

	case MsgTagSwap:
		ev := &duel.TagSwap{Player: w.u8(), DeckSize: w.u32(), ExtraSize: w.u32(), ExtraFaceUp: w.u32()}
		hand := int(w.u32())
		ev.DeckTopCode = w.u32()
		ev.Hand = w.drawnCards(w.clamp(hand, 8))
		ev.Extra = w.drawnCards(w.clamp(int(ev.ExtraSize), 8))
		msg.Event = ev

	case MsgReloadField:
		msg.Event = decodeReload(w)

	default:
		return ResultUnknown
	}
	return ResultOK
}

// decodeReload reads a RELOAD_FIELD body: the duel rule, both sides
// (LP, zone occupancy, pile sizes) and the open chain
func decodeReload(w *wire) *duel.FieldReload {
	ev := &duel.FieldReload{DuelRule: w.u8()}
	for p := range ev.Sides {
		side := &ev.Sides[p]
		side.LP = w.u32()
		for i := range side.MZone {
			if w.u8() != 0 {
				side.MZone[i] = duel.ReloadedZone{Occupied: true, Position: uint32(w.u8()), Materials: w.u32()}
			}
		}
		for i := range side.SZone {
			if w.u8() != 0 {
				side.SZone[i] = duel.ReloadedZone{Occupied: true, Position: uint32(w.u8())}
			}
		}
		side.DeckSize = w.u32()
		side.HandSize = w.u32()
		side.GraveSize = w.u32()
		side.RemovedSize = w.u32()
		side.ExtraSize = w.u32()
		side.ExtraFaceUp = w.u32()
	}
	n := w.count(28)
	for i := 0; i < n && !w.short(); i++ {
		ch := duel.ReloadedChain{Code: w.u32()}
		ch.Place, _ = w.locInfo()
		con := w.u8()
		loc := duel.Loc(w.u8())
		seq := w.u32()
		ch.ChainPlace = duel.NewPlace(con, loc, seq)
		ch.Desc = w.u64()
		ev.Chains = append(ev.Chains, ch)
	}
	return ev
}

// readZoneQueries reads the query blocks of every slot in a location.
// Empty zones produce no query.
func readZoneQueries(ctx EncodeContext, w *wire, con uint8, loc duel.Loc) []duel.Query {
	var slots int
	switch loc {
	case duel.LocMZone:
		slots = duel.MZoneCount
	case duel.LocSZone:
		slots = duel.SZoneCount
	default:
		slots = ctx.PileSize(con, loc)
	}
	var queries []duel.Query
	for seq := 0; seq < slots && !w.short(); seq++ {
		if d, ok := readQuery(w); ok {
			queries = append(queries, duel.Query{Place: duel.NewPlace(con, loc, uint32(seq)), Data: d})
		}
	}
	return queries
}

// decodeMove reads a MOVE body and keeps the xyz bookkeeping current
func decodeMove(ctx EncodeContext, w *wire) *duel.CardMove {
	ev := &duel.CardMove{Code: w.u32()}
	ev.From, _ = w.locInfo()
	ev.To, ev.Position = w.locInfo()
	ev.Reason = w.u32()

	leavesZone := ev.To.Loc != duel.LocMZone || ev.To.IsOverlay()
	if ev.From.Loc == duel.LocMZone && !ev.From.IsOverlay() && leavesZone && ctx.HasXyzMat(ev.From) {
		ctx.XyzLeft(ev.To, ev.From)
	}

	if ev.From.IsOverlay() {
		owner := ev.From.Owner()
		if left, ok := ctx.GetXyzLeft(owner); ok {
			ev.XyzLeft = &left
		} else if !ctx.HasXyzMat(owner) {
			ctx.XyzMatDefer(owner)
		}
	}
	return ev
}

func summonKind(t uint8) duel.SummonKind {
	switch t {
	case MsgSpSummoning:
		return duel.SummonSpecial
	case MsgFlipSummoning:
		return duel.SummonFlip
	default:
		return duel.SummonNormal
	}
}

func chainStepKind(t uint8) duel.ChainStepKind {
	switch t {
	case MsgChained:
		return duel.ChainChained
	case MsgChainSolving:
		return duel.ChainSolving
	case MsgChainSolved:
		return duel.ChainSolved
	case MsgChainNegated:
		return duel.ChainNegated
	default:
		return duel.ChainDisabled
	}
}

func lpChangeKind(t uint8) duel.LPChangeKind {
	switch t {
	case MsgRecover:
		return duel.LPRecover
	case MsgLPUpdate:
		return duel.LPUpdate
	case MsgPayLPCost:
		return duel.LPPay
	default:
		return duel.LPDamage
	}
}
