package decoder

import (
	"github.com/fsnow/duel-replay/pkg/board"
	"github.com/fsnow/duel-replay/pkg/duel"
)

// replayContext is the codec's view of a session: the board mirror plus
// the match and xyz bookkeeping that lives between messages
type replayContext struct {
	board          *board.Mirror
	matchWinReason uint32
	xyzLeft        map[duel.Place]duel.Place
	deferred       []duel.Place
}

func newReplayContext(m *board.Mirror) *replayContext {
	return &replayContext{
		board:   m,
		xyzLeft: make(map[duel.Place]duel.Place),
	}
}

func (c *replayContext) PileSize(con uint8, loc duel.Loc) int {
	return c.board.PileSize(con, loc)
}

func (c *replayContext) MatchWinReason() uint32 {
	return c.matchWinReason
}

func (c *replayContext) SetMatchWinReason(reason uint32) {
	c.matchWinReason = reason
}

func (c *replayContext) HasXyzMat(zone duel.Place) bool {
	return c.board.HasXyzMat(zone)
}

func (c *replayContext) GetXyzLeft(zone duel.Place) (duel.Place, bool) {
	to, ok := c.xyzLeft[zone.Owner()]
	return to, ok
}

func (c *replayContext) XyzLeft(left, from duel.Place) {
	c.xyzLeft[from.Owner()] = left
}

func (c *replayContext) XyzMatDefer(zone duel.Place) {
	c.deferred = append(c.deferred, zone.Owner())
}

func (c *replayContext) TakeDeferredXyzMat() []duel.Place {
	d := c.deferred
	c.deferred = nil
	return d
}

// afterEvent drops xyz mappings that no longer describe the board: a zone
// taken by a new monster, a zone whose last material was detached, or
// every zone after a field reload
func (c *replayContext) afterEvent(ev duel.Event) {
	if _, ok := ev.(*duel.FieldReload); ok {
		clear(c.xyzLeft)
		return
	}
	mv, ok := ev.(*duel.CardMove)
	if !ok {
		return
	}
	if mv.To.Loc == duel.LocMZone && !mv.To.IsOverlay() {
		delete(c.xyzLeft, mv.To)
	}
	if mv.From.IsOverlay() && !c.board.HasXyzMat(mv.From.Owner()) {
		delete(c.xyzLeft, mv.From.Owner())
	}
}
