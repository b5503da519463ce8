package codec

import (
	"encoding/binary"

	"github.com/fsnow/duel-replay/pkg/duel"
)

// wire reads a message body. Reads past the end return zero values but
// still advance the offset, so the caller can compare the consumed count
// with the declared length afterwards.
type wire struct {
	buf []byte
	off int
}

func (w *wire) take(n int) []byte {
	start := w.off
	w.off += n
	if n < 0 || w.off > len(w.buf) {
		return nil
	}
	return w.buf[start:w.off]
}

// short reports whether a read went past the end of the body
func (w *wire) short() bool {
	return w.off > len(w.buf)
}

func (w *wire) remaining() int {
	if w.short() {
		return 0
	}
	return len(w.buf) - w.off
}

func (w *wire) u8() uint8 {
	b := w.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (w *wire) u16() uint16 {
	b := w.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (w *wire) u32() uint32 {
	b := w.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (w *wire) u64() uint64 {
	b := w.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// rest consumes whatever is left of the body
func (w *wire) rest() []byte {
	return w.take(w.remaining())
}

// clamp limits an element count to what the body can still hold at unit
// bytes per element
func (w *wire) clamp(n, unit int) int {
	if limit := w.remaining() / unit; n > limit {
		// the loop reading the elements will run short and report it
		return limit + 1
	}
	return n
}

// count reads a uint32 element count and clamps it
func (w *wire) count(unit int) int {
	return w.clamp(int(w.u32()), unit)
}

// places reads {u32 n, n×loc_info}
func (w *wire) places() []duel.Place {
	n := w.count(10)
	out := make([]duel.Place, 0, n)
	for i := 0; i < n && !w.short(); i++ {
		p, _ := w.locInfo()
		out = append(out, p)
	}
	return out
}

// drawnCards reads n×{u32 code, u32 position}
func (w *wire) drawnCards(n int) []duel.DrawnCard {
	out := make([]duel.DrawnCard, 0, n)
	for i := 0; i < n && !w.short(); i++ {
		out = append(out, duel.DrawnCard{Code: w.u32(), Position: w.u32()})
	}
	return out
}

// locInfo reads {con u8, loc u8, seq u32, pos u32}. For an xyz material
// pos is the material index and the returned position is 0.
func (w *wire) locInfo() (duel.Place, uint32) {
	con := w.u8()
	loc := duel.Loc(w.u8())
	seq := w.u32()
	pos := w.u32()
	if loc&duel.LocOverlay != 0 {
		loc &^= duel.LocOverlay
		if loc == 0 {
			loc = duel.LocMZone
		}
		return duel.Place{Con: con, Loc: loc, Seq: seq, OSeq: int32(pos)}, 0
	}
	return duel.NewPlace(con, loc, seq), pos
}

// shortPlace reads {con u8, loc u8, seq u8}
func (w *wire) shortPlace() duel.Place {
	con := w.u8()
	loc := duel.Loc(w.u8())
	seq := w.u8()
	return duel.NewPlace(con, loc, uint32(seq))
}
