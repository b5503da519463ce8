package replay

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ulikunitz/xz/lzma"

	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/duel"
	"github.com/fsnow/duel-replay/pkg/reader"
)

// buildReplay creates a container with the given magic, flags and payload.
// When compress is set the payload is stored as a raw LZMA stream.
func buildReplay(t *testing.T, magic, flags uint32, payload []byte, compress bool) []byte {
	t.Helper()
	var props [8]byte
	body := payload
	if compress {
		flags |= reader.FlagCompressed
		var out bytes.Buffer
		w, err := lzma.NewWriter(&out)
		if err != nil {
			t.Fatalf("lzma.NewWriter() error = %v", err)
		}
		w.Write(payload)
		if err := w.Close(); err != nil {
			t.Fatalf("lzma close error = %v", err)
		}
		copy(props[:5], out.Bytes()[:5])
		body = out.Bytes()[13:]
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, magic)
	binary.Write(buf, binary.LittleEndian, uint32(0x1000))
	binary.Write(buf, binary.LittleEndian, flags)
	binary.Write(buf, binary.LittleEndian, uint32(1700000000))
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	buf.Write(props[:])
	if flags&reader.FlagExtendedHeader != 0 {
		binary.Write(buf, binary.LittleEndian, reader.LatestHeaderVersion)
		binary.Write(buf, binary.LittleEndian, [4]uint64{1, 2, 3, 4})
	}
	buf.Write(body)
	return buf.Bytes()
}

func frame(t uint8, fields ...any) []byte {
	body := new(bytes.Buffer)
	for _, f := range fields {
		binary.Write(body, binary.LittleEndian, f)
	}
	buf := new(bytes.Buffer)
	buf.WriteByte(t)
	binary.Write(buf, binary.LittleEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func singleNames(a, b string) []byte {
	return append(reader.EncodeName(a), reader.EncodeName(b)...)
}

func teamNames(teams ...[]string) []byte {
	buf := new(bytes.Buffer)
	for _, team := range teams {
		binary.Write(buf, binary.LittleEndian, uint32(len(team)))
		for _, name := range team {
			buf.Write(reader.EncodeName(name))
		}
	}
	return buf.Bytes()
}

func u32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func legacyReplay(t *testing.T, duelFlags uint32) []byte {
	return legacyReplayWithFlags(t, duelFlags, reader.FlagSingleMode)
}

func legacyReplayWithFlags(t *testing.T, duelFlags, flags uint32) []byte {
	payload := new(bytes.Buffer)
	payload.Write(singleNames("Old A", "Old B"))
	payload.Write(u32(duelFlags))
	for _, deck := range [][]uint32{{1, 2}, {3}, {4, 5, 6}, {}, {}} {
		payload.Write(u32(uint32(len(deck))))
		for _, code := range deck {
			payload.Write(u32(code))
		}
	}
	payload.Write([]byte{2, 0xA, 0xB, 1, 0xC})
	return buildReplay(t, reader.MagicYRP1, flags, payload.Bytes(), false)
}

func TestLegacyHandoffOnly(t *testing.T) {
	payload := bytes.Join([][]byte{
		singleNames("Alice", "Bob"),
		u32(0x2800),
		{codec.MsgOldReplayMode, 0, 0, 0, 0},
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, payload, false)

	r, err := Decode(data, Options{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(r.Blocks) != 0 {
		t.Errorf("blocks = %d, want 0", len(r.Blocks))
	}
	if !r.HasLegacy || r.Legacy != nil {
		t.Errorf("HasLegacy = %v Legacy = %v", r.HasLegacy, r.Legacy)
	}
	if r.DuelFlags != 0x2800 {
		t.Errorf("DuelFlags = 0x%x", r.DuelFlags)
	}
	if !reflect.DeepEqual(r.Names, [][]string{{"Alice"}, {"Bob"}}) {
		t.Errorf("Names = %v", r.Names)
	}

	res, err := decoder.Decode([]byte{codec.MsgOldReplayMode, 0, 0, 0, 0})
	if err != nil || !res.HasLegacy || res.LegacyOffset != 5 || len(res.Legacy) != 0 {
		t.Errorf("handoff = %+v, %v", res, err)
	}
}

func TestTeamModeSingleEvent(t *testing.T) {
	lp := frame(codec.MsgLPUpdate, uint8(1), uint32(6500))
	payload := bytes.Join([][]byte{
		teamNames([]string{"A"}, []string{"B"}),
		u32(0),
		lp,
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, 0, payload, false)

	r, err := Decode(data, Options{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(r.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(r.Blocks))
	}
	ev, ok := r.Blocks[0].Msg.Event.(*duel.LPChange)
	if !ok || ev.Amount != 6500 || ev.Kind != duel.LPUpdate {
		t.Errorf("event = %+v", r.Blocks[0].Msg.Event)
	}

	s := decoder.NewSession(lp)
	if err := s.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Board().LP(1) != 6500 {
		t.Errorf("LP(1) = %d, want 6500", s.Board().LP(1))
	}
}

func TestCompressedEmptyPayload(t *testing.T) {
	var props [8]byte
	props[0] = 0x5d
	props[3] = 0x10
	data := buildReplay(t, reader.MagicYRPX, reader.FlagCompressed, nil, false)
	copy(data[24:], props[:])

	h, err := reader.ResolveHeader(data, reader.MagicYRPX)
	if err != nil {
		t.Fatalf("ResolveHeader() error = %v", err)
	}
	out, err := reader.Decompress(h, h.Payload(data))
	if err != nil || len(out) != 0 {
		t.Fatalf("Decompress() = %d bytes, %v", len(out), err)
	}

	// nothing to read the duelist table from
	if _, err := Decode(data, Options{}); !errors.Is(err, reader.ErrTruncated) {
		t.Errorf("Decode() error = %v, want %v", err, reader.ErrTruncated)
	}
}

func TestCompressedReplay(t *testing.T) {
	payload := bytes.Join([][]byte{
		singleNames("Alice", "Bob"),
		u32(0),
		frame(codec.MsgStart, uint8(0), uint32(8000), uint32(8000), uint16(40), uint16(0), uint16(40), uint16(0)),
		frame(codec.MsgNewTurn, uint8(0)),
		frame(codec.MsgNewPhase, uint16(1)),
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, payload, true)

	r, err := Decode(data, Options{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(r.Blocks) != 3 {
		t.Errorf("blocks = %d, want 3", len(r.Blocks))
	}
	if !r.Header.Has(reader.FlagCompressed) {
		t.Error("header lost the compressed flag")
	}
}

func TestTruncatedMessage(t *testing.T) {
	payload := bytes.Join([][]byte{
		singleNames("A", "B"),
		u32(0),
		frame(codec.MsgNewTurn, uint8(0)),
		{codec.MsgNewTurn, 10, 0, 0, 0, 1, 2, 3},
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, payload, false)

	r, err := Decode(data, Options{})
	if !errors.Is(err, decoder.ErrTruncated) {
		t.Fatalf("Decode() error = %v, want %v", err, decoder.ErrTruncated)
	}
	if r != nil {
		t.Errorf("Decode() returned a replay on error")
	}
}

func TestLegacyDecode(t *testing.T) {
	legacy := legacyReplay(t, 0x2800)
	payload := bytes.Join([][]byte{
		singleNames("Alice", "Bob"),
		u32(0x2800),
		frame(codec.MsgNewTurn, uint8(0)),
		{codec.MsgOldReplayMode, 0, 0, 0, 0},
		legacy,
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, payload, true)

	r, err := Decode(data, Options{Legacy: true})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(r.Blocks) != 1 || r.Legacy == nil {
		t.Fatalf("blocks = %d legacy = %v", len(r.Blocks), r.Legacy)
	}
	l := r.Legacy
	if l.Header.Magic != reader.MagicYRP1 {
		t.Errorf("legacy magic = 0x%x", l.Header.Magic)
	}
	if !reflect.DeepEqual(l.Names, [][]string{{"Old A"}, {"Old B"}}) {
		t.Errorf("legacy names = %v", l.Names)
	}
	if len(l.Decks.Decks) != 2 || !reflect.DeepEqual(l.Decks.Decks[1].Main, []uint32{4, 5, 6}) {
		t.Errorf("legacy decks = %+v", l.Decks)
	}
	if !reflect.DeepEqual(l.Responses, [][]byte{{0xA, 0xB}, {0xC}}) {
		t.Errorf("legacy responses = %x", l.Responses)
	}
}

func TestLegacyHeaderLayouts(t *testing.T) {
	tests := []struct {
		name       string
		outerFlags uint32
		innerFlags uint32
		compress   bool
	}{
		{"base outer, extended inner", reader.FlagSingleMode, reader.FlagSingleMode | reader.FlagExtendedHeader, false},
		{"extended outer, base inner", reader.FlagSingleMode | reader.FlagExtendedHeader, reader.FlagSingleMode, false},
		{"both extended, compressed", reader.FlagSingleMode | reader.FlagExtendedHeader, reader.FlagSingleMode | reader.FlagExtendedHeader, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Join([][]byte{
				singleNames("Alice", "Bob"),
				u32(0x2800),
				frame(codec.MsgNewTurn, uint8(0)),
				{codec.MsgOldReplayMode, 0, 0, 0, 0},
				legacyReplayWithFlags(t, 0x2800, tt.innerFlags),
			}, nil)
			data := buildReplay(t, reader.MagicYRPX, tt.outerFlags, payload, tt.compress)

			r, err := Decode(data, Options{Legacy: true})
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if r.Header.Extended() != (tt.outerFlags&reader.FlagExtendedHeader != 0) {
				t.Errorf("outer Extended() = %v", r.Header.Extended())
			}
			if len(r.Blocks) != 1 || !reflect.DeepEqual(r.Names, [][]string{{"Alice"}, {"Bob"}}) {
				t.Errorf("outer blocks = %d names = %v", len(r.Blocks), r.Names)
			}

			l := r.Legacy
			if l == nil {
				t.Fatal("legacy replay not decoded")
			}
			if l.Header.Extended() != (tt.innerFlags&reader.FlagExtendedHeader != 0) {
				t.Errorf("legacy Extended() = %v", l.Header.Extended())
			}
			if l.Header.Extended() && l.Header.Seed128 != [4]uint64{1, 2, 3, 4} {
				t.Errorf("legacy Seed128 = %v", l.Header.Seed128)
			}
			if !reflect.DeepEqual(l.Names, [][]string{{"Old A"}, {"Old B"}}) {
				t.Errorf("legacy names = %v", l.Names)
			}
			if len(l.Decks.Decks) != 2 || !reflect.DeepEqual(l.Decks.Decks[0].Main, []uint32{1, 2}) ||
				!reflect.DeepEqual(l.Decks.Decks[1].Main, []uint32{4, 5, 6}) {
				t.Errorf("legacy decks = %+v", l.Decks)
			}
			if !reflect.DeepEqual(l.Responses, [][]byte{{0xA, 0xB}, {0xC}}) {
				t.Errorf("legacy responses = %x", l.Responses)
			}
		})
	}
}

func TestLegacyDuelFlagsMismatch(t *testing.T) {
	payload := bytes.Join([][]byte{
		singleNames("Alice", "Bob"),
		u32(0x2800),
		{codec.MsgOldReplayMode, 0, 0, 0, 0},
		legacyReplay(t, 0x1),
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, payload, false)

	if _, err := Decode(data, Options{Legacy: true}); !errors.Is(err, ErrDuelFlagsMismatch) {
		t.Errorf("Decode() error = %v, want %v", err, ErrDuelFlagsMismatch)
	}
	// not checked unless the legacy replay is decoded
	if _, err := Decode(data, Options{}); err != nil {
		t.Errorf("Decode() without legacy error = %v", err)
	}
}

func TestLegacyWrongMagic(t *testing.T) {
	inner := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, nil, false)
	payload := bytes.Join([][]byte{
		singleNames("A", "B"),
		u32(0),
		{codec.MsgOldReplayMode, 0, 0, 0, 0},
		inner,
	}, nil)
	data := buildReplay(t, reader.MagicYRPX, reader.FlagSingleMode, payload, false)

	if _, err := Decode(data, Options{Legacy: true}); !errors.Is(err, reader.ErrWrongMagic) {
		t.Errorf("Decode() error = %v, want %v", err, reader.ErrWrongMagic)
	}
}

func TestDecodeWrongMagic(t *testing.T) {
	data := legacyReplay(t, 0)
	if _, err := Decode(data, Options{}); !errors.Is(err, reader.ErrWrongMagic) {
		t.Errorf("Decode() error = %v, want %v", err, reader.ErrWrongMagic)
	}
}

func TestFormatNames(t *testing.T) {
	tests := []struct {
		teams [][]string
		want  string
	}{
		{[][]string{{"Alice"}, {"Bob"}}, "Alice vs. Bob"},
		{[][]string{{"A", "B"}, {"C", "D"}}, "A, B vs. C, D"},
		{[][]string{{"A"}, {}}, "A vs. "},
	}
	for _, tt := range tests {
		if got := FormatNames(tt.teams); got != tt.want {
			t.Errorf("FormatNames(%v) = %q, want %q", tt.teams, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(1700000000, time.UTC)
	if want := "Date: 2023-11-14 22:13:20"; got != want {
		t.Errorf("FormatDate() = %q, want %q", got, want)
	}
}
