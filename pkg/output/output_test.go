package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/duel"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

func testReplay() *replay.Replay {
	h := &reader.ExtendedReplayHeader{}
	h.Magic = reader.MagicYRPX
	h.Flags = reader.FlagSingleMode
	h.Seed = 1700000000

	summon := &duel.Msg{
		Type: codec.MsgSummoning,
		Event: &duel.Summon{
			Kind:     duel.SummonNormal,
			Code:     89631139,
			Place:    duel.NewPlace(0, duel.LocMZone, 2),
			Position: duel.PosFaceUpAttack,
		},
	}
	update := &duel.Msg{
		Type: codec.MsgUpdateCard,
		Queries: []duel.Query{{
			Place: duel.NewPlace(0, duel.LocMZone, 2),
			Data:  duel.QueryData{Fields: duel.FieldCode | duel.FieldAtk, Code: 89631139, Atk: 3000},
		}},
	}
	return &replay.Replay{
		Header:    h,
		Names:     [][]string{{"Kaiba"}, {"Yugi"}},
		DuelFlags: 0x2800,
		Blocks:    []decoder.Block{{Msg: summon}, {Msg: update}},
	}
}

func TestDocument(t *testing.T) {
	doc := Document(testReplay())

	keys := []string{}
	for _, e := range doc {
		keys = append(keys, e.Key)
	}
	if got := strings.Join(keys, ","); got != "header,names,duel_flags,blocks" {
		t.Errorf("keys = %s", got)
	}

	blocks := doc[3].Value.(bson.A)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	first := blocks[0].(bson.D)
	if first[1].Value != "summoning" || first[2].Value != "summon" {
		t.Errorf("first block = %v", first)
	}
	second := blocks[1].(bson.D)
	if len(second) != 3 || second[2].Key != "queries" {
		t.Errorf("second block = %v", second)
	}
}

func TestDocument_Legacy(t *testing.T) {
	r := testReplay()
	r.HasLegacy = true
	doc := Document(r)
	last := doc[len(doc)-1]
	if last.Key != "legacy" || last.Value.(bson.D)[0].Value != false {
		t.Errorf("legacy entry = %v", last)
	}

	r.Legacy = &replay.LegacyReplay{
		Header:    r.Header,
		Names:     r.Names,
		Decks:     &reader.DeckList{Decks: []reader.Deck{{Main: []uint32{1}}}},
		Responses: [][]byte{{1, 2}},
	}
	data, err := Marshal(Document(r), FormatBSON)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got struct {
		Legacy struct {
			Decoded   bool          `bson:"decoded"`
			Responses []bson.Binary `bson:"responses"`
			Decks     []bson.M      `bson:"decks"`
		} `bson:"legacy"`
	}
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Legacy.Decoded || len(got.Legacy.Responses) != 1 || len(got.Legacy.Decks) != 1 {
		t.Errorf("legacy = %+v", got.Legacy)
	}
}

func TestMarshal_JSON(t *testing.T) {
	data, err := Marshal(Document(testReplay()), FormatJSON)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"names":[["Kaiba"],["Yugi"]]`, `"event":"summon"`, `"atk":3000`, `"code":89631139`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("JSON missing %s: %s", want, data)
		}
	}
	// the level was never queried
	if bytes.Contains(data, []byte(`"level"`)) {
		t.Errorf("JSON contains an absent field: %s", data)
	}
}

func TestMarshal_BSON(t *testing.T) {
	data, err := Marshal(Document(testReplay()), FormatBSON)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got struct {
		Names     [][]string `bson:"names"`
		DuelFlags int64      `bson:"duel_flags"`
		Blocks    []bson.M   `bson:"blocks"`
	}
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.DuelFlags != 0x2800 || len(got.Blocks) != 2 || got.Names[1][0] != "Yugi" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestMarshal_PB(t *testing.T) {
	data, err := Marshal(Document(testReplay()), FormatPB)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		t.Fatalf("proto.Unmarshal() error = %v", err)
	}
	m := s.AsMap()
	if m["duel_flags"] != float64(0x2800) {
		t.Errorf("duel_flags = %v", m["duel_flags"])
	}
	blocks, _ := m["blocks"].([]any)
	if len(blocks) != 2 {
		t.Errorf("blocks = %v", m["blocks"])
	}

	again, _ := Marshal(Document(testReplay()), FormatPB)
	if !bytes.Equal(data, again) {
		t.Error("pb output is not deterministic")
	}
}

func TestWrite_Zstd(t *testing.T) {
	doc := Document(testReplay())
	plain, _ := Marshal(doc, FormatJSON)

	var buf bytes.Buffer
	if err := Write(&buf, doc, FormatJSON, true); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("zstd.NewReader() error = %v", err)
	}
	defer dec.Close()
	got, err := dec.DecodeAll(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("decompressed output differs")
	}

	buf.Reset()
	if err := Write(&buf, doc, FormatJSON, false); err != nil || !bytes.Equal(buf.Bytes(), plain) {
		t.Errorf("uncompressed Write() = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "bson", "pb"} {
		f, err := ParseFormat(s)
		if err != nil || f.Ext() != "."+s {
			t.Errorf("ParseFormat(%q) = %v, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
	if _, err := Marshal(bson.D{}, Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Marshal(xml) error = %v", err)
	}
}
