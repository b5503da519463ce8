// Package output turns a decoded replay into a document and serializes it.
package output

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/duel"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

// Document builds the serializable form of a replay. Field order is fixed
// so that two decodes of the same file serialize to identical bytes.
func Document(r *replay.Replay) bson.D {
	doc := bson.D{
		{Key: "header", Value: headerDoc(r.Header)},
		{Key: "names", Value: r.Names},
		{Key: "duel_flags", Value: int64(r.DuelFlags)},
		{Key: "blocks", Value: blocksDoc(r.Blocks)},
	}
	if len(r.Unresolved) > 0 {
		doc = append(doc, bson.E{Key: "unresolved_xyz", Value: r.Unresolved})
	}
	if r.HasLegacy {
		doc = append(doc, bson.E{Key: "legacy", Value: legacyDoc(r.Legacy)})
	}
	return doc
}

func headerDoc(h *reader.ExtendedReplayHeader) bson.D {
	doc := bson.D{
		{Key: "magic", Value: reader.MagicName(h.Magic)},
		{Key: "version", Value: int64(h.Version)},
		{Key: "flags", Value: int64(h.Flags)},
		{Key: "seed", Value: int64(h.Seed)},
		{Key: "size", Value: int64(h.Size)},
	}
	if h.Extended() {
		seed := bson.A{}
		for _, w := range h.Seed128 {
			seed = append(seed, int64(w))
		}
		doc = append(doc,
			bson.E{Key: "header_version", Value: int64(h.HeaderVersion)},
			bson.E{Key: "seed128", Value: seed},
		)
	}
	return doc
}

func blocksDoc(blocks []decoder.Block) bson.A {
	out := make(bson.A, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockDoc(b))
	}
	return out
}

func blockDoc(b decoder.Block) bson.D {
	m := b.Msg
	doc := bson.D{
		{Key: "time_offset_ms", Value: int64(b.TimeOffsetMS)},
		{Key: "type", Value: codec.MessageName(m.Type)},
	}
	if m.IsEvent() {
		doc = append(doc,
			bson.E{Key: "event", Value: m.Event.EventName()},
			bson.E{Key: "data", Value: m.Event},
		)
	}
	if len(m.Queries) > 0 {
		queries := make(bson.A, 0, len(m.Queries))
		for _, q := range m.Queries {
			queries = append(queries, queryDoc(q))
		}
		doc = append(doc, bson.E{Key: "queries", Value: queries})
	}
	if len(m.XyzResolved) > 0 {
		doc = append(doc, bson.E{Key: "xyz_resolved", Value: m.XyzResolved})
	}
	return doc
}

// queryDoc lists only the fields still present after the board cache
// stripped the unchanged ones
func queryDoc(q duel.Query) bson.D {
	fields := bson.D{}
	for _, f := range q.Data.Present() {
		fields = append(fields, bson.E{Key: f.String(), Value: q.Data.Value(f)})
	}
	return bson.D{
		{Key: "place", Value: q.Place},
		{Key: "fields", Value: fields},
	}
}

func legacyDoc(l *replay.LegacyReplay) bson.D {
	if l == nil {
		return bson.D{{Key: "decoded", Value: false}}
	}
	decks := bson.A{}
	for _, d := range l.Decks.Decks {
		decks = append(decks, bson.D{
			{Key: "main", Value: d.Main},
			{Key: "extra", Value: d.Extra},
		})
	}
	responses := bson.A{}
	for _, r := range l.Responses {
		responses = append(responses, bson.Binary{Data: r})
	}
	return bson.D{
		{Key: "decoded", Value: true},
		{Key: "header", Value: headerDoc(l.Header)},
		{Key: "names", Value: l.Names},
		{Key: "duel_flags", Value: int64(l.DuelFlags)},
		{Key: "decks", Value: decks},
		{Key: "shared", Value: l.Decks.Shared},
		{Key: "responses", Value: responses},
	}
}
