package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/duel"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

func testReplay(magic uint32, flags uint32) *replay.Replay {
	h := &reader.ExtendedReplayHeader{}
	h.Magic = magic
	h.Flags = flags
	h.Seed = 1700000000
	return &replay.Replay{
		Header:    h,
		Names:     [][]string{{"A", "B"}, {"C", "D"}},
		DuelFlags: 0x2800,
		Blocks: []decoder.Block{
			{Msg: &duel.Msg{Type: codec.MsgNewTurn, Event: &duel.NewTurn{Player: 1}}},
		},
		HasLegacy: true,
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("duel.yrpX", testReplay(reader.MagicYRPX, 0))
	if rec.Names != "A, B vs. C, D" || rec.Blocks != 1 || !rec.HasLegacy {
		t.Errorf("NewRecord() = %+v", rec)
	}
	if !rec.RecordedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("RecordedAt = %v", rec.RecordedAt)
	}
	if len(rec.Document) == 0 {
		t.Error("Document is empty")
	}

	legacy := NewRecord("old.yrp", testReplay(reader.MagicYRP1, 0))
	if !legacy.RecordedAt.IsZero() {
		t.Errorf("legacy RecordedAt = %v, want zero", legacy.RecordedAt)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()

	var _ Store = s

	rec := NewRecord("duel.yrpX", testReplay(reader.MagicYRPX, 0))
	res, err := s.Save(ctx, rec)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.ID != "1" {
		t.Errorf("ID = %s, want 1", res.ID)
	}
	if _, err := s.Save(ctx, rec); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v, want 2", n, err)
	}

	got, err := s.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Path != rec.Path || got.Names != rec.Names || got.DuelFlags != rec.DuelFlags || !got.HasLegacy {
		t.Errorf("Get() = %+v", got)
	}
	if !got.RecordedAt.Equal(rec.RecordedAt) {
		t.Errorf("RecordedAt = %v, want %v", got.RecordedAt, rec.RecordedAt)
	}
	if len(got.Document) != len(rec.Document) || got.Document[0].Key != "header" {
		t.Errorf("Document keys = %v", got.Document)
	}

	if _, err := s.Get(ctx, "99"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(99) error = %v, want %v", err, ErrNotFound)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Error("OpenSQLite() with empty path succeeded")
	}
}

// TestMongoStoreIntegration tests the MongoStore against a real MongoDB instance
// Set MONGODB_URI environment variable to run this test
// Example: MONGODB_URI=mongodb://localhost:27017 go test -v ./pkg/store
func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGODB_URI not set")
	}

	ctx := context.Background()
	s, err := NewMongo(ctx, uri, "duel_replay_test", "replays")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()
	s.Drop(ctx)
	defer s.Drop(ctx)

	res, err := s.Save(ctx, NewRecord("duel.yrpX", testReplay(reader.MagicYRPX, 0)))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.ID == "" {
		t.Error("Save() returned an empty id")
	}
	t.Logf("Insert took %v", res.Duration)

	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v, want 1", n, err)
	}
}

// TestMongoStoreConnectionFailure tests that connection failures are reported
func TestMongoStoreConnectionFailure(t *testing.T) {
	if os.Getenv("MONGODB_URI") == "" {
		t.Skip("Skipping integration test: MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewMongo(ctx, "mongodb://invalid-host:27017", "db", "replays"); err == nil {
		t.Error("Expected error when connecting to invalid host, got nil")
	}
}
