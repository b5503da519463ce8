// Package store persists decoded replays for later analysis.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/fsnow/duel-replay/pkg/output"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

// Store saves replay records. A handle is used from one goroutine at a time.
type Store interface {
	Save(ctx context.Context, rec *Record) (*Result, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// Record is one replay as stored: a few indexed summary columns plus the
// full document
type Record struct {
	Path       string
	Names      string
	RecordedAt time.Time
	DuelFlags  uint64
	Blocks     int
	HasLegacy  bool
	Document   bson.D
}

// NewRecord summarizes a decoded replay read from path
func NewRecord(path string, r *replay.Replay) *Record {
	rec := &Record{
		Path:      path,
		Names:     replay.FormatNames(r.Names),
		DuelFlags: r.DuelFlags,
		Blocks:    len(r.Blocks),
		HasLegacy: r.HasLegacy,
		Document:  output.Document(r),
	}
	// a plain yrp1 header stores the duel seed here instead of a timestamp
	if r.Header.Magic == reader.MagicYRPX || r.Header.Extended() {
		rec.RecordedAt = time.Unix(int64(r.Header.Seed), 0).UTC()
	}
	return rec
}

// Result represents the outcome of saving one record
type Result struct {
	// ID is the identifier assigned by the backend
	ID string

	// Duration is how long the write took
	Duration time.Duration
}

// String returns a human-readable string representation of the result
func (r *Result) String() string {
	return fmt.Sprintf("Saved %s (took %v)", r.ID, r.Duration)
}
