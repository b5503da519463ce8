// Package decoder turns the message section of a replay into a stream of
// decoded blocks.
//
// Each message on the wire is
//
//	type   : uint8
//	length : uint32 LE
//	body   : [length]byte
//
// while the codec expects [type][body]. The session writes the type byte
// over the last byte of the length field and hands the codec the slice
// starting there. It works on a private copy of the input so the caller's
// buffer is never modified.
package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/fsnow/duel-replay/pkg/board"
	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/duel"
)

var (
	// ErrTruncated indicates a message header or body runs past the buffer
	ErrTruncated = errors.New("truncated message")
	// ErrUnknownMessageType indicates a message the codec does not know
	ErrUnknownMessageType = errors.New("unknown message type")
	// ErrLengthMismatch indicates the codec consumed a different number of
	// bytes than the message declared
	ErrLengthMismatch = errors.New("message length mismatch")
)

// messageHeaderSize is type(1) + length(4)
const messageHeaderSize = 5

// Error reports where in the message buffer decoding stopped
type Error struct {
	Offset  int
	MsgType uint8
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", codec.MessageName(e.MsgType), e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// State of a decode session
type State int

const (
	StateRunning State = iota
	StateLegacyHandoff
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateLegacyHandoff:
		return "legacy-handoff"
	case StateDone:
		return "done"
	default:
		return "failed"
	}
}

// Session decodes one message buffer
type Session struct {
	buf    []byte
	off    int
	state  State
	err    error
	board  *board.Mirror
	ctx    *replayContext
	stream *Stream
}

// NewSession creates a session over a copy of buf
func NewSession(buf []byte) *Session {
	m := board.New()
	return &Session{
		buf:    bytes.Clone(buf),
		board:  m,
		ctx:    newReplayContext(m),
		stream: &Stream{},
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Err() error {
	return s.err
}

// Stream returns the blocks decoded so far
func (s *Session) Stream() *Stream {
	return s.stream
}

// Board returns the mirror as of the last decoded message
func (s *Session) Board() *board.Mirror {
	return s.board
}

// Unresolved returns the zones whose xyz materials were never seen, in
// board order
func (s *Session) Unresolved() []duel.Place {
	zones := slices.Clone(s.ctx.deferred)
	slices.SortFunc(zones, func(a, b duel.Place) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return slices.Compact(zones)
}

func (s *Session) fail(t uint8, err error) (State, error) {
	s.state = StateFailed
	s.err = &Error{Offset: s.off, MsgType: t, Err: err}
	return s.state, s.err
}

// Step decodes the next message. Once the session leaves StateRunning
// further calls return the final state again.
func (s *Session) Step() (State, error) {
	if s.state != StateRunning {
		return s.state, s.err
	}

	remaining := len(s.buf) - s.off
	if remaining == 0 {
		s.state = StateDone
		return s.state, nil
	}
	if remaining < messageHeaderSize {
		return s.fail(s.buf[s.off], fmt.Errorf("%w: %d header bytes left", ErrTruncated, remaining))
	}

	t := s.buf[s.off]
	length := int(binary.LittleEndian.Uint32(s.buf[s.off+1:]))
	s.buf[s.off+4] = t

	if t == codec.MsgOldReplayMode {
		s.stream.setLegacy(s.buf[s.off+messageHeaderSize:], s.off+messageHeaderSize)
		s.state = StateLegacyHandoff
		log.Debug().Int("offset", s.off).Msg("legacy replay handoff")
		return s.state, nil
	}

	if length > remaining-messageHeaderSize {
		return s.fail(t, fmt.Errorf("%w: declared %d bytes, %d remain", ErrTruncated, length, remaining-messageHeaderSize))
	}

	res := codec.DecodeOne(s.ctx, s.buf[s.off+4:s.off+messageHeaderSize+length])
	switch res.State {
	case codec.ResultUnknown:
		return s.fail(t, fmt.Errorf("%w: %d", ErrUnknownMessageType, t))
	case codec.ResultOK, codec.ResultSwallowed:
		if res.BytesRead != length+1 {
			return s.fail(t, fmt.Errorf("%w: read %d bytes, declared %d", ErrLengthMismatch, res.BytesRead, length+1))
		}
	}

	log.Debug().
		Str("type", codec.MessageName(t)).
		Int("offset", s.off).
		Int("length", length).
		Str("result", res.State.String()).
		Msg("message")

	if res.State == codec.ResultOK {
		s.postProcess(res.Msg)
		s.stream.Append(res.Msg)
	}
	s.off += messageHeaderSize + length
	return s.state, nil
}

// postProcess applies the event to the mirror and strips query fields
// the mirror already holds
func (s *Session) postProcess(msg *duel.Msg) {
	if msg.Event != nil {
		s.board.ApplyEvent(msg.Event)
		s.ctx.afterEvent(msg.Event)
	}
	if len(msg.Queries) == 0 {
		return
	}
	kept := msg.Queries[:0]
	for _, q := range msg.Queries {
		hits, ok := s.board.ParseQuery(&q)
		if !ok {
			log.Warn().Stringer("place", q.Place).Msg("dropping query for unknown card")
			continue
		}
		q.Data.Clear(hits)
		kept = append(kept, q)
	}
	msg.Queries = kept
}

// Run steps until the session is no longer running
func (s *Session) Run() error {
	for {
		state, err := s.Step()
		if err != nil {
			return err
		}
		if state != StateRunning {
			break
		}
	}
	if len(s.ctx.deferred) > 0 {
		log.Warn().Int("zones", len(s.ctx.deferred)).Msg("xyz materials never resolved")
	}
	return nil
}
