package reader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/ulikunitz/xz/lzma"
)

var (
	// ErrInitFailed indicates the LZMA decoder could not be configured
	ErrInitFailed = errors.New("unable to initialize decode stream")
	// ErrHeaderDecodeFailed indicates the synthesized LZMA preamble was rejected
	ErrHeaderDecodeFailed = errors.New("cannot decode lzma header")
	// ErrUnexpectedHeaderOutput indicates the preamble alone produced output.
	// The lzma reader consumes the preamble while it is constructed, so
	// Decompress currently never returns it.
	ErrUnexpectedHeaderOutput = errors.New("unexpected output while decoding lzma header")
	// ErrStreamFailed indicates a fatal error inside the compressed stream
	ErrStreamFailed = errors.New("stream decoding failed")
	// ErrSizeMismatch indicates the payload size differs from the declared size
	ErrSizeMismatch = errors.New("total decompressed size mismatch")
)

const (
	// lzmaPreambleLen is properties(1) + dictionary size(4) + uncompressed size(8)
	lzmaPreambleLen = 1 + 4 + 8

	// lzmaMaxPropsByte is the first invalid lc/lp/pb encoding (9 * 5 * 5)
	lzmaMaxPropsByte = 9 * 5 * 5
)

// lzmaPreamble builds the header of an .lzma ("alone") file for a raw
// stream written by the 7-Zip SDK encoder. The replay stores only the first
// five bytes (properties + dictionary size), the size comes from the
// container header.
//
// Layout:
//
//	props    : 1 byte  - lc/lp/pb
//	dictSize : uint32 LE
//	size     : uint64 LE - uncompressed size
//
// The decoder never looks further back than the output it has produced, so
// the dictionary is capped at the uncompressed size.
func lzmaPreamble(h *ExtendedReplayHeader) [lzmaPreambleLen]byte {
	var p [lzmaPreambleLen]byte
	p[0] = h.Props[0]
	dict := binary.LittleEndian.Uint32(h.Props[1:5])
	if limit := max(h.Size, lzma.MinDictCap); dict > limit {
		dict = limit
	}
	binary.LittleEndian.PutUint32(p[1:5], dict)
	binary.LittleEndian.PutUint64(p[5:], uint64(h.Size))
	return p
}

// Decompress returns the payload that follows the header, exactly h.Size
// bytes long.
//
// Uncompressed payloads are copied. Compressed payloads are raw LZMA1
// streams; they are decoded by prefixing the synthesized preamble. Some
// encoders append a trailing byte after the last symbol, which makes the
// decoder report a data error once every byte has been produced. Such an
// error is ignored if and only if the output already has the declared size.
func Decompress(h *ExtendedReplayHeader, src []byte) ([]byte, error) {
	size := int(h.Size)

	if !h.Has(FlagCompressed) {
		if len(src) < size {
			return nil, fmt.Errorf("%w: have %d bytes, header declares %d", ErrSizeMismatch, len(src), size)
		}
		return bytes.Clone(src[:size]), nil
	}

	preamble := lzmaPreamble(h)
	if preamble[0] >= lzmaMaxPropsByte {
		return nil, fmt.Errorf("%w: invalid properties byte 0x%02x", ErrHeaderDecodeFailed, preamble[0])
	}

	out := make([]byte, size)
	if size == 0 {
		// Nothing to feed: an empty stream decodes to an empty payload.
		return out, nil
	}

	cfg := lzma.ReaderConfig{DictCap: lzma.MinDictCap}
	if err := cfg.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	r, err := cfg.NewReader(io.MultiReader(bytes.NewReader(preamble[:]), bytes.NewReader(src)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeaderDecodeFailed, err)
	}

	total, idle := 0, 0
	for total < size {
		n, err := r.Read(out[total:])
		total += n
		if err == nil {
			if n == 0 {
				idle++
				if idle > 100 {
					return nil, fmt.Errorf("%w: %w", ErrStreamFailed, io.ErrNoProgress)
				}
			} else {
				idle = 0
			}
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// stream end or input exhausted; the size check below decides
			break
		}
		if total == size {
			log.Debug().Err(err).Int("size", size).Msg("ignoring lzma error after complete output")
			break
		}
		return nil, fmt.Errorf("%w after %d of %d bytes: %w", ErrStreamFailed, total, size, err)
	}

	if total != size {
		return nil, fmt.Errorf("%w: got %d bytes, header declares %d", ErrSizeMismatch, total, size)
	}
	return out, nil
}
