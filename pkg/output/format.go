package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Format is a serialization of a replay document
type Format string

const (
	FormatJSON Format = "json"
	FormatBSON Format = "bson"
	FormatPB   Format = "pb"
)

// ErrUnknownFormat is returned by ParseFormat
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatBSON, FormatPB:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension used for the format
func (f Format) Ext() string {
	return "." + string(f)
}

// Marshal serializes doc
func Marshal(doc bson.D, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return bson.MarshalExtJSON(doc, false, false)
	case FormatBSON:
		return bson.Marshal(doc)
	case FormatPB:
		s, err := toStruct(doc)
		if err != nil {
			return nil, err
		}
		return proto.MarshalOptions{Deterministic: true}.Marshal(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// toStruct goes through relaxed extended JSON, which already maps every
// BSON value to something structpb can hold
func toStruct(doc bson.D) (*structpb.Struct, error) {
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return structpb.NewStruct(payload)
}

// Write serializes doc to w, zstd-compressed when compress is set
func Write(w io.Writer, doc bson.D, f Format, compress bool) error {
	data, err := Marshal(doc, f)
	if err != nil {
		return err
	}
	if !compress {
		_, err = w.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to compress output: %w", err)
	}
	return enc.Close()
}
