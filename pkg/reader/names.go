package reader

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeName converts a UTF-16LE name slot to UTF-8.
// Decoding stops at the first NUL, CR or LF code unit.
func DecodeName(slot []byte) string {
	end := len(slot) &^ 1
	for i := 0; i+1 < len(slot); i += 2 {
		u := binary.LittleEndian.Uint16(slot[i:])
		if u == 0 || u == '\n' || u == '\r' {
			end = i
			break
		}
	}
	s, err := utf16le.NewDecoder().Bytes(slot[:end])
	if err != nil {
		return "Invalid String"
	}
	return string(s)
}

// EncodeName writes name into a NameSlotSize slot, truncating to at most
// 19 code units so the slot always keeps a terminator. A surrogate pair
// that does not fit is dropped whole.
func EncodeName(name string) []byte {
	slot := make([]byte, NameSlotSize)
	enc, err := utf16le.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return slot
	}
	if len(enc) > NameSlotSize-2 {
		enc = enc[:NameSlotSize-2]
		if last := binary.LittleEndian.Uint16(enc[len(enc)-2:]); last >= 0xD800 && last < 0xDC00 {
			enc = enc[:len(enc)-2]
		}
	}
	copy(slot, enc)
	return slot
}
