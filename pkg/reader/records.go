package reader

import (
	"errors"
	"fmt"
)

// NameSlotSize is the size of one duelist name slot (20 UTF-16 code units)
const NameSlotSize = 40

var (
	// ErrTruncated indicates a section runs past the end of the payload
	ErrTruncated = errors.New("replay section truncated")
	// ErrInvalidResponse indicates a zero-length response record
	ErrInvalidResponse = errors.New("invalid response record length")
)

// Deck is the card list one duelist brought into the duel
type Deck struct {
	Main  []uint32 `json:"main" bson:"main"`
	Extra []uint32 `json:"extra" bson:"extra"`
}

// DeckList holds every duelist's deck plus the shared trailing list
// (side/rule cards)
type DeckList struct {
	Decks  []Deck   `json:"decks" bson:"decks"`
	Shared []uint32 `json:"shared" bson:"shared"`
}

func need(c *Cursor, n int, what string) error {
	if n < 0 || c.Remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, %d remain", ErrTruncated, what, n, c.Offset(), c.Remaining())
	}
	return nil
}

// SkipDuelists skips the duelist name table and returns how many duelists
// it describes.
//
// Single mode stores exactly two slots. Team mode stores, for each of the
// two teams, a uint32 count followed by that many slots.
func SkipDuelists(flags uint32, c *Cursor) (int, error) {
	if flags&FlagSingleMode != 0 {
		if err := need(c, 2*NameSlotSize, "name slots"); err != nil {
			return 0, err
		}
		c.Skip(2 * NameSlotSize)
		return 2, nil
	}

	total := 0
	for team := 0; team < 2; team++ {
		if err := need(c, 4, "team size"); err != nil {
			return 0, err
		}
		count := int(c.Uint32())
		if count > c.Remaining()/NameSlotSize {
			return 0, fmt.Errorf("%w: team %d declares %d duelists, %d bytes remain", ErrTruncated, team, count, c.Remaining())
		}
		c.Skip(count * NameSlotSize)
		total += count
	}
	return total, nil
}

// ReadNames walks the same layout as SkipDuelists and decodes every slot.
// The result always has two teams.
func ReadNames(flags uint32, c *Cursor) ([][]string, error) {
	teams := make([][]string, 2)

	if flags&FlagSingleMode != 0 {
		if err := need(c, 2*NameSlotSize, "name slots"); err != nil {
			return nil, err
		}
		teams[0] = []string{DecodeName(c.Bytes(NameSlotSize))}
		teams[1] = []string{DecodeName(c.Bytes(NameSlotSize))}
		return teams, nil
	}

	for team := range teams {
		if err := need(c, 4, "team size"); err != nil {
			return nil, err
		}
		count := int(c.Uint32())
		if count > c.Remaining()/NameSlotSize {
			return nil, fmt.Errorf("%w: team %d declares %d duelists, %d bytes remain", ErrTruncated, team, count, c.Remaining())
		}
		names := make([]string, 0, count)
		for i := 0; i < count; i++ {
			names = append(names, DecodeName(c.Bytes(NameSlotSize)))
		}
		teams[team] = names
	}
	return teams, nil
}

// ReadDuelFlags reads the duel option bits, stored as uint32 unless
// Flag64BitDuelFlag is set
func ReadDuelFlags(flags uint32, c *Cursor) (uint64, error) {
	if flags&Flag64BitDuelFlag != 0 {
		if err := need(c, 8, "duel flags"); err != nil {
			return 0, err
		}
		return c.Uint64(), nil
	}
	if err := need(c, 4, "duel flags"); err != nil {
		return 0, err
	}
	return uint64(c.Uint32()), nil
}

// ReadCodeVector reads a uint32 count followed by that many card codes
func ReadCodeVector(c *Cursor) ([]uint32, error) {
	if err := need(c, 4, "code count"); err != nil {
		return nil, err
	}
	count := int(c.Uint32())
	if count > c.Remaining()/4 {
		return nil, fmt.Errorf("%w: %d codes declared, %d bytes remain", ErrTruncated, count, c.Remaining())
	}
	codes := make([]uint32, count)
	for i := range codes {
		codes[i] = c.Uint32()
	}
	return codes, nil
}

func skipCodeVector(c *Cursor) error {
	if err := need(c, 4, "code count"); err != nil {
		return err
	}
	count := int(c.Uint32())
	if count > c.Remaining()/4 {
		return fmt.Errorf("%w: %d codes declared, %d bytes remain", ErrTruncated, count, c.Remaining())
	}
	c.Skip(count * 4)
	return nil
}

// ReadDecks reads main and extra deck for each duelist, then the shared list
func ReadDecks(c *Cursor, duelists int) (*DeckList, error) {
	dl := &DeckList{Decks: make([]Deck, 0, duelists)}
	for i := 0; i < duelists; i++ {
		main, err := ReadCodeVector(c)
		if err != nil {
			return nil, fmt.Errorf("duelist %d main deck: %w", i, err)
		}
		extra, err := ReadCodeVector(c)
		if err != nil {
			return nil, fmt.Errorf("duelist %d extra deck: %w", i, err)
		}
		dl.Decks = append(dl.Decks, Deck{Main: main, Extra: extra})
	}
	shared, err := ReadCodeVector(c)
	if err != nil {
		return nil, fmt.Errorf("shared cards: %w", err)
	}
	dl.Shared = shared
	return dl, nil
}

// ReadResponses skips the deck section and returns the player responses
// that fill the rest of the buffer.
//
// Each response is {len: uint8, data: [len]byte}. A zero length is
// rejected since it can never be produced by a client.
func ReadResponses(c *Cursor, duelists int) ([][]byte, error) {
	for i := 0; i < duelists; i++ {
		if err := skipCodeVector(c); err != nil {
			return nil, fmt.Errorf("duelist %d main deck: %w", i, err)
		}
		if err := skipCodeVector(c); err != nil {
			return nil, fmt.Errorf("duelist %d extra deck: %w", i, err)
		}
	}
	if err := skipCodeVector(c); err != nil {
		return nil, fmt.Errorf("shared cards: %w", err)
	}

	var responses [][]byte
	for c.Remaining() > 0 {
		n := int(c.Uint8())
		if n == 0 {
			return nil, fmt.Errorf("%w: response %d at offset %d", ErrInvalidResponse, len(responses), c.Offset()-1)
		}
		if err := need(c, n, "response"); err != nil {
			return nil, err
		}
		responses = append(responses, c.Bytes(n))
	}
	return responses, nil
}
