package octgn

import (
	"strings"

	"github.com/google/uuid"
)

// CardSetData is the OCTGN metadata of a card set (deck package): a
// set name plus a UUID set identifier.
type CardSetData struct {
	name  string
	setID string
}

// NewCardSetData creates set data. An empty setID draws a fresh random
// UUID; otherwise setID must parse as a UUID, is stored in canonical
// lowercase form, and must differ from the game ID.
func NewCardSetData(name, setID string) (*CardSetData, error) {
	if setID == "" {
		setID = uuid.NewString()
	} else {
		id, err := uuid.Parse(setID)
		if err != nil {
			return nil, formatErrorf("invalid set ID %q: %v", setID, err)
		}
		setID = id.String()
	}
	if setID == GameID {
		return nil, validationErrorf("set ID equals the game ID")
	}
	return &CardSetData{name: name, setID: setID}, nil
}

// Name returns the set name.
func (d *CardSetData) Name() string { return d.name }

// SetID returns the canonical UUID of the set.
func (d *CardSetData) SetID() string { return d.setID }

// Encode renders the set and its cards as text: a
// "CARDSET:<setID>:<name>" header block followed by each card's block
// (and its alternate side's block, when present) in order.
//
// With allowDuplicates false, encoding fails when two cards share an
// identifier or a card identifier collides with the set or game ID.
// Duplicates are legitimate in decks holding several copies of one
// card, so the check is opt-in.
func (d *CardSetData) Encode(cards []*CardData, allowDuplicates bool) (string, error) {
	if !allowDuplicates {
		seen := make(map[string]bool, len(cards))
		for _, card := range cards {
			id := strings.ToLower(card.ImageID())
			if seen[id] {
				return "", validationErrorf("cards have duplicate card ID %s", id)
			}
			seen[id] = true
		}
		if seen[d.setID] {
			return "", validationErrorf("set ID %s is also used as a card ID", d.setID)
		}
		if seen[GameID] {
			return "", validationErrorf("card IDs include the game ID")
		}
	}

	var b strings.Builder
	b.WriteString("CARDSET:")
	b.WriteString(d.setID)
	b.WriteString(":")
	b.WriteString(escapeValue(d.name))
	b.WriteString("\n\n")
	for _, card := range cards {
		b.WriteString(card.Encode())
		b.WriteString("\n")
		if alt := card.Alt(); alt != nil {
			b.WriteString(alt.Encode())
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// DecodeCardSet decodes text produced by Encode into the set data and
// its cards. Comment lines starting with "#" are ignored anywhere.
// Blank lines delimit blocks; the first block must be the single
// CARDSET header line. Each following block is a CARD or ALTCARD
// block, with an ALTCARD attaching to the immediately preceding card.
//
// With allowDuplicates false, a card identifier repeating an earlier
// one (or the set or game ID) fails the decode.
func DecodeCardSet(text string, allowDuplicates bool) (*CardSetData, []*CardData, error) {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	if len(blocks) == 0 {
		return nil, nil, formatErrorf("no blocks to decode")
	}

	headerBlock := blocks[0]
	if len(headerBlock) != 1 {
		return nil, nil, formatErrorf("card set header must be a single line")
	}
	parts := strings.Split(headerBlock[0], ":")
	if len(parts) < 3 {
		return nil, nil, formatErrorf("header must be CARDSET:<set_id>:<name>")
	}
	if strings.ToLower(parts[0]) != "cardset" {
		return nil, nil, formatErrorf("expected card set header keyword CARDSET, got %q", parts[0])
	}
	setID := parts[1]
	if setID == "" {
		return nil, nil, formatErrorf("the set must have a set ID")
	}
	if _, err := uuid.Parse(setID); err != nil {
		return nil, nil, formatErrorf("invalid set ID %q: %v", setID, err)
	}
	name, err := unescapeValue(strings.Join(parts[2:], ":"))
	if err != nil {
		return nil, nil, err
	}
	setData, err := NewCardSetData(name, setID)
	if err != nil {
		return nil, nil, err
	}

	var cards []*CardData
	decodedIDs := map[string]bool{GameID: true, setData.SetID(): true}
	var previous *CardData
	for _, block := range blocks[1:] {
		card, err := DecodeCard(previous, block)
		if err != nil {
			return nil, nil, err
		}
		if card != nil {
			if !allowDuplicates && decodedIDs[card.ImageID()] {
				return nil, nil, validationErrorf("duplicate ID %s", card.ImageID())
			}
			decodedIDs[card.ImageID()] = true
			cards = append(cards, card)
		}
		previous = card
	}
	return setData, cards, nil
}
