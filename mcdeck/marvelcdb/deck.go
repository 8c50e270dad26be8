package marvelcdb

import "github.com/cloudberries/mcdeck/mcdeck/octgn"

// Deck is a deck list fetched from the public database: the hero card
// followed by the deck slots.
type Deck struct {
	Name  string
	Cards []DeckEntry
}

// DeckEntry pairs a card with its number of copies.
type DeckEntry struct {
	Card *Card
	Qty  int
}

// OctgnCard converts a card record to OCTGN card data. A linked card
// record becomes the alternate side, preferring the full cached
// record over the inline linked stub when available.
func (c *Client) OctgnCard(card *Card) (*octgn.CardData, error) {
	data, err := card.OctgnCardData()
	if err != nil {
		return nil, err
	}
	if v, ok := card.Value("linked_card"); ok {
		if fields, ok := v.(map[string]any); ok {
			linked := NewCard(fields)
			if full := c.Card(linked.Code()); full != nil {
				linked = full
			}
			props, err := linked.OctgnProperties()
			if err != nil {
				return nil, err
			}
			data.CreateAlt(linked.Name(), props, "")
		}
	}
	return data, nil
}
