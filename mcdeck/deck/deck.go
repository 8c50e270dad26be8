// Package deck holds the in-memory deck model the interchange layer
// operates on: cards with front and back image references plus their
// OCTGN metadata.
package deck

import (
	"errors"
	"os"
	"strings"

	"github.com/cloudberries/mcdeck/mcdeck/octgn"
)

// Card is one card in a deck: its OCTGN metadata, a category tag and
// optional paths to front and back image files.
type Card struct {
	FrontImage string
	BackImage  string

	data  *octgn.CardData
	ctype octgn.CardType
}

// NewCard creates a deck card around its OCTGN metadata.
func NewCard(data *octgn.CardData, ctype octgn.CardType) *Card {
	return &Card{data: data, ctype: ctype}
}

// Data returns the card's OCTGN metadata.
func (c *Card) Data() *octgn.CardData { return c.data }

// CardType returns the player/encounter/villain category tag.
func (c *Card) CardType() octgn.CardType { return c.ctype }

// SetCardType updates the category tag.
func (c *Card) SetCardType(ctype octgn.CardType) { c.ctype = ctype }

// HasBackImage reports whether a distinct back side image is set.
func (c *Card) HasBackImage() bool { return c.BackImage != "" }

// Deck is an ordered list of cards with OCTGN set metadata.
type Deck struct {
	set   *octgn.CardSetData
	cards []*Card
}

// New creates a deck with the given set metadata.
func New(set *octgn.CardSetData) *Deck {
	return &Deck{set: set}
}

// SetData returns the deck's OCTGN set metadata.
func (d *Deck) SetData() *octgn.CardSetData { return d.set }

// Append adds a card to the end of the deck.
func (d *Deck) Append(cards ...*Card) {
	d.cards = append(d.cards, cards...)
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// CardList returns the deck's cards in order.
func (d *Deck) CardList() []*Card {
	cards := make([]*Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

// Cards returns the deck's cards as interchange card views.
func (d *Deck) Cards() []octgn.CardView {
	views := make([]octgn.CardView, len(d.cards))
	for i, c := range d.cards {
		views[i] = c
	}
	return views
}

// Validate checks that the deck can be exported as an OCTGN card set.
func (d *Deck) Validate() error {
	return octgn.ValidateDeck(d)
}

// Encode renders the deck and its metadata as card set text.
func (d *Deck) Encode(allowDuplicates bool) (string, error) {
	if d.set == nil {
		return "", errors.New("deck has no card set metadata")
	}
	data := make([]*octgn.CardData, len(d.cards))
	for i, c := range d.cards {
		data[i] = c.Data()
	}
	return d.set.Encode(data, allowDuplicates)
}

// Decode parses card set text into a deck. The decoded cards carry no
// image references or category tags.
func Decode(text string, allowDuplicates bool) (*Deck, error) {
	set, cards, err := octgn.DecodeCardSet(text, allowDuplicates)
	if err != nil {
		return nil, err
	}
	d := New(set)
	for _, data := range cards {
		d.Append(NewCard(data, octgn.CardTypeUnspecified))
	}
	return d, nil
}

// Images returns an image provider over the deck's own image files,
// falling back to the given provider for identifiers the deck has no
// file for. A nil fallback means deck files only.
func (d *Deck) Images(fallback octgn.ImageProvider) octgn.ImageProvider {
	paths := make(map[string]string)
	for _, c := range d.cards {
		data := c.Data()
		if data == nil {
			continue
		}
		if c.FrontImage != "" {
			paths[strings.ToLower(data.ImageID())] = c.FrontImage
		}
		if alt := data.Alt(); alt != nil && c.BackImage != "" {
			paths[strings.ToLower(alt.ImageID())] = c.BackImage
		}
	}
	return &fileProvider{paths: paths, fallback: fallback}
}

type fileProvider struct {
	paths    map[string]string
	fallback octgn.ImageProvider
}

func (p *fileProvider) CardImage(imageID string) ([]byte, bool) {
	if path, ok := p.paths[strings.ToLower(imageID)]; ok {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, true
		}
	}
	if p.fallback != nil {
		return p.fallback.CardImage(imageID)
	}
	return nil, false
}
