package octgn

// CardView is the read side of a deck card the interchange layer
// consumes: its OCTGN metadata, the player/encounter/villain category
// tag, and whether a distinct back side image exists for it.
type CardView interface {
	Data() *CardData
	CardType() CardType
	HasBackImage() bool
}

// DeckView is the read side of a deck with OCTGN set metadata.
type DeckView interface {
	SetData() *CardSetData
	Cards() []CardView
}

// ImageProvider resolves a card image identifier to encoded image
// bytes. The second return reports whether the image was found.
type ImageProvider interface {
	CardImage(imageID string) ([]byte, bool)
}

// ValidateDeck checks that a deck can be exported as an OCTGN card
// set: set metadata present, pairwise distinct identifiers across all
// cards and alternate sides, and a back image for every card that
// declares an alternate side.
func ValidateDeck(deck DeckView) error {
	if deck.SetData() == nil {
		return validationErrorf("deck has no card set metadata")
	}
	ids := make(map[string]bool)
	for _, card := range deck.Cards() {
		data := card.Data()
		if data == nil {
			return validationErrorf("deck contains a card without metadata")
		}
		if ids[data.ImageID()] {
			return validationErrorf("duplicate card ID %s", data.ImageID())
		}
		ids[data.ImageID()] = true
		if alt := data.Alt(); alt != nil {
			if ids[alt.ImageID()] {
				return validationErrorf("duplicate card ID %s", alt.ImageID())
			}
			ids[alt.ImageID()] = true
			if !card.HasBackImage() {
				return validationErrorf("card %q declares an alt side but has no back image", data.Name())
			}
		}
	}
	return nil
}
