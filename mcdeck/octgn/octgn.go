// Package octgn implements the OCTGN interchange formats for the
// Marvel Champions card game module: the plain-text card set codec,
// set.xml, .o8d deck lists, .o8c card set archives, and the set
// database kept under an OCTGN Data directory.
package octgn

// Identifiers and version literals fixed by the OCTGN game module.
const (
	// GameID is the OCTGN game GUID for Marvel Champions. Every set.xml
	// and .o8d file carries it.
	GameID = "055c536f-adba-4bc2-acbf-9aefb9756046"

	// GameVersion and SetVersion are the version literals written into
	// set.xml. OCTGN requires them present but does not interpret them.
	GameVersion = "0.0.0.0"
	SetVersion  = "1.0.0.0"

	// DefaultAltTag is the side tag of a card's alternate side. The
	// game module only defines the "b" side.
	DefaultAltTag = "b"
)

// CardType tags which image back a card uses on the table.
type CardType int

const (
	CardTypeUnspecified CardType = iota
	CardTypePlayer
	CardTypeEncounter
	CardTypeVillain
)

func (t CardType) String() string {
	switch t {
	case CardTypePlayer:
		return "player"
	case CardTypeEncounter:
		return "encounter"
	case CardTypeVillain:
		return "villain"
	default:
		return "unspecified"
	}
}
