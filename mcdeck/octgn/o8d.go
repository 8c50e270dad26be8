package octgn

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// Section names of the .o8d deck list format. A card's O8DType indexes
// into the player sections followed by the global sections.
var (
	O8DPlayerSections = []string{"Cards", "PreBuiltCards", "Special", "Nemesis", "Setup"}
	O8DGlobalSections = []string{"Encounter", "Side", "Special", "Villain", "Scheme",
		"Campaign", "Removed", "Setup", "Recommended"}
)

// O8DSectionFor resolves an export type tag to its section name and
// shared flag.
func O8DSectionFor(o8dType int) (name string, shared bool, ok bool) {
	if o8dType < 0 {
		return "", false, false
	}
	if o8dType < len(O8DPlayerSections) {
		return O8DPlayerSections[o8dType], false, true
	}
	o8dType -= len(O8DPlayerSections)
	if o8dType < len(O8DGlobalSections) {
		return O8DGlobalSections[o8dType], true, true
	}
	return "", false, false
}

// O8DTypeFor resolves a section name and shared flag to the export
// type tag, or -1 when the name is not in the enumeration.
func O8DTypeFor(name string, shared bool) int {
	sections := O8DPlayerSections
	offset := 0
	if shared {
		sections = O8DGlobalSections
		offset = len(O8DPlayerSections)
	}
	for i, s := range sections {
		if s == name {
			return offset + i
		}
	}
	return -1
}

// O8DCard is one card reference in a deck list section.
type O8DCard struct {
	ID   string
	Qty  int
	Name string
}

// O8DSection is a named deck list section.
type O8DSection struct {
	Name   string
	Shared bool
	Cards  []O8DCard
}

// O8DDeck is a decoded .o8d deck list.
type O8DDeck struct {
	Sections []O8DSection
}

type o8dDeckXML struct {
	XMLName  xml.Name        `xml:"deck"`
	Game     string          `xml:"game,attr"`
	Sections []o8dSectionXML `xml:"section"`
	Notes    []o8dNotesXML   `xml:"notes"`
	Unknown  []xmlForeign    `xml:",any"`
}

type o8dSectionXML struct {
	Name    string       `xml:"name,attr"`
	Shared  string       `xml:"shared,attr"`
	Cards   []o8dCardXML `xml:"card"`
	Unknown []xmlForeign `xml:",any"`
}

type o8dCardXML struct {
	Qty  string `xml:"qty,attr"`
	ID   string `xml:"id,attr"`
	Name string `xml:",chardata"`
}

type o8dNotesXML struct {
	Body string `xml:",chardata"`
}

// DecodeO8D parses an .o8d deck list. The root must be a <deck> for
// the Marvel Champions game ID; <notes> elements are ignored. Section
// names must come from the player or global enumeration matching their
// shared flag, and a repeated card ID within a section accumulates its
// quantity only when the display name matches exactly.
func DecodeO8D(r io.Reader) (*O8DDeck, error) {
	var root o8dDeckXML
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, formatErrorf("malformed .o8d file: %v", err)
	}
	if len(root.Unknown) > 0 {
		return nil, formatErrorf("expected <section> element, got <%s>", root.Unknown[0].XMLName.Local)
	}
	if root.Game != GameID {
		return nil, validationErrorf("deck is not for Marvel Champions: The Card Game")
	}

	deck := &O8DDeck{}
	seen := map[bool]map[string]bool{false: {}, true: {}}
	for _, node := range root.Sections {
		if len(node.Unknown) > 0 {
			return nil, formatErrorf("expected <card> element, got <%s>", node.Unknown[0].XMLName.Local)
		}
		if node.Name == "" {
			return nil, formatErrorf("<section> without a name attribute")
		}
		sharedStr := strings.ToLower(node.Shared)
		if sharedStr != "true" && sharedStr != "false" {
			return nil, formatErrorf("<section> with invalid shared attribute %q", node.Shared)
		}
		shared := sharedStr == "true"
		if O8DTypeFor(node.Name, shared) < 0 {
			scope := "player"
			if shared {
				scope = "global"
			}
			return nil, formatErrorf("illegal %s section name %q", scope, node.Name)
		}
		if seen[shared][node.Name] {
			return nil, formatErrorf("<section> with duplicate name %s", node.Name)
		}
		seen[shared][node.Name] = true

		section := O8DSection{Name: node.Name, Shared: shared}
		index := make(map[string]int)
		for _, cardNode := range node.Cards {
			if cardNode.ID == "" || cardNode.Qty == "" {
				return nil, formatErrorf("<card> without qty and/or id attribute")
			}
			qty, err := strconv.Atoi(cardNode.Qty)
			if err != nil {
				return nil, formatErrorf("invalid qty value %q", cardNode.Qty)
			}
			if qty <= 0 {
				return nil, formatErrorf("qty must be >= 1, got %d", qty)
			}
			name := cardNode.Name
			if i, ok := index[cardNode.ID]; ok {
				if section.Cards[i].Name != name {
					return nil, formatErrorf("cards with same ID %s but different name", cardNode.ID)
				}
				section.Cards[i].Qty += qty
				continue
			}
			index[cardNode.ID] = len(section.Cards)
			section.Cards = append(section.Cards, O8DCard{ID: cardNode.ID, Qty: qty, Name: name})
		}
		deck.Sections = append(deck.Sections, section)
	}
	return deck, nil
}

// EncodeO8D renders a deck as an .o8d deck list. Every card must have
// its export type tag set; copies of the same card aggregate into a
// qty count. All sections are emitted, empty ones included, player
// sections first.
func EncodeO8D(deck DeckView) (string, error) {
	type slot struct {
		id   string
		name string
		qty  int
	}
	numSections := len(O8DPlayerSections) + len(O8DGlobalSections)
	grouped := make([][]slot, numSections)
	indexes := make([]map[string]int, numSections)
	for i := range indexes {
		indexes[i] = make(map[string]int)
	}
	for _, card := range deck.Cards() {
		data := card.Data()
		if data == nil {
			return "", validationErrorf("deck contains a card without metadata")
		}
		if data.O8DType < 0 || data.O8DType >= numSections {
			return "", validationErrorf("card %q has no deck list card type set", data.Name())
		}
		t := data.O8DType
		if i, ok := indexes[t][data.ImageID()]; ok {
			grouped[t][i].qty++
			continue
		}
		indexes[t][data.ImageID()] = len(grouped[t])
		grouped[t] = append(grouped[t], slot{id: data.ImageID(), name: data.Name(), qty: 1})
	}

	root := o8dDeckXML{Game: GameID}
	for t := 0; t < numSections; t++ {
		name, shared, _ := O8DSectionFor(t)
		node := o8dSectionXML{Name: name, Shared: "False"}
		if shared {
			node.Shared = "True"
		}
		for _, s := range grouped[t] {
			node.Cards = append(node.Cards, o8dCardXML{
				Qty:  strconv.Itoa(s.qty),
				ID:   s.id,
				Name: s.name,
			})
		}
		root.Sections = append(root.Sections, node)
	}
	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", err
	}
	return xmlDeclaration + string(out), nil
}
