package octgn

import (
	"encoding/xml"
	"io"

	"github.com/google/uuid"
)

// xmlDeclaration is written by hand. OCTGN ships set.xml files with a
// standalone pseudo-attribute and single quotes, which encoding/xml
// cannot produce.
const xmlDeclaration = "<?xml version='1.0' encoding='utf-8' standalone='yes'?>\n"

type xmlSet struct {
	XMLName     xml.Name     `xml:"set"`
	Name        string       `xml:"name,attr"`
	ID          string       `xml:"id,attr"`
	GameID      string       `xml:"gameId,attr"`
	GameVersion string       `xml:"gameVersion,attr"`
	Version     string       `xml:"version,attr"`
	Cards       xmlCards     `xml:"cards"`
	Unknown     []xmlForeign `xml:",any"`
}

type xmlCards struct {
	Cards   []xmlCard    `xml:"card"`
	Unknown []xmlForeign `xml:",any"`
}

type xmlCard struct {
	Name       string         `xml:"name,attr"`
	ID         string         `xml:"id,attr"`
	Size       string         `xml:"size,attr,omitempty"`
	Properties []xmlProperty  `xml:"property"`
	Alternates []xmlAlternate `xml:"alternate"`
	Unknown    []xmlForeign   `xml:",any"`
}

type xmlAlternate struct {
	Name       string        `xml:"name,attr"`
	Type       string        `xml:"type,attr"`
	Properties []xmlProperty `xml:"property"`
	Unknown    []xmlForeign  `xml:",any"`
}

// xmlProperty carries the value either as a value attribute or, for
// the Text and Quote fields, as element text.
type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr,omitempty"`
	Body  string `xml:",chardata"`
}

type xmlForeign struct {
	XMLName xml.Name
}

// Card sizes recognized by the OCTGN game definition. Player cards use
// the default size and carry no attribute.
const (
	sizeScheme    = "SchemeCard"
	sizeEncounter = "EncounterCard"
	sizeVillain   = "VillainCard"
)

// EncodeSetXML renders a deck as an OCTGN set.xml document.
func EncodeSetXML(deck DeckView) (string, error) {
	setData := deck.SetData()
	if setData == nil {
		return "", validationErrorf("deck has no card set metadata")
	}
	root := xmlSet{
		Name:        setData.Name(),
		ID:          setData.SetID(),
		GameID:      GameID,
		GameVersion: GameVersion,
		Version:     SetVersion,
	}
	for _, card := range deck.Cards() {
		data := card.Data()
		if data == nil {
			return "", validationErrorf("deck contains a card without metadata")
		}
		node := xmlCard{
			Name: data.Name(),
			ID:   data.ImageID(),
			Size: inferCardSize(data.Properties(), card.CardType()),
		}
		node.Properties = encodeXMLProperties(data.Properties())
		if alt := data.Alt(); alt != nil {
			node.Alternates = []xmlAlternate{{
				Name:       alt.Name(),
				Type:       alt.Tag(),
				Properties: encodeXMLProperties(alt.Properties()),
			}}
		}
		root.Cards.Cards = append(root.Cards.Cards, node)
	}
	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", err
	}
	return xmlDeclaration + string(out), nil
}

func encodeXMLProperties(props *Properties) []xmlProperty {
	var out []xmlProperty
	for _, name := range props.Names() {
		value := props.GetString(name)
		p := xmlProperty{Name: name}
		if name == "Text" || name == "Quote" {
			p.Body = value
		} else {
			p.Value = value
		}
		out = append(out, p)
	}
	return out
}

// inferCardSize resolves the size attribute. A recognized player Type
// or a player category tag yields the default size (no attribute),
// recognized scheme, encounter and villain Types map to their sizes,
// then the category tag decides, and anything unresolved falls back
// to a player card.
func inferCardSize(props *Properties, ctype CardType) string {
	cardType := props.GetString("Type")
	switch cardType {
	case "ally", "alter_ego", "event", "hero", "resource", "support", "upgrade":
		return ""
	}
	if ctype == CardTypePlayer {
		return ""
	}
	switch cardType {
	case "main_scheme", "side_scheme":
		return sizeScheme
	case "attachment", "environment", "minion", "obligation", "treachery":
		return sizeEncounter
	case "villain":
		return sizeVillain
	}
	switch ctype {
	case CardTypeEncounter:
		return sizeEncounter
	case CardTypeVillain:
		return sizeVillain
	}
	return ""
}

// DecodeSetXML parses a set.xml document into set data and its cards,
// keyed in document order. Unknown elements, more than one alternate
// per card, and a root other than <set> are format errors. Property
// values go through the tolerant string decoding; empty values are
// skipped.
func DecodeSetXML(r io.Reader) (*CardSetData, []*CardData, error) {
	var root xmlSet
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, nil, formatErrorf("malformed set.xml: %v", err)
	}
	if len(root.Unknown) > 0 {
		return nil, nil, formatErrorf("unexpected element <%s> under <set>", root.Unknown[0].XMLName.Local)
	}
	if len(root.Cards.Unknown) > 0 {
		return nil, nil, formatErrorf("unexpected element <%s> under <cards>", root.Cards.Unknown[0].XMLName.Local)
	}
	if _, err := uuid.Parse(root.ID); err != nil {
		return nil, nil, formatErrorf("invalid set ID %q in set.xml", root.ID)
	}
	setData, err := NewCardSetData(root.Name, root.ID)
	if err != nil {
		return nil, nil, err
	}
	var cards []*CardData
	for _, node := range root.Cards.Cards {
		if len(node.Unknown) > 0 {
			return nil, nil, formatErrorf("unexpected element <%s> under <card>", node.Unknown[0].XMLName.Local)
		}
		card, err := NewCardData(node.Name, nil, node.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := decodeXMLProperties(card.Properties(), node.Properties); err != nil {
			return nil, nil, err
		}
		if len(node.Alternates) > 1 {
			return nil, nil, formatErrorf("card %s has more than one alternate side", node.ID)
		}
		if len(node.Alternates) == 1 {
			altNode := node.Alternates[0]
			if len(altNode.Unknown) > 0 {
				return nil, nil, formatErrorf("unexpected element <%s> under <alternate>", altNode.Unknown[0].XMLName.Local)
			}
			alt := card.CreateAlt(altNode.Name, nil, altNode.Type)
			if err := decodeXMLProperties(alt.Properties(), altNode.Properties); err != nil {
				return nil, nil, err
			}
		}
		cards = append(cards, card)
	}
	return setData, cards, nil
}

func decodeXMLProperties(props *Properties, nodes []xmlProperty) error {
	for _, node := range nodes {
		value := node.Value
		if node.Name == "Text" || node.Name == "Quote" {
			value = node.Body
		}
		if value == "" {
			continue
		}
		if err := props.SetFromString(node.Name, value); err != nil {
			return err
		}
	}
	return nil
}
