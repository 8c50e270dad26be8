package octgn

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CardData is the OCTGN metadata for a single (front) card: a name, a
// UUID image identifier, schema properties, an optional alternate
// (back) side and an export type tag for .o8d deck lists.
type CardData struct {
	name    string
	imageID string
	props   *Properties
	alt     *AltCardData

	// O8DType selects the .o8d section the card exports into, as an
	// index into the player sections followed by the global sections.
	// -1 means unset.
	O8DType int
}

// NewCardData creates card data. A nil props creates an empty property
// set. An empty imageID draws a fresh random UUID; otherwise imageID
// must parse as a UUID and is stored in canonical lowercase form.
func NewCardData(name string, props *Properties, imageID string) (*CardData, error) {
	if props == nil {
		props = NewProperties()
	}
	if imageID == "" {
		imageID = uuid.NewString()
	} else {
		id, err := uuid.Parse(imageID)
		if err != nil {
			return nil, formatErrorf("invalid card ID %q: %v", imageID, err)
		}
		imageID = id.String()
	}
	return &CardData{name: name, imageID: imageID, props: props, O8DType: -1}, nil
}

// Name returns the card name.
func (c *CardData) Name() string { return c.name }

// ImageID returns the canonical UUID identifying the card front image.
func (c *CardData) ImageID() string { return c.imageID }

// Properties returns the card's property set.
func (c *CardData) Properties() *Properties { return c.props }

// Alt returns the alternate side data, or nil.
func (c *CardData) Alt() *AltCardData { return c.alt }

// CreateAlt attaches an alternate side to the card, replacing any
// previous one. An empty tag uses DefaultAltTag. A nil props creates
// an empty property set.
func (c *CardData) CreateAlt(name string, props *Properties, tag string) *AltCardData {
	if props == nil {
		props = NewProperties()
	}
	if tag == "" {
		tag = DefaultAltTag
	}
	alt := &AltCardData{parent: c, name: name, props: props, tag: tag}
	c.alt = alt
	return alt
}

// Copy returns a deep copy of the card data, alternate side included.
// The copy keeps the same image ID.
func (c *CardData) Copy() *CardData {
	cp := &CardData{
		name:    c.name,
		imageID: c.imageID,
		props:   c.props.Copy(),
		O8DType: c.O8DType,
	}
	if c.alt != nil {
		cp.CreateAlt(c.alt.name, c.alt.props.Copy(), c.alt.tag)
	}
	return cp
}

// Encode renders the card as a text block: a
// "CARD:<id>:<o8dType>:<name>" header followed by the property block.
func (c *CardData) Encode() string {
	var b strings.Builder
	b.WriteString("CARD:")
	b.WriteString(c.imageID)
	b.WriteString(":")
	b.WriteString(strconv.Itoa(c.O8DType))
	b.WriteString(":")
	b.WriteString(escapeValue(c.name))
	b.WriteString("\n")
	b.WriteString(c.props.Encode())
	return b.String()
}

// AltCardData is the alternate (back) side of a card. Its identifier
// is always derived from the parent card as "<parentID>.<tag>"; alt
// sides are never assigned identifiers of their own and cannot be
// copied independently of their parent.
type AltCardData struct {
	parent *CardData
	name   string
	props  *Properties
	tag    string
}

// Name returns the alternate side name.
func (a *AltCardData) Name() string { return a.name }

// Properties returns the alternate side's property set.
func (a *AltCardData) Properties() *Properties { return a.props }

// Tag returns the side tag (normally "b").
func (a *AltCardData) Tag() string { return a.tag }

// Parent returns the card this side belongs to.
func (a *AltCardData) Parent() *CardData { return a.parent }

// ImageID returns the derived image identifier "<parentID>.<tag>".
func (a *AltCardData) ImageID() string {
	return a.parent.imageID + "." + a.tag
}

// Encode renders the alternate side as a text block: an
// "ALTCARD:<name>" header followed by the property block. The derived
// identifier is not encoded.
func (a *AltCardData) Encode() string {
	return "ALTCARD:" + escapeValue(a.name) + "\n" + a.props.Encode()
}

// DecodeCard decodes one CARD or ALTCARD text block from
// comment-free, non-blank lines. An ALTCARD block attaches to parent
// and returns (nil, nil); the caller must then stop treating the
// parent as a parent candidate for following blocks. A CARD block
// returns the new card.
func DecodeCard(parent *CardData, lines []string) (*CardData, error) {
	if len(lines) == 0 {
		return nil, formatErrorf("no lines to decode")
	}
	header, rest := lines[0], lines[1:]
	parts := strings.Split(header, ":")
	if len(parts) < 2 {
		return nil, formatErrorf("invalid card header %q: too few fields", header)
	}
	keyword := strings.ToLower(parts[0])
	props, err := parsePropertyLines(rest)
	if err != nil {
		return nil, err
	}
	switch keyword {
	case "card":
		if len(parts) < 4 {
			return nil, formatErrorf("invalid card header %q: too few fields", header)
		}
		imageID, typeField := parts[1], parts[2]
		if imageID == "" {
			return nil, formatErrorf("card header %q has no card ID", header)
		}
		o8dType, err := strconv.Atoi(typeField)
		if err != nil {
			return nil, formatErrorf("invalid export type %q in card header", typeField)
		}
		name, err := unescapeValue(strings.Join(parts[3:], ":"))
		if err != nil {
			return nil, err
		}
		card, err := NewCardData(name, props, imageID)
		if err != nil {
			return nil, err
		}
		if o8dType >= 0 {
			card.O8DType = o8dType
		}
		return card, nil
	case "altcard":
		if parent == nil {
			return nil, formatErrorf("alt side without preceding parent")
		}
		name, err := unescapeValue(strings.Join(parts[1:], ":"))
		if err != nil {
			return nil, err
		}
		parent.CreateAlt(name, props, DefaultAltTag)
		return nil, nil
	default:
		return nil, formatErrorf("card header must start with CARD or ALTCARD, got %q", parts[0])
	}
}
