package marvelcdb

import (
	"fmt"
	"strconv"

	"github.com/cloudberries/mcdeck/mcdeck/octgn"
)

// Card is one card record from the public card database API. Records
// are generic string-keyed JSON objects; typed accessors and a small
// set of computed predicates live on top.
type Card struct {
	fields map[string]any
}

// NewCard wraps a decoded JSON card record.
func NewCard(fields map[string]any) *Card {
	return &Card{fields: fields}
}

// Has reports whether the record has a value for key.
func (c *Card) Has(key string) bool {
	v, ok := c.fields[key]
	return ok && v != nil
}

// Value returns the raw value for key.
func (c *Card) Value(key string) (any, bool) {
	v, ok := c.fields[key]
	return v, ok
}

// String returns the value for key rendered as a string, or "".
func (c *Card) String(key string) string {
	v, ok := c.fields[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Int returns the value for key as an int.
func (c *Card) Int(key string) (int, bool) {
	v, ok := c.fields[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Code returns the card database code, e.g. "01002".
func (c *Card) Code() string { return c.String("code") }

// Name returns the card name.
func (c *Card) Name() string { return c.String("name") }

// TypeCode returns the card type code, e.g. "hero".
func (c *Card) TypeCode() string { return c.String("type_code") }

// IsHero reports whether the card is a hero.
func (c *Card) IsHero() bool { return c.TypeCode() == "hero" }

// IsAlterEgo reports whether the card is an alter-ego.
func (c *Card) IsAlterEgo() bool { return c.TypeCode() == "alter_ego" }

// BelongsToHeroSet reports whether the card comes from a hero card
// set.
func (c *Card) BelongsToHeroSet() bool {
	return c.String("card_set_type_name_code") == "hero"
}

// HasPlayerBackside reports whether the card type uses the player
// card back.
func (c *Card) HasPlayerBackside() bool {
	switch c.TypeCode() {
	case "ally", "event", "upgrade", "support", "resource":
		return true
	}
	return false
}

// HasEncounterBackside reports whether the card type uses the
// encounter card back.
func (c *Card) HasEncounterBackside() bool {
	switch c.TypeCode() {
	case "attachment", "environment", "minion", "side_scheme", "treachery", "obligation":
		return true
	}
	return false
}

// HasVillainBackside reports whether the card type uses the villain
// card back.
func (c *Card) HasVillainBackside() bool {
	return c.TypeCode() == "villain"
}

// CardType maps the backside predicates to an interchange category
// tag.
func (c *Card) CardType() octgn.CardType {
	switch {
	case c.HasPlayerBackside():
		return octgn.CardTypePlayer
	case c.HasEncounterBackside():
		return octgn.CardTypeEncounter
	case c.HasVillainBackside():
		return octgn.CardTypeVillain
	default:
		return octgn.CardTypeUnspecified
	}
}

// Translation tables from card database keys to OCTGN property names.
// Order fixes the property order on converted cards.
var octgnStringFields = []struct{ key, field string }{
	{"code", "CardNumber"},
	{"type_code", "Type"},
	{"cost", "Cost"},
	{"traits", "Attribute"},
	{"text", "Text"},
	{"resource_physical", "Resource_Physical"},
	{"resource_mental", "Resource_Mental"},
	{"resource_energy", "Resource_Energy"},
	{"resource_wild", "Resource_Wild"},
	{"flavor", "Quote"},
	{"card_set_name", "Owner"},
	{"attack", "Attack"},
	{"thwart", "Thwart"},
	{"defense", "Defense"},
	{"recover", "Recovery"},
	{"scheme", "Scheme"},
	{"attack_cost", "AttackCost"},
	{"thwart_cost", "ThwartCost"},
	{"hand_size", "HandSize"},
	{"health", "HP"},
	{"threat", "Threat"},
	{"base_threat", "BaseThreat"},
	{"escalation_threat", "EscalationThreat"},
	{"scheme_acceleration", "Scheme_Acceleration"},
	{"scheme_crisis", "Scheme_Crisis"},
	{"scheme_hazard", "Scheme_Hazard"},
	{"boost", "Boost"},
}

var octgnBoolFields = []struct{ key, field string }{
	{"is_unique", "Unique"},
	{"health_per_hero", "HP_Per_Hero"},
	{"escalation_threat_fixed", "EscalationThreatFixed"},
	{"base_threat_fixed", "BaseThreatFixed"},
}

// OctgnProperties converts the record to OCTGN card properties.
// Integer zero values and empty strings stay unset; boolean source
// keys map onto the True/False enums.
func (c *Card) OctgnProperties() (*octgn.Properties, error) {
	props := octgn.NewProperties()
	for _, t := range octgnStringFields {
		if !c.Has(t.key) {
			continue
		}
		field, ok := octgn.LookupField(t.field)
		if !ok {
			continue
		}
		if field.Kind == octgn.FieldInt {
			n, ok := c.Int(t.key)
			if !ok {
				return nil, fmt.Errorf("card %s: key %q is not an integer", c.Code(), t.key)
			}
			if n == 0 {
				continue
			}
			if err := props.Set(t.field, n); err != nil {
				return nil, err
			}
			continue
		}
		s := c.String(t.key)
		if s == "" {
			continue
		}
		if err := props.Set(t.field, s); err != nil {
			return nil, err
		}
	}
	for _, t := range octgnBoolFields {
		if _, ok := c.fields[t.key]; !ok {
			continue
		}
		value := "False"
		if c.truthy(t.key) {
			value = "True"
		}
		if err := props.Set(t.field, value); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// OctgnCardData converts the record to OCTGN card data, using the
// record's octgn_id as card identifier when present.
func (c *Card) OctgnCardData() (*octgn.CardData, error) {
	props, err := c.OctgnProperties()
	if err != nil {
		return nil, err
	}
	return octgn.NewCardData(c.Name(), props, c.String("octgn_id"))
}

func (c *Card) truthy(key string) bool {
	v, ok := c.fields[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
