package marvelcdb

import (
	"reflect"
	"testing"

	"github.com/cloudberries/mcdeck/mcdeck/octgn"
)

func heroFields() map[string]any {
	return map[string]any{
		"code":                    "01001a",
		"octgn_id":                "22222222-2222-2222-2222-222222222222",
		"name":                    "Spider-Man",
		"type_code":               "hero",
		"card_set_type_name_code": "hero",
		"traits":                  "Avenger.",
		"health":                  float64(10),
		"thwart":                  float64(1),
		"attack":                  float64(2),
		"defense":                 float64(3),
		"hand_size":               float64(5),
		"is_unique":               true,
	}
}

func TestCardPredicates(t *testing.T) {
	tests := []struct {
		typeCode string
		ctype    octgn.CardType
	}{
		{typeCode: "ally", ctype: octgn.CardTypePlayer},
		{typeCode: "event", ctype: octgn.CardTypePlayer},
		{typeCode: "upgrade", ctype: octgn.CardTypePlayer},
		{typeCode: "support", ctype: octgn.CardTypePlayer},
		{typeCode: "resource", ctype: octgn.CardTypePlayer},
		{typeCode: "attachment", ctype: octgn.CardTypeEncounter},
		{typeCode: "environment", ctype: octgn.CardTypeEncounter},
		{typeCode: "minion", ctype: octgn.CardTypeEncounter},
		{typeCode: "side_scheme", ctype: octgn.CardTypeEncounter},
		{typeCode: "treachery", ctype: octgn.CardTypeEncounter},
		{typeCode: "obligation", ctype: octgn.CardTypeEncounter},
		{typeCode: "villain", ctype: octgn.CardTypeVillain},
		{typeCode: "hero", ctype: octgn.CardTypeUnspecified},
		{typeCode: "alter_ego", ctype: octgn.CardTypeUnspecified},
		{typeCode: "main_scheme", ctype: octgn.CardTypeUnspecified},
	}
	for _, tt := range tests {
		t.Run(tt.typeCode, func(t *testing.T) {
			card := NewCard(map[string]any{"type_code": tt.typeCode})
			if got := card.CardType(); got != tt.ctype {
				t.Errorf("CardType() = %v, want %v", got, tt.ctype)
			}
		})
	}

	hero := NewCard(heroFields())
	if !hero.IsHero() || hero.IsAlterEgo() {
		t.Error("hero predicates disagree with the type code")
	}
	if !hero.BelongsToHeroSet() {
		t.Error("BelongsToHeroSet() = false for a hero set card")
	}
}

func TestOctgnProperties(t *testing.T) {
	card := NewCard(map[string]any{
		"code":      "01002",
		"name":      "Nova",
		"type_code": "ally",
		"cost":      float64(2),
		"traits":    "Hero for Hire.",
		"text":      "Forced Response: ...",
		"flavor":    "Blast off!",
		"attack":    float64(1),
		"thwart":    float64(0),
		"health":    float64(3),
		"is_unique": true,
	})
	props, err := card.OctgnProperties()
	if err != nil {
		t.Fatalf("OctgnProperties() error = %v", err)
	}
	wantOrder := []string{"CardNumber", "Type", "Cost", "Attribute", "Text", "Quote", "Attack", "HP", "Unique"}
	if got := props.Names(); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("Names() = %v, want %v", got, wantOrder)
	}
	// Zero integers stay unset.
	if _, ok := props.Get("Thwart"); ok {
		t.Error("zero Thwart value was stored")
	}
	if v, _ := props.Get("Cost"); v != 2 {
		t.Errorf("Cost = %v, want 2", v)
	}
	if v, _ := props.Get("Type"); v != "ally" {
		t.Errorf("Type = %v, want ally", v)
	}
	if v, _ := props.Get("Unique"); v != "True" {
		t.Errorf("Unique = %v, want True", v)
	}
}

func TestOctgnPropertiesBools(t *testing.T) {
	card := NewCard(map[string]any{
		"code":                    "01101",
		"health_per_hero":         true,
		"base_threat_fixed":       false,
		"escalation_threat":       float64(1),
		"escalation_threat_fixed": false,
	})
	props, err := card.OctgnProperties()
	if err != nil {
		t.Fatalf("OctgnProperties() error = %v", err)
	}
	if v, _ := props.Get("HP_Per_Hero"); v != "True" {
		t.Errorf("HP_Per_Hero = %v, want True", v)
	}
	if v, _ := props.Get("BaseThreatFixed"); v != "False" {
		t.Errorf("BaseThreatFixed = %v, want False", v)
	}
	if v, _ := props.Get("EscalationThreat"); v != 1 {
		t.Errorf("EscalationThreat = %v, want 1", v)
	}
}

func TestOctgnPropertiesNonInteger(t *testing.T) {
	card := NewCard(map[string]any{
		"code": "01003",
		"cost": "a lot",
	})
	if _, err := card.OctgnProperties(); err == nil {
		t.Error("OctgnProperties() accepted a non-integer cost")
	}
}

func TestOctgnCardData(t *testing.T) {
	card := NewCard(heroFields())
	data, err := card.OctgnCardData()
	if err != nil {
		t.Fatalf("OctgnCardData() error = %v", err)
	}
	if data.Name() != "Spider-Man" {
		t.Errorf("Name() = %q, want Spider-Man", data.Name())
	}
	if data.ImageID() != "22222222-2222-2222-2222-222222222222" {
		t.Errorf("ImageID() = %q, want the octgn_id", data.ImageID())
	}
	if v, _ := data.Properties().Get("HP"); v != 10 {
		t.Errorf("HP = %v, want 10", v)
	}
}

func TestCardAccessors(t *testing.T) {
	card := NewCard(map[string]any{
		"code":   "01001a",
		"health": float64(10),
		"cost":   "3",
		"flavor": nil,
	})
	if card.Has("flavor") {
		t.Error("Has() = true for a null value")
	}
	if got := card.String("health"); got != "10" {
		t.Errorf("String(health) = %q, want 10", got)
	}
	if n, ok := card.Int("cost"); !ok || n != 3 {
		t.Errorf("Int(cost) = %d, %v, want 3, true", n, ok)
	}
	if _, ok := card.Int("code"); ok {
		t.Error("Int(code) parsed a non-numeric code")
	}
	if got := card.String("missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
}
