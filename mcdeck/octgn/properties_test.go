package octgn

import (
	"reflect"
	"testing"
)

func TestPropertiesSet(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		wantErr bool
		want    any
	}{
		{name: "String", field: "Attribute", value: "Avenger.", want: "Avenger."},
		{name: "StringWrongType", field: "Attribute", value: 3, wantErr: true},
		{name: "StringEmpty", field: "Attribute", value: "", wantErr: true},
		{name: "OpenEnumEmpty", field: "Type", value: "", wantErr: true},
		{name: "EnumEmpty", field: "Unique", value: "", wantErr: true},
		{name: "Int", field: "Cost", value: 2, want: 2},
		{name: "IntNegative", field: "Cost", value: -1, wantErr: true},
		{name: "IntWrongType", field: "Cost", value: "2", wantErr: true},
		{name: "Enum", field: "Unique", value: "True", want: "True"},
		{name: "EnumInvalid", field: "Unique", value: "yes", wantErr: true},
		{name: "OpenEnumListed", field: "Type", value: "hero", want: "hero"},
		{name: "OpenEnumUnlisted", field: "Type", value: "player_side_scheme", want: "player_side_scheme"},
		{name: "UnknownField", field: "Mana", value: "3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProperties()
			err := p.Set(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %v) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				if p.Len() != 0 {
					t.Errorf("Set(%q, %v) stored a value despite the error", tt.field, tt.value)
				}
				return
			}
			got, ok := p.Get(tt.field)
			if !ok || got != tt.want {
				t.Errorf("Get(%q) = %v, %v, want %v, true", tt.field, got, ok, tt.want)
			}
		})
	}
}

func TestPropertiesSetFromString(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
		// stored is false when the write is silently skipped.
		stored bool
		want   any
	}{
		{name: "IntNumeral", field: "Cost", value: "4", stored: true, want: 4},
		{name: "IntNone", field: "Cost", value: "None", stored: true, want: 0},
		{name: "IntLowerX", field: "Cost", value: "x", stored: false},
		{name: "IntUpperX", field: "HP", value: "X", stored: false},
		{name: "IntNegative", field: "Cost", value: "-2", stored: false},
		{name: "IntGarbage", field: "Cost", value: "two", wantErr: true},
		{name: "EnumExact", field: "Unique", value: "True", stored: true, want: "True"},
		{name: "EnumCaseFold", field: "Unique", value: "true", stored: true, want: "True"},
		{name: "EnumInvalid", field: "Unique", value: "maybe", wantErr: true},
		{name: "OpenEnumCaseFold", field: "Type", value: "HERO", stored: true, want: "hero"},
		{name: "OpenEnumUnlisted", field: "Type", value: "player_side_scheme", stored: true, want: "player_side_scheme"},
		{name: "String", field: "Text", value: "Draw a card.", stored: true, want: "Draw a card."},
		{name: "StringEmpty", field: "Text", value: "", wantErr: true},
		{name: "UnknownField", field: "Mana", value: "3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProperties()
			err := p.SetFromString(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetFromString(%q, %q) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, ok := p.Get(tt.field)
			if ok != tt.stored {
				t.Fatalf("Get(%q) stored = %v, want %v", tt.field, ok, tt.stored)
			}
			if tt.stored && got != tt.want {
				t.Errorf("Get(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestPropertiesEncodeEmpty(t *testing.T) {
	p := NewProperties()
	if got := p.Encode(); got != "---\n\n" {
		t.Errorf("Encode() = %q, want %q", got, "---\n\n")
	}
	decoded, err := ParseProperties(p.Encode())
	if err != nil {
		t.Fatalf("ParseProperties() error = %v", err)
	}
	if decoded.Len() != 0 {
		t.Errorf("ParseProperties() decoded %d fields, want 0", decoded.Len())
	}
}

func TestPropertiesEncodeOrder(t *testing.T) {
	p := NewProperties()
	for _, f := range []struct {
		name  string
		value any
	}{
		{"Type", "ally"},
		{"Cost", 2},
		{"Attribute", "Avenger."},
	} {
		if err := p.Set(f.name, f.value); err != nil {
			t.Fatalf("Set(%q) error = %v", f.name, err)
		}
	}
	want := "Type:ally\nCost:2\nAttribute:Avenger.\n\n"
	if got := p.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	// Re-setting an existing field must not change its position.
	if err := p.Set("Type", "event"); err != nil {
		t.Fatalf("Set(Type) error = %v", err)
	}
	if got := p.Names(); !reflect.DeepEqual(got, []string{"Type", "Cost", "Attribute"}) {
		t.Errorf("Names() = %v, want insertion order preserved", got)
	}
}

func TestPropertiesRoundTrip(t *testing.T) {
	p := NewProperties()
	fields := []struct {
		name  string
		value any
	}{
		{"Type", "hero"},
		{"Text", "Line one.\nLine two with \\backslash."},
		{"HP", 11},
		{"Unique", "True"},
	}
	for _, f := range fields {
		if err := p.Set(f.name, f.value); err != nil {
			t.Fatalf("Set(%q) error = %v", f.name, err)
		}
	}
	decoded, err := ParseProperties(p.Encode())
	if err != nil {
		t.Fatalf("ParseProperties() error = %v", err)
	}
	if !reflect.DeepEqual(decoded.Names(), p.Names()) {
		t.Fatalf("round trip names = %v, want %v", decoded.Names(), p.Names())
	}
	for _, f := range fields {
		got, _ := decoded.Get(f.name)
		if got != f.value {
			t.Errorf("round trip %q = %v, want %v", f.name, got, f.value)
		}
	}
}

func TestParsePropertiesErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "SentinelAmongLines", text: "Type:ally\n---\n"},
		{name: "MalformedLine", text: "Type\n"},
		{name: "UnknownField", text: "Mana:3\n"},
		{name: "EmptyValue", text: "Attribute:\n"},
		{name: "RepeatedKey", text: "Cost:1\nCost:2\n"},
		{name: "BlankLineInsideBlock", text: "Type:ally\n\nCost:2\n"},
		{name: "BadEscape", text: "Text:a\\tb\n"},
		{name: "TrailingBackslash", text: "Text:oops\\\n"},
		{name: "IntGarbage", text: "Cost:two\n"},
		{name: "IntNegative", text: "Cost:-1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProperties(tt.text); err == nil {
				t.Errorf("ParseProperties(%q) succeeded, want error", tt.text)
			}
		})
	}
}

func TestParsePropertiesComments(t *testing.T) {
	p, err := ParseProperties("# comment\nCost:3\n# another\n")
	if err != nil {
		t.Fatalf("ParseProperties() error = %v", err)
	}
	if got, _ := p.Get("Cost"); got != 3 {
		t.Errorf("Get(Cost) = %v, want 3", got)
	}
}

func TestPropertiesCopy(t *testing.T) {
	p := NewProperties()
	if err := p.Set("Cost", 1); err != nil {
		t.Fatal(err)
	}
	c := p.Copy()
	if err := c.Set("Cost", 5); err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Get("Cost"); got != 1 {
		t.Errorf("original Cost = %v after mutating the copy, want 1", got)
	}
}

func TestPropertiesClear(t *testing.T) {
	p := NewProperties()
	for _, name := range []string{"Type", "Cost", "Text"} {
		var v any = name
		if name == "Cost" {
			v = 1
		} else if name == "Type" {
			v = "ally"
		}
		if err := p.Set(name, v); err != nil {
			t.Fatal(err)
		}
	}
	p.Clear("Cost")
	if got := p.Names(); !reflect.DeepEqual(got, []string{"Type", "Text"}) {
		t.Errorf("Names() after Clear = %v, want [Type Text]", got)
	}
	p.Clear("Cost") // clearing again is a no-op
	p.ClearAll()
	if p.Len() != 0 {
		t.Errorf("Len() after ClearAll = %d, want 0", p.Len())
	}
}
