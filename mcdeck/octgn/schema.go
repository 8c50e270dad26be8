package octgn

import "sort"

// FieldKind is the value type of a schema field.
type FieldKind int

const (
	FieldStr FieldKind = iota
	FieldInt
	FieldEnum
)

// Field describes one property recognized by the game module schema.
type Field struct {
	Name string
	Kind FieldKind
	// Enum lists the allowed literals for FieldEnum fields.
	Enum []string
	// Open marks an enum that tolerates unlisted literals.
	Open bool
}

var boolEnum = []string{"True", "False"}

// schema is the process-wide property table. It matches the Marvel
// Champions OCTGN game definition and is never mutated.
var schema = map[string]Field{
	"Type": {Name: "Type", Kind: FieldEnum, Open: true, Enum: []string{
		"ally", "alter_ego", "attachment", "environment", "event", "hero",
		"main_scheme", "minion", "obligation", "resource", "side_scheme",
		"support", "treachery", "upgrade", "villain",
	}},
	"CardNumber":            {Name: "CardNumber", Kind: FieldStr},
	"Unique":                {Name: "Unique", Kind: FieldEnum, Enum: boolEnum},
	"Cost":                  {Name: "Cost", Kind: FieldInt},
	"Attribute":             {Name: "Attribute", Kind: FieldStr},
	"Text":                  {Name: "Text", Kind: FieldStr},
	"Resource_Physical":     {Name: "Resource_Physical", Kind: FieldInt},
	"Resource_Mental":       {Name: "Resource_Mental", Kind: FieldInt},
	"Resource_Energy":       {Name: "Resource_Energy", Kind: FieldInt},
	"Resource_Wild":         {Name: "Resource_Wild", Kind: FieldInt},
	"Quote":                 {Name: "Quote", Kind: FieldStr},
	"Owner":                 {Name: "Owner", Kind: FieldStr},
	"Attack":                {Name: "Attack", Kind: FieldInt},
	"Thwart":                {Name: "Thwart", Kind: FieldInt},
	"Defense":               {Name: "Defense", Kind: FieldInt},
	"Recovery":              {Name: "Recovery", Kind: FieldInt},
	"Scheme":                {Name: "Scheme", Kind: FieldInt},
	"AttackCost":            {Name: "AttackCost", Kind: FieldInt},
	"ThwartCost":            {Name: "ThwartCost", Kind: FieldInt},
	"HandSize":              {Name: "HandSize", Kind: FieldInt},
	"HP":                    {Name: "HP", Kind: FieldInt},
	"HP_Per_Hero":           {Name: "HP_Per_Hero", Kind: FieldEnum, Enum: boolEnum},
	"Threat":                {Name: "Threat", Kind: FieldInt},
	"EscalationThreat":      {Name: "EscalationThreat", Kind: FieldInt},
	"EscalationThreatFixed": {Name: "EscalationThreatFixed", Kind: FieldEnum, Enum: boolEnum},
	"BaseThreat":            {Name: "BaseThreat", Kind: FieldInt},
	"BaseThreatFixed":       {Name: "BaseThreatFixed", Kind: FieldEnum, Enum: boolEnum},
	"Scheme_Acceleration":   {Name: "Scheme_Acceleration", Kind: FieldInt},
	"Scheme_Crisis":         {Name: "Scheme_Crisis", Kind: FieldInt},
	"Scheme_Hazard":         {Name: "Scheme_Hazard", Kind: FieldInt},
	"Scheme_Boost":          {Name: "Scheme_Boost", Kind: FieldInt},
	"Boost":                 {Name: "Boost", Kind: FieldInt},
}

// LookupField returns the schema entry for name.
func LookupField(name string) (Field, bool) {
	f, ok := schema[name]
	return f, ok
}

// FieldNames returns all schema field names in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
