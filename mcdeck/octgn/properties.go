package octgn

import (
	"strconv"
	"strings"
)

// Properties is a set of schema-validated card property values with
// deterministic insertion-ordered encoding.
//
// Values are held as string or int, matching the field kind. Enum
// values are stored as their canonical literal. A Properties value is
// not safe for concurrent use.
type Properties struct {
	values map[string]any
	order  []string
}

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]any)}
}

// Set stores value for the named field after schema validation. String
// and open enum fields take any non-empty string, closed enums take
// one of their literals, and int fields take a non-negative int.
func (p *Properties) Set(name string, value any) error {
	field, ok := LookupField(name)
	if !ok {
		return schemaViolationf("", "unknown property %q", name)
	}
	switch field.Kind {
	case FieldStr:
		s, ok := value.(string)
		if !ok {
			return schemaViolationf(name, "property %q requires a string value", name)
		}
		if s == "" {
			return schemaViolationf(name, "property %q cannot be set to an empty string", name)
		}
		p.store(name, s)
	case FieldInt:
		n, ok := value.(int)
		if !ok {
			return schemaViolationf(name, "property %q requires an int value", name)
		}
		if n < 0 {
			return schemaViolationf(name, "property %q cannot be negative, got %d", name, n)
		}
		p.store(name, n)
	case FieldEnum:
		s, ok := value.(string)
		if !ok {
			return schemaViolationf(name, "property %q requires a string value", name)
		}
		if s == "" {
			return schemaViolationf(name, "property %q cannot be set to an empty string", name)
		}
		for _, lit := range field.Enum {
			if s == lit {
				p.store(name, lit)
				return nil
			}
		}
		if !field.Open {
			return schemaViolationf(name, "invalid value %q for property %q", s, name)
		}
		p.store(name, s)
	}
	return nil
}

// SetFromString parses value per the field kind and stores it. Int
// fields apply the interchange tolerances: "None" reads as zero, a
// bare "x" (any case) is skipped, and negative numerals are skipped.
// Closed enum literals fall back to a case-insensitive match, storing
// the canonical literal. A skipped write returns nil without storing.
func (p *Properties) SetFromString(name, value string) error {
	field, ok := LookupField(name)
	if !ok {
		return schemaViolationf("", "unknown property %q", name)
	}
	switch field.Kind {
	case FieldInt:
		if value == "None" {
			return p.Set(name, 0)
		}
		if strings.EqualFold(value, "x") {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return schemaViolationf(name, "property %q requires an integer, got %q", name, value)
		}
		if n < 0 {
			return nil
		}
		return p.Set(name, n)
	case FieldEnum:
		for _, lit := range field.Enum {
			if value == lit {
				return p.Set(name, lit)
			}
		}
		for _, lit := range field.Enum {
			if strings.EqualFold(value, lit) {
				return p.Set(name, lit)
			}
		}
		return p.Set(name, value)
	default:
		return p.Set(name, value)
	}
}

// Get returns the stored value for name.
func (p *Properties) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// GetString returns the stored value rendered as a string, or "" when
// the field is unset.
func (p *Properties) GetString(name string) string {
	v, ok := p.values[name]
	if !ok {
		return ""
	}
	return renderValue(v)
}

// Clear removes the named field. Clearing an unset field is a no-op.
func (p *Properties) Clear(name string) {
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// ClearAll removes every field.
func (p *Properties) ClearAll() {
	p.values = make(map[string]any)
	p.order = p.order[:0]
}

// Names returns the set field names in insertion order.
func (p *Properties) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Len returns the number of set fields.
func (p *Properties) Len() int { return len(p.values) }

// Copy returns an independent copy.
func (p *Properties) Copy() *Properties {
	c := NewProperties()
	for _, name := range p.order {
		c.store(name, p.values[name])
	}
	return c
}

// Encode renders the set as "name:value" lines with escaped values,
// terminated by a blank line. The empty set encodes as the "---"
// sentinel so a decoder can tell it apart from a block boundary.
func (p *Properties) Encode() string {
	if len(p.order) == 0 {
		return "---\n\n"
	}
	lines := make([]string, 0, len(p.order))
	for _, name := range p.order {
		lines = append(lines, name+":"+escapeValue(renderValue(p.values[name])))
	}
	return strings.Join(lines, "\n") + "\n\n"
}

// ParseProperties decodes a property block produced by Encode.
// Comment lines starting with "#" are ignored. Blank lines are
// reserved as block separators, so one inside the block is a format
// error.
func ParseProperties(s string) (*Properties, error) {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			return nil, formatErrorf("blank line inside a property block")
		}
		lines = append(lines, line)
	}
	return parsePropertyLines(lines)
}

// parsePropertyLines decodes already-split, comment-free property
// lines. A single "---" line is the empty set.
func parsePropertyLines(lines []string) (*Properties, error) {
	p := NewProperties()
	if len(lines) == 1 && lines[0] == "---" {
		return p, nil
	}
	for _, line := range lines {
		if line == "---" {
			return nil, formatErrorf("unexpected property sentinel among %d lines", len(lines))
		}
		name, raw, ok := strings.Cut(line, ":")
		if !ok {
			return nil, formatErrorf("malformed property line %q", line)
		}
		value, err := unescapeValue(raw)
		if err != nil {
			return nil, err
		}
		field, fok := LookupField(name)
		if !fok {
			return nil, schemaViolationf("", "unknown property %q", name)
		}
		if _, set := p.Get(name); set {
			return nil, formatErrorf("property %q set more than once", name)
		}
		if field.Kind == FieldInt {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, formatErrorf("property %q requires an integer, got %q", name, value)
			}
			if err := p.Set(name, n); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.Set(name, value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Properties) store(name string, value any) {
	if _, ok := p.values[name]; !ok {
		p.order = append(p.order, name)
	}
	p.values[name] = value
}

func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// escapeValue makes a value single-line safe: backslash doubles and
// newline becomes the two characters `\n`.
func escapeValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// unescapeValue inverts escapeValue. Any escape other than `\\` and
// `\n`, or a trailing backslash, is a format error.
func unescapeValue(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", formatErrorf("trailing backslash in property value %q", s)
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		default:
			return "", formatErrorf("invalid escape \\%c in property value %q", s[i], s)
		}
	}
	return b.String(), nil
}
