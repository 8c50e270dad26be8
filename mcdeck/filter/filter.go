// Package filter implements the boolean filter expression language
// used to query the card database: statements of the form
// "field OP value" combined with "&" and "|" and grouped with
// parentheses.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudberries/mcdeck/mcdeck/octgn"
)

// AmbiguousFieldError reports a field reference whose substring match
// hits more than one schema field with no exact-name tiebreak.
type AmbiguousFieldError struct {
	Field   string
	Matches int
}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf("too many matching keys (%d matches with %s)", e.Matches, e.Field)
}

// Entry is one card set in the collection a filter runs over.
type Entry struct {
	Set   *octgn.CardSetData
	Cards []*octgn.CardData
}

// Operators in tiebreak order. The statement operator is the one whose
// first occurrence comes earliest; on a position tie the earlier table
// entry wins, so "<=" beats "<" and "!:" beats ":".
var operators = []string{":", "=", "!:", "!=", "<=", ">=", "<", ">", "#", "$"}

// Apply evaluates a filter expression over a collection and returns
// the matching subset. Set order and card order within each set
// follow the input. "|" binds looser than "&"; both evaluate per set,
// as union and intersection of the matched card IDs.
func Apply(entries []Entry, expression string) ([]Entry, error) {
	expression = strings.TrimSpace(expression)

	orParts, err := splitTop(expression, '|')
	if err != nil {
		return nil, err
	}
	if len(orParts) > 1 {
		include := make(map[string]map[string]bool)
		for _, part := range orParts {
			sub, err := Apply(entries, part)
			if err != nil {
				return nil, err
			}
			for _, e := range sub {
				m := include[e.Set.SetID()]
				if m == nil {
					m = make(map[string]bool)
					include[e.Set.SetID()] = m
				}
				for _, c := range e.Cards {
					m[c.ImageID()] = true
				}
			}
		}
		return selectCards(entries, include), nil
	}

	andParts, err := splitTop(orParts[0], '&')
	if err != nil {
		return nil, err
	}
	if len(andParts) > 1 {
		include := make(map[string]map[string]bool)
		for _, e := range entries {
			m := make(map[string]bool)
			for _, c := range e.Cards {
				m[c.ImageID()] = true
			}
			include[e.Set.SetID()] = m
		}
		for _, part := range andParts {
			sub, err := Apply(entries, part)
			if err != nil {
				return nil, err
			}
			matched := make(map[string]map[string]bool)
			for _, e := range sub {
				m := make(map[string]bool)
				for _, c := range e.Cards {
					m[c.ImageID()] = true
				}
				matched[e.Set.SetID()] = m
			}
			for setID, m := range include {
				sm := matched[setID]
				if sm == nil {
					delete(include, setID)
					continue
				}
				for id := range m {
					if !sm[id] {
						delete(m, id)
					}
				}
			}
		}
		return selectCards(entries, include), nil
	}

	expr := andParts[0]
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return Apply(entries, expr[1:len(expr)-1])
	}
	return applyStatement(entries, expr)
}

// splitTop splits on sep at parenthesis depth zero. A separator with
// nothing on one side is an error.
func splitTop(expr string, sep byte) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(expr[start:i]))
				start = i + 1
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf(`too many ")" parentheses`)
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf(`mismatched number of "(" and ")" parentheses`)
	}
	parts = append(parts, strings.TrimSpace(expr[start:]))
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("cannot combine with an empty statement")
		}
	}
	return parts, nil
}

func applyStatement(entries []Entry, expr string) ([]Entry, error) {
	pos, op := findOperator(expr)
	if pos < 0 {
		return nil, fmt.Errorf("expression has no operator: %s", expr)
	}
	key := strings.TrimSpace(expr[:pos])
	criteria := strings.TrimSpace(expr[pos+len(op):])
	if key == "" {
		return nil, fmt.Errorf("no key: %s", expr)
	}
	unary := op == "#" || op == "$"
	if criteria == "" && !unary {
		return nil, fmt.Errorf("operator requires an argument: %s", op)
	}
	if criteria != "" && unary {
		return nil, fmt.Errorf("operator takes no argument: %s", op)
	}
	field, err := resolveField(key)
	if err != nil {
		return nil, err
	}
	criteria = strings.ToLower(criteria)

	include := make(map[string]map[string]bool)
	for _, e := range entries {
		for _, card := range e.Cards {
			if !matchCard(card, field, op, criteria) {
				continue
			}
			m := include[e.Set.SetID()]
			if m == nil {
				m = make(map[string]bool)
				include[e.Set.SetID()] = m
			}
			m[card.ImageID()] = true
		}
	}
	return selectCards(entries, include), nil
}

// findOperator locates the statement operator: earliest first
// occurrence, ties broken by table order.
func findOperator(expr string) (int, string) {
	best, bestOp := -1, ""
	for _, op := range operators {
		pos := strings.Index(expr, op)
		if pos < 0 {
			continue
		}
		if best < 0 || pos < best {
			best, bestOp = pos, op
		}
	}
	return best, bestOp
}

// resolveField maps a field reference to a schema field by
// case-insensitive substring, with a case-insensitive exact name
// match as tiebreak.
func resolveField(key string) (octgn.Field, error) {
	lower := strings.ToLower(key)
	var matches []string
	for _, name := range octgn.FieldNames() {
		if strings.Contains(strings.ToLower(name), lower) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return octgn.Field{}, fmt.Errorf("no matching keys")
	}
	if len(matches) > 1 {
		var exact []string
		for _, name := range matches {
			if strings.EqualFold(name, key) {
				exact = append(exact, name)
			}
		}
		if len(exact) != 1 {
			return octgn.Field{}, &AmbiguousFieldError{Field: key, Matches: len(matches)}
		}
		matches = exact
	}
	field, _ := octgn.LookupField(matches[0])
	return field, nil
}

func matchCard(card *octgn.CardData, field octgn.Field, op, criteria string) bool {
	props := card.Properties()
	_, present := props.Get(field.Name)
	switch op {
	case "#":
		return present
	case "$":
		return !present
	}
	if !present {
		return false
	}
	value := strings.ToLower(props.GetString(field.Name))

	switch op {
	case ":":
		return strings.Contains(value, criteria)
	case "!:":
		return !strings.Contains(value, criteria)
	case "=", "!=":
		if field.Kind == octgn.FieldInt {
			cn, err := strconv.Atoi(criteria)
			if err != nil {
				return false
			}
			vn, err := strconv.Atoi(value)
			if err != nil {
				return false
			}
			return (cn == vn) == (op == "=")
		}
		return (criteria == value) == (op == "=")
	case "<=", "<", ">", ">=":
		cn, err := strconv.Atoi(criteria)
		if err != nil {
			return false
		}
		vn, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		switch op {
		case "<=":
			return vn <= cn
		case "<":
			return vn < cn
		case ">":
			return vn > cn
		default:
			return vn >= cn
		}
	}
	return false
}

// selectCards projects an include map back onto the input collection,
// preserving order and dropping sets with no included cards.
func selectCards(entries []Entry, include map[string]map[string]bool) []Entry {
	var result []Entry
	for _, e := range entries {
		m := include[e.Set.SetID()]
		if len(m) == 0 {
			continue
		}
		var cards []*octgn.CardData
		for _, c := range e.Cards {
			if m[c.ImageID()] {
				cards = append(cards, c)
			}
		}
		if len(cards) > 0 {
			result = append(result, Entry{Set: e.Set, Cards: cards})
		}
	}
	return result
}
