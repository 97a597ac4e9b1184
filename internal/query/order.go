// Package query turns client-supplied ordering and paging parameters into
// validated directives and applies them to record sequences.
package query

import (
	"fmt"
	"strings"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// OrderKey is one "field direction" clause of an order string.
type OrderKey struct {
	Field     string
	Direction Direction
}

// Directive is an ordered list of keys; later keys break ties of earlier ones.
type Directive []OrderKey

func (d Directive) Empty() bool { return len(d) == 0 }

// Names reports whether any key targets field (case-insensitive).
func (d Directive) Names(field string) bool {
	for _, k := range d {
		if strings.EqualFold(k.Field, field) {
			return true
		}
	}
	return false
}

func (d Directive) String() string {
	parts := make([]string, 0, len(d))
	for _, k := range d {
		parts = append(parts, k.Field+" "+k.Direction.String())
	}
	return strings.Join(parts, ", ")
}

const expectedClauseShape = "property asc|desc"

// BadFormatError reports an order clause that does not match "property asc|desc".
type BadFormatError struct {
	Clause string
}

func (e BadFormatError) Error() string {
	return fmt.Sprintf("invalid order clause %q, expected %q", e.Clause, expectedClauseShape)
}

// ParseOrder parses "title asc, price desc". A missing direction means ascending.
// Blank input yields an empty directive. Field names are not checked here.
func ParseOrder(raw string) (Directive, error) {
	if strings.TrimSpace(raw) == "" {
		return Directive{}, nil
	}

	clauses := strings.Split(raw, ",")
	out := make(Directive, 0, len(clauses))
	for _, clause := range clauses {
		tokens := strings.Fields(clause)
		switch len(tokens) {
		case 1:
			out = append(out, OrderKey{Field: tokens[0], Direction: Ascending})
		case 2:
			dir, ok := parseDirection(tokens[1])
			if !ok {
				return nil, BadFormatError{Clause: strings.TrimSpace(clause)}
			}
			out = append(out, OrderKey{Field: tokens[0], Direction: dir})
		default:
			// empty clause ("a,,b") or more than two tokens
			return nil, BadFormatError{Clause: strings.TrimSpace(clause)}
		}
	}
	return out, nil
}

func parseDirection(tok string) (Direction, bool) {
	switch strings.ToLower(tok) {
	case "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	}
	return Ascending, false
}
