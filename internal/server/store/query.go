package store

import (
	"reflect"
	"strings"
)

// Query selects and orders documents.
type Query struct {
	Where Predicate
	Sort  []Sort
}

// Sort orders by a top-level field. Missing values compare lowest, so they
// come last in a descending sort.
type Sort struct {
	Field string
	Desc  bool
}

func Asc(field string) Sort  { return Sort{Field: field} }
func Desc(field string) Sort { return Sort{Field: field, Desc: true} }

// Predicate is a filter over top-level document fields. Drivers translate
// the concrete types below; Eval is the reference semantics.
type Predicate interface {
	Eval(doc Document) bool
}

// Eq matches when Field equals Value exactly.
type Eq struct {
	Field string
	Value any
}

// Has matches when Field is an array containing Value as an element.
type Has struct {
	Field string
	Value any
}

// Substr matches when Field is a string containing Text, ignoring case.
type Substr struct {
	Field string
	Text  string
}

type And []Predicate
type Or []Predicate

func (p Eq) Eval(doc Document) bool {
	v, ok := doc[p.Field]
	return ok && equal(v, p.Value)
}

func (p Has) Eval(doc Document) bool {
	arr, ok := doc[p.Field].([]any)
	if !ok {
		return false
	}
	for _, v := range arr {
		if equal(v, p.Value) {
			return true
		}
	}
	return false
}

func (p Substr) Eval(doc Document) bool {
	s, ok := doc[p.Field].(string)
	return ok && strings.Contains(strings.ToLower(s), strings.ToLower(p.Text))
}

func (p And) Eval(doc Document) bool {
	for _, sub := range p {
		if sub != nil && !sub.Eval(doc) {
			return false
		}
	}
	return true
}

func (p Or) Eval(doc Document) bool {
	for _, sub := range p {
		if sub != nil && sub.Eval(doc) {
			return true
		}
	}
	return len(p) == 0
}

// Conjoin joins predicates with And, dropping nils.
func Conjoin(preds ...Predicate) Predicate {
	out := make(And, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Normalize maps Go values onto the JSON value space (string, float64,
// bool) so a Value written by a caller compares equal to what a driver
// reads back. Named string types such as models.Mood become plain strings.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

func equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	switch av := a.(type) {
	case string, float64, bool:
		return av == b
	case nil:
		return b == nil
	}
	return false
}

// compare orders two values of the JSON value space. Missing (nil) is
// lowest; values of different kinds order by kind.
func compare(a, b any) int {
	a, b = Normalize(a), Normalize(b)
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, b.(string))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case bool:
		return 3
	}
	return 4
}
