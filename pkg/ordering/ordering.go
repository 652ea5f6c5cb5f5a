// Package ordering provides a fail-soft comparator for ordering domain
// objects by a single comparable attribute. The attribute is picked by a
// typed selector function supplied at construction; when either operand
// does not expose the attribute the comparator reports the pair as equal
// rather than failing, so sorts over mixed collections never panic.
package ordering

import (
	"fmt"
	"time"
)

// Selector extracts the comparison attribute from a value. The second
// return is false when the value does not expose the attribute.
type Selector func(v interface{}) (interface{}, bool)

// Comparator orders two values by the attribute its selector extracts
type Comparator struct {
	selector Selector
}

// NewComparator creates a comparator over the given attribute selector
func NewComparator(selector Selector) *Comparator {
	return &Comparator{selector: selector}
}

// Ascending returns -1, 0 or 1 ordering a before b by the configured
// attribute. Pairs where either side lacks the attribute compare as equal.
func (c *Comparator) Ascending(a, b interface{}) int {
	av, ok := c.selector(a)
	if !ok {
		return 0
	}
	bv, ok := c.selector(b)
	if !ok {
		return 0
	}
	return compareValues(av, bv)
}

// Descending is the exact negation of Ascending
func (c *Comparator) Descending(a, b interface{}) int {
	return -c.Ascending(a, b)
}

// compareValues orders two attribute values by the natural ordering of
// their type: chronological for times, numeric for numbers, lexical for
// strings, with a lexical fallback for everything else.
func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			if av.Before(bv) {
				return -1
			}
			if av.After(bv) {
				return 1
			}
			return 0
		}
	case int:
		if bv, ok := b.(int); ok {
			return compareInt64(int64(av), int64(bv))
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return compareInt64(av, bv)
		}
	case uint:
		if bv, ok := b.(uint); ok {
			return compareUint64(uint64(av), uint64(bv))
		}
	case uint64:
		if bv, ok := b.(uint64); ok {
			return compareUint64(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			if av < bv {
				return -1
			}
			if av > bv {
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			return compareString(av, bv)
		}
	}
	return compareString(fmt.Sprint(a), fmt.Sprint(b))
}

func compareInt64(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareUint64(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareString(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// ByCreatedAt selects the creation time from values exposing GetCreatedAt
func ByCreatedAt() Selector {
	return func(v interface{}) (interface{}, bool) {
		if c, ok := v.(interface{ GetCreatedAt() time.Time }); ok {
			return c.GetCreatedAt(), true
		}
		return nil, false
	}
}

// ByID selects the numeric identifier from values exposing GetID
func ByID() Selector {
	return func(v interface{}) (interface{}, bool) {
		if c, ok := v.(interface{ GetID() uint }); ok {
			return c.GetID(), true
		}
		return nil, false
	}
}
