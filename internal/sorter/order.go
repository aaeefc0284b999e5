package sorter

import (
	"fmt"
	"strings"
)

// Order is a user-facing sort order.
type Order string

const (
	OrderAscending     Order = "ascending"
	OrderDescending    Order = "descending"
	OrderAlphabetical  Order = "alphabetical"
	OrderNumerical     Order = "numerical"
	OrderChronological Order = "chronological"
	OrderPriority      Order = "priority"
	OrderCustom        Order = "custom"
)

var orders = []Order{
	OrderAscending, OrderDescending, OrderAlphabetical, OrderNumerical,
	OrderChronological, OrderPriority, OrderCustom,
}

// Orders returns every supported sort order in display order.
func Orders() []Order {
	out := make([]Order, len(orders))
	copy(out, orders)
	return out
}

// ParseOrder converts a case-insensitive name into an Order.
func ParseOrder(s string) (Order, error) {
	o := Order(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range orders {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q: must be one of %v", s, orders)
}

func (o Order) String() string {
	return string(o)
}

// Direction is applied as a final comparator inversion.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

func (d Direction) String() string {
	if d == Desc {
		return "descending"
	}
	return "ascending"
}

// Resolve maps an order onto its strategy and default direction. Priority
// defaults to descending so high comes first; custom is a raw ascending
// sort on the caller's field. Names match case-insensitively.
func Resolve(o Order) (Strategy, Direction) {
	if parsed, err := ParseOrder(string(o)); err == nil {
		o = parsed
	}
	switch o {
	case OrderDescending:
		return Raw{}, Desc
	case OrderAlphabetical:
		return Alphabetical{}, Asc
	case OrderNumerical:
		return Numerical{}, Asc
	case OrderChronological:
		return Chronological{}, Asc
	case OrderPriority:
		return Priority{}, Desc
	default:
		return Raw{}, Asc
	}
}
