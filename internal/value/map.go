package value

// Entry is a key-value pair inside a Map.
type Entry struct {
	Key   string
	Value Value
}

// E is a shorthand for Entry for ergonomic construction.
// Example: NewMap(E("name", NewString("cart")), E("count", NumberFromInt(5)))
func E(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// Map is an ordered string-keyed map. Keys are unique; iteration follows
// insertion order. The zero value is not usable, construct with NewMap.
type Map struct {
	entries []Entry
	index   map[string]int
}

func (*Map) value() {}

// NewMap creates a Map from entries. Duplicate keys follow Set semantics:
// the later value wins and the first position is kept.
func NewMap(entries ...Entry) *Map {
	m := &Map{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set inserts or replaces the value for key. Set is intended for builders;
// maps handed to the sorter and renderers are treated as immutable.
func (m *Map) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries. A nil Map has length 0.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	if m == nil {
		return keys
	}
	for _, e := range m.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return []Entry{}
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// At returns the i-th entry.
func (m *Map) At(i int) Entry {
	return m.entries[i]
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return NewMap()
	}
	out := &Map{
		entries: make([]Entry, len(m.entries)),
		index:   make(map[string]int, len(m.entries)),
	}
	for i, e := range m.entries {
		out.entries[i] = Entry{Key: e.Key, Value: Clone(e.Value)}
		out.index[e.Key] = i
	}
	return out
}

// Clone returns a deep copy of v. Scalars are returned as-is.
func Clone(v Value) Value {
	switch val := v.(type) {
	case List:
		out := make(List, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case *Map:
		return val.Clone()
	case nil:
		return Null{}
	default:
		return val
	}
}
