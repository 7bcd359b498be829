package resp

import "github.com/google/btree"

const mapDegree = 8

type mapEntry struct {
	key   string
	value Frame
}

func lessEntry(a, b mapEntry) bool { return a.key < b.key }

// Map is a RESP3 map keyed by simple strings. Keys are kept in ascending
// byte order, which is also the order they are encoded in, so equal maps
// always have identical wire forms.
//
// The zero value is an empty map ready to use. A nil *Map encodes as an
// empty map.
type Map struct {
	tree *btree.BTreeG[mapEntry]
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{tree: btree.NewG(mapDegree, lessEntry)}
}

// Kind implements Frame.
func (*Map) Kind() Kind { return KindMap }

func (*Map) frame() {}

// Set stores v under key, replacing any previous value.
func (m *Map) Set(key string, v Frame) {
	if m.tree == nil {
		m.tree = btree.NewG(mapDegree, lessEntry)
	}
	m.tree.ReplaceOrInsert(mapEntry{key: key, value: v})
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Frame, bool) {
	if m == nil || m.tree == nil {
		return nil, false
	}
	e, ok := m.tree.Get(mapEntry{key: key})
	return e.value, ok
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil || m.tree == nil {
		return false
	}
	_, ok := m.tree.Delete(mapEntry{key: key})
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil || m.tree == nil {
		return 0
	}
	return m.tree.Len()
}

// Range calls fn for each entry in ascending key order until fn returns false.
func (m *Map) Range(fn func(key string, v Frame) bool) {
	if m == nil || m.tree == nil {
		return
	}
	m.tree.Ascend(func(e mapEntry) bool {
		return fn(e.key, e.value)
	})
}

// Keys returns the keys in ascending order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(k string, _ Frame) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// AppendTo implements Frame. Keys are written as simple strings.
func (m *Map) AppendTo(dst []byte) []byte {
	dst = appendHeader(dst, markerMap, m.Len())
	m.Range(func(k string, v Frame) bool {
		dst = SimpleString(k).AppendTo(dst)
		dst = appendFrame(dst, v)
		return true
	})
	return dst
}
