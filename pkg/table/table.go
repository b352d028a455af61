package table

// TableSize is the number of slots in the marker array. Prefix hashes are
// 16 bits wide, so every hash value has its own slot.
const TableSize = 1 << 16

const (
	none = iota
	// prefixMarker: some stored key has a prefix hashing here.
	prefixMarker
	// keyMarker: some stored key hashes here in full.
	keyMarker
)

// PrefixTable stores values under short byte keys and answers the question
// "which stored keys are prefixes of this input?" without touching the map
// for inputs that cannot match.
//
// Each prefix of every inserted key marks its rolling hash in a fixed
// 64K-slot array. A walk over an input stops at the first prefix whose slot
// is empty; only slots marked as full keys are confirmed against the map, so
// hash collisions never produce false matches.
type PrefixTable[T any] struct {
	marks [TableSize]byte
	elems map[string]T
}

// New returns an empty table.
func New[T any]() *PrefixTable[T] {
	return &PrefixTable[T]{
		elems: make(map[string]T),
	}
}

func next(h uint16, b byte) uint16 {
	return (h << 2) + uint16(b)
}

// Insert stores v under key, replacing any previous value. Empty keys are ignored.
func (t *PrefixTable[T]) Insert(key []byte, v T) {
	if len(key) == 0 {
		return
	}

	var h uint16
	for _, b := range key {
		h = next(h, b)
		t.marks[h] = max(t.marks[h], prefixMarker)
	}
	t.marks[h] = keyMarker
	t.elems[string(key)] = v
}

// Get returns the value stored under key.
func (t *PrefixTable[T]) Get(key []byte) (T, bool) {
	v, found := t.elems[string(key)]
	return v, found
}

// Walk calls fn for every stored key that is a prefix of input, shortest
// first. Returning true from fn stops the walk.
func (t *PrefixTable[T]) Walk(input []byte, fn func(key []byte, v T) bool) {
	if len(t.elems) == 0 {
		return
	}

	var h uint16
	for i, b := range input {
		h = next(h, b)

		switch t.marks[h] {
		case none:
			return
		case keyMarker:
			key := input[:i+1]
			if v, ok := t.elems[string(key)]; ok && fn(key, v) {
				return
			}
		}
	}
}

// Size returns the number of stored keys.
func (t *PrefixTable[T]) Size() int {
	return len(t.elems)
}
