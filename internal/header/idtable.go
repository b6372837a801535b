package header

import "sort"

// IdTable allocates and recycles handle_id values. It hands out the
// smallest unused uint64: ids freed by Release become the next ones
// Alloc hands out.
type IdTable struct {
	Next uint64   // smallest id never yet allocated
	Free []uint64 // recycled ids, kept sorted ascending
}

// NewIdTable returns an empty table.
func NewIdTable() *IdTable {
	return &IdTable{}
}

// Alloc returns an unused id: the smallest recycled id if any exist,
// otherwise the next never-used id.
func (t *IdTable) Alloc() uint64 {
	if len(t.Free) > 0 {
		id := t.Free[0]
		t.Free = t.Free[1:]
		return id
	}
	id := t.Next
	t.Next++
	return id
}

// Release returns id to the free list so a future Alloc can reuse it.
func (t *IdTable) Release(id uint64) {
	i := sort.Search(len(t.Free), func(i int) bool { return t.Free[i] >= id })
	t.Free = append(t.Free, 0)
	copy(t.Free[i+1:], t.Free[i:])
	t.Free[i] = id
}

// Clone returns a deep copy, for snapshotting before a commit attempt.
func (t *IdTable) Clone() *IdTable {
	free := make([]uint64, len(t.Free))
	copy(free, t.Free)
	return &IdTable{Next: t.Next, Free: free}
}
