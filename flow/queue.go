package flow

// addrQueue is a worklist of addresses. Each address is queued once.
type addrQueue struct {
	items []uint64
	seen  map[uint64]bool
}

func newQueue() *addrQueue {
	return &addrQueue{seen: make(map[uint64]bool)}
}

func (q *addrQueue) push(addr uint64) {
	if !q.seen[addr] {
		q.items = append(q.items, addr)
		q.seen[addr] = true
	}
}

func (q *addrQueue) pop() (uint64, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}
