package silo

// pendingBuffer stages entities built during the current cycle. Two buffers alternate so
// a flush can fold one while new builds land in the other.
type pendingBuffer struct {
	buffers [2]groupedStore
	built   [2][]EGID
	current int

	// spare keeps the emptied collections of folded buffers so their capacity is reused.
	// They are not part of either index.
	spare map[spareKey]Collection
}

type spareKey struct {
	group GroupID
	key   uint32
}

func newPendingBuffer() pendingBuffer {
	return pendingBuffer{
		buffers: [2]groupedStore{newGroupedStore(), newGroupedStore()},
		spare:   make(map[spareKey]Collection),
	}
}

func (p *pendingBuffer) active() *groupedStore {
	return &p.buffers[p.current]
}

func (p *pendingBuffer) record(egid EGID) {
	p.built[p.current] = append(p.built[p.current], egid)
}

func (p *pendingBuffer) count() int {
	return len(p.built[p.current])
}

// swap makes the other buffer current and returns the one to fold.
func (p *pendingBuffer) swap() (*groupedStore, []EGID) {
	folded := p.current
	p.current = 1 - p.current
	return &p.buffers[folded], p.built[folded]
}

// unswap undoes swap when the fold has to be abandoned.
func (p *pendingBuffer) unswap() {
	p.current = 1 - p.current
}

// recycle returns the spare collection for group and key, or a new one from create.
func (p *pendingBuffer) recycle(group GroupID, key uint32, create func() Collection) Collection {
	k := spareKey{group: group, key: key}
	if c, ok := p.spare[k]; ok {
		delete(p.spare, k)
		return c
	}
	return create()
}

// clearInactive empties the buffer that is not current. Its groups leave the index and its
// collections go to the spare pool.
func (p *pendingBuffer) clearInactive() {
	inactive := 1 - p.current
	for id, g := range p.buffers[inactive].groups {
		for key, c := range g.collections {
			c.reset()
			k := spareKey{group: id, key: key}
			if kept, ok := p.spare[k]; ok && kept.Cap() >= c.Cap() {
				continue
			}
			p.spare[k] = c
		}
	}
	p.buffers[inactive] = newGroupedStore()
	p.built[inactive] = p.built[inactive][:0]
}
