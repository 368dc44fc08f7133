package ids

import "sync/atomic"

// EntryID identifies a tracked path inside a registry. IDs are handed out by a
// Generator and never reused, even after the entry they named is removed.
type EntryID uint64

type Generator struct {
	entryCounter uint64
}

func NewGenerator() *Generator {
	return &Generator{
		entryCounter: 0,
	}
}

func (g *Generator) NextEntry() EntryID {
	return EntryID(atomic.AddUint64(&g.entryCounter, 1))
}

// Observe raises the counter so that the next id is strictly greater than id.
func (g *Generator) Observe(id EntryID) {
	for {
		cur := atomic.LoadUint64(&g.entryCounter)
		if uint64(id) <= cur {
			return
		}
		if atomic.CompareAndSwapUint64(&g.entryCounter, cur, uint64(id)) {
			return
		}
	}
}

type GeneratorSnapshot struct {
	EntryCounter uint64
}

func (g *Generator) Snapshot() GeneratorSnapshot {
	return GeneratorSnapshot{
		EntryCounter: atomic.LoadUint64(&g.entryCounter),
	}
}

func (g *Generator) Restore(snap GeneratorSnapshot) {
	atomic.StoreUint64(&g.entryCounter, snap.EntryCounter)
}
