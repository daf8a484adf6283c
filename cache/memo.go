package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/shanten"
	"github.com/domino14/tenpai/tilemapping"
)

// entrySize is a rough size of one entry with its map overhead.
const entrySize = 64

// MinCapacity is the smallest number of entries a Memo is sized to.
const MinCapacity = 1 << 10

type entry struct {
	hand    [tilemapping.NumKinds]uint8
	shanten int8
	// useful is only valid if hasUseful is set; Shanten alone does not
	// compute it.
	hasUseful bool
	useful    tilemapping.KindSet
}

// Memo remembers the results of a shanten strategy. It has the same three
// calls as the strategy and is safe for concurrent use. When it is full it
// starts over empty.
type Memo struct {
	sync.Mutex
	w        shanten.Waiting
	prefix   []byte
	capacity int
	entries  map[uint64]entry

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// Memoize wraps w in a memo holding at most capacity entries.
func Memoize(w shanten.Waiting, capacity int) *Memo {
	return &Memo{
		w:        w,
		prefix:   []byte(fmt.Sprintf("%T/%v/", w, w.Pattern())),
		capacity: max(capacity, MinCapacity),
		entries:  make(map[uint64]entry),
	}
}

// Sized returns a capacity that takes up about the given fraction of system
// memory.
func Sized(fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	capacity := int(fractionOfMemory * float64(totalMem) / entrySize)
	log.Debug().Int("capacity", capacity).Uint64("total-system-memory-bytes", totalMem).
		Msg("memo-size")
	return max(capacity, MinCapacity)
}

func (m *Memo) Pattern() pattern.WinPattern { return m.w.Pattern() }

func (m *Memo) key(hand tilemapping.TileSet) (uint64, [tilemapping.NumKinds]uint8) {
	var packed [tilemapping.NumKinds]uint8
	buf := make([]byte, len(m.prefix), len(m.prefix)+tilemapping.NumKinds)
	copy(buf, m.prefix)
	for i, c := range hand {
		packed[i] = uint8(c)
	}
	buf = append(buf, packed[:]...)
	return xxhash.Sum64(buf), packed
}

func (m *Memo) lookup(hand tilemapping.TileSet, needUseful bool) (entry, uint64, [tilemapping.NumKinds]uint8, bool) {
	h, packed := m.key(hand)
	m.lookups.Add(1)
	m.Lock()
	e, ok := m.entries[h]
	m.Unlock()
	if !ok || e.hand != packed || (needUseful && !e.hasUseful) {
		return entry{}, h, packed, false
	}
	m.hits.Add(1)
	return e, h, packed, true
}

func (m *Memo) store(h uint64, e entry) {
	m.Lock()
	defer m.Unlock()
	if len(m.entries) >= m.capacity {
		log.Debug().Int("entries", len(m.entries)).Msg("memo-full-clearing")
		clear(m.entries)
	}
	m.entries[h] = e
}

func (m *Memo) Shanten(hand tilemapping.TileSet) (int, error) {
	if !hand.ValidHand() {
		return m.w.Shanten(hand)
	}
	e, h, packed, ok := m.lookup(hand, false)
	if ok {
		return int(e.shanten), nil
	}
	s, err := m.w.Shanten(hand)
	if err != nil {
		return 0, err
	}
	m.store(h, entry{hand: packed, shanten: int8(s)})
	return s, nil
}

func (m *Memo) UsefulTiles(hand tilemapping.TileSet) (tilemapping.KindSet, error) {
	_, useful, err := m.ShantenAndUsefulTiles(hand)
	return useful, err
}

func (m *Memo) ShantenAndUsefulTiles(hand tilemapping.TileSet) (int, tilemapping.KindSet, error) {
	if !hand.ValidHand() {
		return m.w.ShantenAndUsefulTiles(hand)
	}
	e, h, packed, ok := m.lookup(hand, true)
	if ok {
		return int(e.shanten), e.useful, nil
	}
	s, useful, err := m.w.ShantenAndUsefulTiles(hand)
	if err != nil {
		return 0, 0, err
	}
	m.store(h, entry{hand: packed, shanten: int8(s), hasUseful: true, useful: useful})
	return s, useful, nil
}

// Stats returns the number of lookups and hits so far.
func (m *Memo) Stats() (lookups, hits uint64) {
	return m.lookups.Load(), m.hits.Load()
}

func (m *Memo) Len() int {
	m.Lock()
	defer m.Unlock()
	return len(m.entries)
}

// Reset empties the memo and its counters.
func (m *Memo) Reset() {
	m.Lock()
	clear(m.entries)
	m.Unlock()
	m.lookups.Store(0)
	m.hits.Store(0)
}
