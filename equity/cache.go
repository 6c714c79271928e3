package equity

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/game"
)

const cacheEntrySize = 16

// Keep the table between these sizes regardless of the memory fraction.
const (
	minCachePowerOf2 = 12
	maxCachePowerOf2 = 24
)

type cacheEntry struct {
	hash  uint64
	value float64
}

// CachedCalculator memoizes another calculator by position. A position is
// the board's occupancy plus the recorded cleared-line count, so it must
// only wrap calculators that depend on nothing else. Colliding entries
// simply overwrite each other.
type CachedCalculator struct {
	sync.RWMutex
	inner    EquityCalculator
	table    []cacheEntry
	sizeMask uint64

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// NewCachedCalculator sizes the table to about fractionOfMemory of the
// machine's total memory, rounded down to a power of two.
func NewCachedCalculator(inner EquityCalculator, fractionOfMemory float64) *CachedCalculator {
	totalMem := memory.TotalMemory()
	desired := fractionOfMemory * float64(totalMem) / cacheEntrySize
	pow := minCachePowerOf2
	if desired > 1 {
		pow = int(math.Log2(desired))
	}
	pow = min(max(pow, minCachePowerOf2), maxCachePowerOf2)
	log.Debug().Uint64("total-mem", totalMem).Int("size-power-of-2", pow).
		Msg("created-equity-cache")
	return &CachedCalculator{
		inner:    inner,
		table:    make([]cacheEntry, 1<<pow),
		sizeMask: (1 << pow) - 1,
	}
}

// positionHash hashes occupancy as one bit per cell, followed by the
// recorded cleared-line count.
func positionHash(g *game.Game) uint64 {
	b := g.Board()
	cells := b.Cells()
	buf := make([]byte, (len(cells)+7)/8+binary.MaxVarintLen64)
	for i, c := range cells {
		if c != 0 {
			buf[i/8] |= 1 << (i % 8)
		}
	}
	n := (len(cells) + 7) / 8
	n += binary.PutUvarint(buf[n:], uint64(b.LinesCleared()))
	return xxhash.Sum64(buf[:n])
}

func (c *CachedCalculator) Equity(g *game.Game) float64 {
	h := positionHash(g)
	idx := h & c.sizeMask
	c.lookups.Add(1)
	c.RLock()
	e := c.table[idx]
	c.RUnlock()
	// hash 0 is indistinguishable from an empty slot; just recompute.
	if e.hash == h && h != 0 {
		c.hits.Add(1)
		return e.value
	}
	v := c.inner.Equity(g)
	c.Lock()
	c.table[idx] = cacheEntry{hash: h, value: v}
	c.Unlock()
	return v
}

func (c *CachedCalculator) Type() string {
	return "CachedCalculator(" + c.inner.Type() + ")"
}

// Stats returns the number of lookups and hits so far.
func (c *CachedCalculator) Stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}
