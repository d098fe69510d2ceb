// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"go.uber.org/zap"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/logutil"
)

// rehasher owns the slot storage that Core plans for.
type rehasher interface {
	capacity() int
	rehash(newCapacity int)
}

// Stats counts the rehashes a table went through.
type Stats struct {
	// Grows is the number of rehashes caused by size exceeding maxSize.
	Grows uint64
	// Reclaims is the number of same capacity rehashes run to drop tombstones.
	Reclaims uint64
	// Ensures is the number of rehashes run by EnsureCapacity.
	Ensures uint64
	// Compactions counts both explicit and automatic compactions.
	Compactions uint64
}

// Core decides when a table rehashes and to what capacity. It never touches
// slots itself.
type Core struct {
	size    int
	free    int
	maxSize int

	loadFactor           float32
	autoCompactionFactor float32

	autoCompactRemovesRemaining int
	// nesting depth of TempDisableAutoCompaction
	autoCompactTemporaryDisable int

	table rehasher
	stats Stats
}

func (c *Core) init(table rehasher, o Options) int {
	c.table = table
	c.size = 0
	c.loadFactor = o.LoadFactor
	c.autoCompactionFactor = o.AutoCompactionFactor
	return fastCeil(float64(o.InitialCapacity) / float64(c.loadFactor))
}

// setUp picks the capacity for initialCapacity slots and resets the
// derived counters. The caller allocates storage of the returned size.
func (c *Core) setUp(initialCapacity int) int {
	capacity := c.primeFor(initialCapacity)
	c.computeMaxSize(capacity)
	c.computeNextAutoCompactionAmount(initialCapacity)
	return capacity
}

// primeFor is NextPrime that pins the load factor at the largest size.
func (c *Core) primeFor(n int) int {
	capacity, err := NextPrime(n)
	if err != nil {
		logutil.Warn("hash table capacity exhausted", zap.Int("requested", n), zap.Int("capacity", capacity))
	}
	if capacity >= LargestPrime() {
		c.loadFactor = 1
	}
	return capacity
}

func (c *Core) computeMaxSize(capacity int) {
	c.maxSize = capacity - 1
	if n := int(float32(capacity) * c.loadFactor); n < c.maxSize {
		c.maxSize = n
	}
	c.free = capacity - c.size
}

func (c *Core) computeNextAutoCompactionAmount(size int) {
	if c.autoCompactionFactor != 0 {
		c.autoCompactRemovesRemaining = int(float32(size)*c.autoCompactionFactor + 0.5)
	}
}

func (c *Core) Len() int {
	return c.size
}

func (c *Core) IsEmpty() bool {
	return c.size == 0
}

// Capacity is the physical number of slots.
func (c *Core) Capacity() int {
	return c.table.capacity()
}

func (c *Core) LoadFactor() float32 {
	return c.loadFactor
}

func (c *Core) AutoCompactionFactor() float32 {
	return c.autoCompactionFactor
}

func (c *Core) Stats() Stats {
	return c.stats
}

// EnsureCapacity makes room for extra more elements without a further rehash.
// A request no capacity can hold fails with the table untouched.
func (c *Core) EnsureCapacity(extra int) error {
	if extra < 0 {
		return moerr.NewInvalidArgNoCtx("extra capacity", extra)
	}
	if extra <= c.maxSize-c.size {
		return nil
	}
	if extra > LargestPrime()-1-c.size {
		return moerr.NewCapacityExhaustedNoCtx("no room for %d more elements beside %d", extra, c.size)
	}
	newCapacity := c.primeFor(maxInt(c.size+1, fastCeil(float64(extra+c.size)/float64(c.loadFactor)+1)))
	c.doRehash(newCapacity, "ensure")
	c.stats.Ensures++
	c.computeMaxSize(c.table.capacity())
	return nil
}

// Compact shrinks the table to the smallest capacity that holds the current
// size at the load factor.
func (c *Core) Compact() {
	newCapacity := c.primeFor(maxInt(c.size+1, fastCeil(float64(c.size)/float64(c.loadFactor)+1)))
	c.doRehash(newCapacity, "compact")
	c.stats.Compactions++
	c.computeMaxSize(c.table.capacity())
	if c.autoCompactionFactor != 0 {
		c.computeNextAutoCompactionAmount(c.size)
	}
}

func (c *Core) TrimToSize() {
	c.Compact()
}

// SetAutoCompactionFactor sets the removals between automatic compactions,
// relative to size. Zero disables automatic compaction.
func (c *Core) SetAutoCompactionFactor(f float32) error {
	if !validCompactionFactor(f) {
		return moerr.NewInvalidArgNoCtx("auto compaction factor", f)
	}
	c.autoCompactionFactor = f
	return nil
}

// TempDisableAutoCompaction suspends automatic compaction until the matching
// ReenableAutoCompaction. Calls nest.
func (c *Core) TempDisableAutoCompaction() {
	c.autoCompactTemporaryDisable++
}

// ReenableAutoCompaction ends one TempDisableAutoCompaction. When the last
// suspension ends and checkForCompaction is set, a compaction that became
// due meanwhile runs now.
func (c *Core) ReenableAutoCompaction(checkForCompaction bool) {
	if c.autoCompactTemporaryDisable > 0 {
		c.autoCompactTemporaryDisable--
	}
	if c.autoCompactTemporaryDisable > 0 {
		return
	}
	if checkForCompaction && c.autoCompactRemovesRemaining <= 0 && c.autoCompactionFactor != 0 {
		c.Compact()
	}
}

// checkInsert panics when a new element cannot be placed at all.
func (c *Core) checkInsert() {
	capacity := c.table.capacity()
	if capacity >= LargestPrime() && c.size >= c.maxSize {
		panic(moerr.NewCapacityExhaustedNoCtx("table of %d slots holds %d elements", capacity, c.size))
	}
}

func (c *Core) postInsertHook(usedFreeSlot bool) {
	if usedFreeSlot {
		c.free--
	}
	c.size++

	if c.size > c.maxSize || c.free == 0 {
		capacity := c.table.capacity()
		if c.size > c.maxSize {
			c.doRehash(c.primeFor(capacity<<1), "grow")
			c.stats.Grows++
		} else {
			c.doRehash(capacity, "reclaim")
			c.stats.Reclaims++
		}
		c.computeMaxSize(c.table.capacity())
	}
}

func (c *Core) postRemoveHook() {
	c.size--
	if c.autoCompactionFactor != 0 {
		c.autoCompactRemovesRemaining--
		if c.autoCompactTemporaryDisable == 0 && c.autoCompactRemovesRemaining <= 0 {
			c.Compact()
		}
	}
}

// resetCounters is clear for the core: the storage keeps its capacity.
func (c *Core) resetCounters() {
	c.size = 0
	c.free = c.table.capacity()
}

func (c *Core) doRehash(newCapacity int, reason string) {
	if logutil.DebugEnabled() {
		logutil.Debug("hash table rehash",
			zap.String("reason", reason),
			zap.Int("from", c.table.capacity()),
			zap.Int("to", newCapacity),
			zap.Int("size", c.size))
	}
	c.table.rehash(newCapacity)
}

// fastCeil is ceil(v) saturated at the largest capacity.
func fastCeil(v float64) int {
	if v >= float64(LargestPrime()) {
		return LargestPrime()
	}
	possible := int(v)
	if v-float64(possible) > 0 {
		possible++
	}
	return possible
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
