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
	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

type slotState uint8

const (
	slotFree slotState = iota
	slotFull
	slotRemoved
)

// probeTable is the key side of every container. Probing is double hashing
// on a prime sized array: start at h % n and step back by 1 + h % (n-2),
// which visits every slot before returning to the start.
type probeTable[E Element] struct {
	Core

	keys   []E
	states []slotState

	noEntryKey E
	// the key equal to noEntryKey was stored as a boxed null
	nullKey bool

	// bumped on every structural change
	modCount uint64
}

func (pt *probeTable[E]) capacity() int {
	return len(pt.states)
}

func (pt *probeTable[E]) allocate(capacity int) {
	pt.keys = make([]E, capacity)
	pt.states = make([]slotState, capacity)
}

func (pt *probeTable[E]) index(key E) int {
	n := len(pt.states)
	h := hashElement(key)
	idx := int(h % uint64(n))
	state := pt.states[idx]
	if state == slotFree {
		return -1
	}
	if state == slotFull && sameElement(pt.keys[idx], key) {
		return idx
	}

	step := 1 + int(h%uint64(n-2))
	loopIndex := idx
	for {
		idx -= step
		if idx < 0 {
			idx += n
		}
		state = pt.states[idx]
		if state == slotFree {
			return -1
		}
		if state == slotFull && sameElement(pt.keys[idx], key) {
			return idx
		}
		if idx == loopIndex {
			return -1
		}
	}
}

// insertKey finds the slot for key and claims it if the key is new. The
// first tombstone on the probe path is preferred over a free slot. Callers
// write the value, if any, and then call postInsertHook(usedFree).
func (pt *probeTable[E]) insertKey(key E) (idx int, existed bool, usedFree bool) {
	n := len(pt.states)
	h := hashElement(key)
	idx = int(h % uint64(n))
	state := pt.states[idx]
	if state == slotFree {
		pt.claim(idx, key)
		return idx, false, true
	}
	if state == slotFull && sameElement(pt.keys[idx], key) {
		return idx, true, false
	}

	firstRemoved := -1
	if state == slotRemoved {
		firstRemoved = idx
	}
	step := 1 + int(h%uint64(n-2))
	loopIndex := idx
	for {
		idx -= step
		if idx < 0 {
			idx += n
		}
		state = pt.states[idx]
		if state == slotFree {
			if firstRemoved != -1 {
				pt.claim(firstRemoved, key)
				return firstRemoved, false, false
			}
			pt.claim(idx, key)
			return idx, false, true
		}
		if state == slotFull && sameElement(pt.keys[idx], key) {
			return idx, true, false
		}
		if state == slotRemoved && firstRemoved == -1 {
			firstRemoved = idx
		}
		if idx == loopIndex {
			break
		}
	}
	if firstRemoved != -1 {
		pt.claim(firstRemoved, key)
		return firstRemoved, false, false
	}
	panic(moerr.NewInternalErrorNoCtx("no free or removed slot for a new key, size %d capacity %d", pt.size, n))
}

func (pt *probeTable[E]) claim(idx int, key E) {
	pt.checkInsert()
	pt.keys[idx] = key
	pt.states[idx] = slotFull
	pt.modCount++
}

func (pt *probeTable[E]) removeAt(idx int) {
	if sameElement(pt.keys[idx], pt.noEntryKey) {
		pt.nullKey = false
	}
	pt.keys[idx] = pt.noEntryKey
	pt.states[idx] = slotRemoved
	pt.modCount++
	pt.postRemoveHook()
}

// relocate rebuilds the key storage at newCapacity and reports every moved
// slot to move, so value storage can follow.
func (pt *probeTable[E]) relocate(newCapacity int, move func(from, to int)) {
	oldKeys, oldStates := pt.keys, pt.states
	pt.allocate(newCapacity)
	for i := len(oldStates) - 1; i >= 0; i-- {
		if oldStates[i] != slotFull {
			continue
		}
		to := pt.freeSlotFor(oldKeys[i])
		pt.keys[to] = oldKeys[i]
		pt.states[to] = slotFull
		if move != nil {
			move(i, to)
		}
	}
	pt.modCount++
}

// freeSlotFor returns the first free slot on key's probe path. Only valid
// on storage without tombstones and without key.
func (pt *probeTable[E]) freeSlotFor(key E) int {
	n := len(pt.states)
	h := hashElement(key)
	idx := int(h % uint64(n))
	if pt.states[idx] == slotFree {
		return idx
	}
	step := 1 + int(h%uint64(n-2))
	for {
		idx -= step
		if idx < 0 {
			idx += n
		}
		if pt.states[idx] == slotFree {
			return idx
		}
	}
}

func (pt *probeTable[E]) clearKeys() {
	for i := range pt.states {
		pt.keys[i] = pt.noEntryKey
		pt.states[i] = slotFree
	}
	pt.nullKey = false
	pt.resetCounters()
	pt.modCount++
}

func (pt *probeTable[E]) contains(key E) bool {
	return pt.index(key) >= 0
}

// isNullKey reports whether key is present and was stored as a boxed null.
func (pt *probeTable[E]) isNullKey(key E) bool {
	return pt.nullKey && sameElement(key, pt.noEntryKey) && pt.contains(key)
}

func (pt *probeTable[E]) markKey(key E, isNull bool) {
	if sameElement(key, pt.noEntryKey) {
		pt.nullKey = isNull
	}
}

func (pt *probeTable[E]) NoEntryKey() E {
	return pt.noEntryKey
}

// tombstones counts REMOVED slots.
func (pt *probeTable[E]) tombstones() int {
	n := 0
	for _, s := range pt.states {
		if s == slotRemoved {
			n++
		}
	}
	return n
}
