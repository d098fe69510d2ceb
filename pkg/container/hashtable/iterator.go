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

// slotCursor walks the FULL slots of a table in slot order. It fails fast:
// once the table changes structurally behind its back every call reports
// an invalid state error.
type slotCursor[E Element] struct {
	pt       *probeTable[E]
	expected uint64
	pos      int
	// current slot, -1 before the first Next and after Remove
	cur int
	err error
}

func (sc *slotCursor[E]) reset(pt *probeTable[E]) {
	sc.pt = pt
	sc.expected = pt.modCount
	sc.pos = -1
	sc.cur = -1
}

func (sc *slotCursor[E]) check() error {
	if sc.err == nil && sc.pt.modCount != sc.expected {
		sc.err = moerr.NewInvalidStateNoCtx("iterator: table modified during iteration")
	}
	return sc.err
}

func (sc *slotCursor[E]) next() bool {
	if sc.check() != nil {
		return false
	}
	states := sc.pt.states
	for sc.pos++; sc.pos < len(states); sc.pos++ {
		if states[sc.pos] == slotFull {
			sc.cur = sc.pos
			return true
		}
	}
	sc.cur = -1
	return false
}

// remove deletes the current slot through removeAt, with automatic
// compaction held off so the slot layout stays put for the rest of the pass.
func (sc *slotCursor[E]) remove(removeAt func(int)) error {
	if err := sc.check(); err != nil {
		return err
	}
	if sc.cur < 0 {
		return moerr.NewInvalidStateNoCtx("iterator: remove without a current element")
	}
	sc.pt.TempDisableAutoCompaction()
	removeAt(sc.cur)
	sc.pt.ReenableAutoCompaction(false)
	sc.cur = -1
	sc.expected = sc.pt.modCount
	return nil
}

// SetIterator iterates a HashSet.
//
//	it := s.Iterator()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type SetIterator[E Element] struct {
	s *HashSet[E]
	slotCursor[E]
}

func newSetIterator[E Element](s *HashSet[E]) *SetIterator[E] {
	it := &SetIterator[E]{s: s}
	it.reset(&s.probeTable)
	return it
}

// Next advances to the next element. It returns false when the set is
// exhausted or the iterator was invalidated, Err tells which.
func (it *SetIterator[E]) Next() bool {
	return it.next()
}

func (it *SetIterator[E]) Value() E {
	if it.cur < 0 {
		return it.s.noEntryKey
	}
	return it.s.keys[it.cur]
}

// IsNull reports whether the current element was stored as a boxed null.
func (it *SetIterator[E]) IsNull() bool {
	return it.cur >= 0 && it.s.nullKey && sameElement(it.s.keys[it.cur], it.s.noEntryKey)
}

// Remove deletes the current element.
func (it *SetIterator[E]) Remove() error {
	return it.remove(it.s.removeAt)
}

// Err is nil for an exhausted iterator and an invalid state error for one
// whose set was modified outside of it.
func (it *SetIterator[E]) Err() error {
	return it.err
}

// MapIterator iterates a HashMap.
type MapIterator[K, V Element] struct {
	m *HashMap[K, V]
	slotCursor[K]
}

func newMapIterator[K, V Element](m *HashMap[K, V]) *MapIterator[K, V] {
	it := &MapIterator[K, V]{m: m}
	it.reset(&m.probeTable)
	return it
}

func (it *MapIterator[K, V]) Next() bool {
	return it.next()
}

func (it *MapIterator[K, V]) Key() K {
	if it.cur < 0 {
		return it.m.noEntryKey
	}
	return it.m.keys[it.cur]
}

func (it *MapIterator[K, V]) Value() V {
	if it.cur < 0 {
		return it.m.noEntryValue
	}
	return it.m.values[it.cur]
}

func (it *MapIterator[K, V]) KeyIsNull() bool {
	return it.cur >= 0 && it.m.nullKey && sameElement(it.m.keys[it.cur], it.m.noEntryKey)
}

func (it *MapIterator[K, V]) ValueIsNull() bool {
	return it.cur >= 0 && it.m.nulls.Contains(uint32(it.cur))
}

// SetValue replaces the value of the current entry. It is not a structural
// change.
func (it *MapIterator[K, V]) SetValue(v V) (V, error) {
	return it.SetValueNullable(v, false)
}

func (it *MapIterator[K, V]) SetValueNullable(v V, isNull bool) (V, error) {
	if err := it.check(); err != nil {
		return it.m.noEntryValue, err
	}
	if it.cur < 0 {
		return it.m.noEntryValue, moerr.NewInvalidStateNoCtx("iterator: set value without a current entry")
	}
	prev := it.m.values[it.cur]
	it.m.values[it.cur] = v
	if isNull {
		it.m.nulls.Add(uint32(it.cur))
	} else {
		it.m.unmarkNull(it.cur)
	}
	return prev, nil
}

func (it *MapIterator[K, V]) Remove() error {
	return it.remove(it.m.removeAt)
}

func (it *MapIterator[K, V]) Err() error {
	return it.err
}
