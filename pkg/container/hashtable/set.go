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
	"strings"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// HashSet is an open addressing set of unboxed elements.
type HashSet[E Element] struct {
	probeTable[E]
}

func NewHashSet[E Element](opts ...Option) (*HashSet[E], error) {
	var zero E
	return NewHashSetWithNoEntry(zero, opts...)
}

// NewHashSetWithNoEntry uses noEntry as the value reported for absent
// elements and as the key a boxed null maps to.
func NewHashSetWithNoEntry[E Element](noEntry E, opts ...Option) (*HashSet[E], error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &HashSet[E]{}
	s.noEntryKey = noEntry
	s.setUp(s.init(s, o))
	return s, nil
}

// NewHashSetFrom returns a set holding elems, sized for at least len(elems).
func NewHashSetFrom[E Element](elems []E, opts ...Option) (*HashSet[E], error) {
	s, err := NewHashSet[E](append(opts[:len(opts):len(opts)], atLeast(len(elems)))...)
	if err != nil {
		return nil, err
	}
	s.AddAll(elems...)
	return s, nil
}

// atLeast raises the configured initial capacity to n.
func atLeast(n int) Option {
	return func(o *Options) {
		if o.InitialCapacity < n {
			o.InitialCapacity = n
		}
	}
}

func (s *HashSet[E]) setUp(initialCapacity int) {
	s.allocate(s.Core.setUp(initialCapacity))
}

func (s *HashSet[E]) rehash(newCapacity int) {
	s.relocate(newCapacity, nil)
}

// Clone returns an independent copy with the same tuning.
func (s *HashSet[E]) Clone() *HashSet[E] {
	c := &HashSet[E]{probeTable: s.probeTable}
	c.table = c
	c.keys = append([]E(nil), s.keys...)
	c.states = append([]slotState(nil), s.states...)
	c.modCount = 0
	return c
}

func (s *HashSet[E]) NoEntryValue() E {
	return s.noEntryKey
}

func (s *HashSet[E]) Contains(e E) bool {
	return s.contains(e)
}

func (s *HashSet[E]) ContainsAll(elems ...E) bool {
	for _, e := range elems {
		if !s.contains(e) {
			return false
		}
	}
	return true
}

// Add inserts e and reports whether the set changed. An element already
// present keeps its nullness.
func (s *HashSet[E]) Add(e E) bool {
	_, existed, usedFree := s.insertKey(e)
	if existed {
		return false
	}
	s.markKey(e, false)
	s.postInsertHook(usedFree)
	return true
}

// AddNullable is Add that records whether e stands for a boxed null. Only
// meaningful when e is the no entry value, which a null and a real sentinel
// element share: the last write wins, and switching between the two counts
// as a change.
func (s *HashSet[E]) AddNullable(e E, isNull bool) bool {
	_, existed, usedFree := s.insertKey(e)
	if existed {
		if sameElement(e, s.noEntryKey) && s.nullKey != isNull {
			s.nullKey = isNull
			return true
		}
		return false
	}
	s.markKey(e, isNull)
	s.postInsertHook(usedFree)
	return true
}

// IsNull reports whether e is present as a boxed null.
func (s *HashSet[E]) IsNull(e E) bool {
	return s.isNullKey(e)
}

func (s *HashSet[E]) AddAll(elems ...E) bool {
	changed := false
	for _, e := range elems {
		if s.Add(e) {
			changed = true
		}
	}
	return changed
}

// AddRange adds elems[start:end].
func (s *HashSet[E]) AddRange(elems []E, start, end int) (bool, error) {
	if end < start {
		return false, moerr.NewInvalidArgNoCtx("range", [2]int{start, end})
	}
	if start < 0 || end > len(elems) {
		return false, moerr.NewOutOfRangeNoCtx("index", "range [%d, %d) of %d elements", start, end, len(elems))
	}
	return s.AddAll(elems[start:end]...), nil
}

// Remove deletes e and reports whether it was present.
func (s *HashSet[E]) Remove(e E) bool {
	idx := s.index(e)
	if idx < 0 {
		return false
	}
	s.removeAt(idx)
	return true
}

func (s *HashSet[E]) RemoveAll(elems ...E) bool {
	changed := false
	for _, e := range elems {
		if s.Remove(e) {
			changed = true
		}
	}
	return changed
}

// RetainAll keeps only the elements listed in elems.
func (s *HashSet[E]) RetainAll(elems ...E) bool {
	keep, _ := NewHashSetFrom(elems)
	return s.RetainFunc(keep.Contains)
}

// RetainFunc keeps the elements for which keep returns true. Automatic
// compaction is deferred until the pass is done.
func (s *HashSet[E]) RetainFunc(keep func(E) bool) bool {
	changed := false
	s.TempDisableAutoCompaction()
	for i := len(s.states) - 1; i >= 0; i-- {
		if s.states[i] == slotFull && !keep(s.keys[i]) {
			s.removeAt(i)
			changed = true
		}
	}
	s.ReenableAutoCompaction(true)
	return changed
}

func (s *HashSet[E]) Clear() {
	s.clearKeys()
}

// ForEach calls f for every element until f returns false. It reports
// whether every element was visited.
func (s *HashSet[E]) ForEach(f func(E) bool) bool {
	for i, state := range s.states {
		if state == slotFull && !f(s.keys[i]) {
			return false
		}
	}
	return true
}

func (s *HashSet[E]) ToSlice() []E {
	result := make([]E, 0, s.size)
	s.ForEach(func(e E) bool {
		result = append(result, e)
		return true
	})
	return result
}

// CopyInto writes the elements to dst starting at offset.
func (s *HashSet[E]) CopyInto(dst []E, offset int) error {
	if offset < 0 || offset > len(dst) || len(dst)-offset < s.size {
		return moerr.NewOutOfRangeNoCtx("index", "offset %d with %d elements into %d slots", offset, s.size, len(dst))
	}
	s.ForEach(func(e E) bool {
		dst[offset] = e
		offset++
		return true
	})
	return nil
}

func (s *HashSet[E]) Iterator() *SetIterator[E] {
	return newSetIterator(s)
}

// Equal reports whether both sets hold the same elements.
func (s *HashSet[E]) Equal(o *HashSet[E]) bool {
	if o == nil || s.size != o.size {
		return false
	}
	return s.ForEach(o.Contains)
}

// Hash is the sum of ElementHash over the elements.
func (s *HashSet[E]) Hash() uint32 {
	var h uint32
	s.ForEach(func(e E) bool {
		h += ElementHash(e)
		return true
	})
	return h
}

func (s *HashSet[E]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.ForEach(func(e E) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(FormatElement(e))
		return true
	})
	b.WriteByte('}')
	return b.String()
}
