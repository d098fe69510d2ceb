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

	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// HashMap is an open addressing map from unboxed keys to unboxed values.
//
// Values written as boxed nulls are tracked in a bitmap over slot indices,
// so a stored no entry value is never confused with a null.
type HashMap[K, V Element] struct {
	probeTable[K]

	values       []V
	nulls        *roaring.Bitmap
	noEntryValue V
}

func NewHashMap[K, V Element](opts ...Option) (*HashMap[K, V], error) {
	var (
		noKey   K
		noValue V
	)
	return NewHashMapWithNoEntry(noKey, noValue, opts...)
}

// NewHashMapWithNoEntry uses noEntryKey for boxed null keys and returns
// noEntryValue from lookups of absent keys.
func NewHashMapWithNoEntry[K, V Element](noEntryKey K, noEntryValue V, opts ...Option) (*HashMap[K, V], error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	m := &HashMap[K, V]{noEntryValue: noEntryValue}
	m.noEntryKey = noEntryKey
	m.setUp(m.init(m, o))
	return m, nil
}

// NewHashMapFrom maps keys[i] to values[i].
func NewHashMapFrom[K, V Element](keys []K, values []V, opts ...Option) (*HashMap[K, V], error) {
	if len(keys) != len(values) {
		return nil, moerr.NewInvalidArgNoCtx("values length", len(values))
	}
	m, err := NewHashMap[K, V](append(opts[:len(opts):len(opts)], atLeast(len(keys)))...)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		m.Put(k, values[i])
	}
	return m, nil
}

func (m *HashMap[K, V]) setUp(initialCapacity int) {
	capacity := m.Core.setUp(initialCapacity)
	m.allocate(capacity)
	m.values = make([]V, capacity)
	m.nulls = roaring.New()
}

func (m *HashMap[K, V]) rehash(newCapacity int) {
	oldValues, oldNulls := m.values, m.nulls
	m.values = make([]V, newCapacity)
	nulls := roaring.New()
	m.relocate(newCapacity, func(from, to int) {
		m.values[to] = oldValues[from]
		if oldNulls.Contains(uint32(from)) {
			nulls.Add(uint32(to))
		}
	})
	m.nulls = nulls
}

func (m *HashMap[K, V]) removeAt(idx int) {
	m.values[idx] = m.noEntryValue
	m.unmarkNull(idx)
	m.probeTable.removeAt(idx)
}

func (m *HashMap[K, V]) unmarkNull(idx int) {
	if !m.nulls.IsEmpty() {
		m.nulls.Remove(uint32(idx))
	}
}

// Clone returns an independent copy with the same tuning.
func (m *HashMap[K, V]) Clone() *HashMap[K, V] {
	c := &HashMap[K, V]{probeTable: m.probeTable, noEntryValue: m.noEntryValue}
	c.table = c
	c.keys = append([]K(nil), m.keys...)
	c.states = append([]slotState(nil), m.states...)
	c.values = append([]V(nil), m.values...)
	c.nulls = m.nulls.Clone()
	c.modCount = 0
	return c
}

func (m *HashMap[K, V]) NoEntryValue() V {
	return m.noEntryValue
}

// Put maps key to value and returns the previous value, or the no entry
// value when key was absent.
func (m *HashMap[K, V]) Put(key K, value V) (V, bool) {
	prev, _, existed := m.PutNullable(key, false, value, false)
	return prev, existed
}

// PutNullable is Put that records whether key and value stand for boxed
// nulls. prevIsNull reports whether the replaced value was a null.
func (m *HashMap[K, V]) PutNullable(key K, keyIsNull bool, value V, valueIsNull bool) (prev V, prevIsNull bool, existed bool) {
	idx, existed, usedFree := m.insertKey(key)
	m.markKey(key, keyIsNull)
	prev = m.noEntryValue
	if existed {
		prev = m.values[idx]
		prevIsNull = m.nulls.Contains(uint32(idx))
	}
	m.values[idx] = value
	if valueIsNull {
		m.nulls.Add(uint32(idx))
	} else if prevIsNull {
		m.nulls.Remove(uint32(idx))
	}
	if !existed {
		m.postInsertHook(usedFree)
	}
	return prev, prevIsNull, existed
}

// PutIfAbsent inserts only when key is absent. It returns the value already
// mapped and true, or the no entry value and false after inserting.
func (m *HashMap[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	if idx := m.index(key); idx >= 0 {
		return m.values[idx], true
	}
	m.Put(key, value)
	return m.noEntryValue, false
}

// PutAll copies every mapping of o, nulls included.
func (m *HashMap[K, V]) PutAll(o *HashMap[K, V]) {
	_ = m.EnsureCapacity(o.size)
	for i, state := range o.states {
		if state != slotFull {
			continue
		}
		m.PutNullable(o.keys[i], o.isNullKey(o.keys[i]), o.values[i], o.nulls.Contains(uint32(i)))
	}
}

// Get returns the value for key, or the no entry value when absent.
func (m *HashMap[K, V]) Get(key K) V {
	if idx := m.index(key); idx >= 0 {
		return m.values[idx]
	}
	return m.noEntryValue
}

func (m *HashMap[K, V]) TryGet(key K) (V, bool) {
	if idx := m.index(key); idx >= 0 {
		return m.values[idx], true
	}
	return m.noEntryValue, false
}

func (m *HashMap[K, V]) ContainsKey(key K) bool {
	return m.contains(key)
}

// ContainsValue scans for a non null value equal to value.
func (m *HashMap[K, V]) ContainsValue(value V) bool {
	for i, state := range m.states {
		if state == slotFull && sameElement(m.values[i], value) && !m.nulls.Contains(uint32(i)) {
			return true
		}
	}
	return false
}

// ContainsNullValue reports whether some key maps to a boxed null.
func (m *HashMap[K, V]) ContainsNullValue() bool {
	return !m.nulls.IsEmpty()
}

// IsNullKey reports whether key is present and was stored as a boxed null.
func (m *HashMap[K, V]) IsNullKey(key K) bool {
	return m.isNullKey(key)
}

// IsNullValue reports whether key is present and maps to a boxed null.
func (m *HashMap[K, V]) IsNullValue(key K) bool {
	idx := m.index(key)
	return idx >= 0 && m.nulls.Contains(uint32(idx))
}

// Remove deletes key and returns its value.
func (m *HashMap[K, V]) Remove(key K) (V, bool) {
	idx := m.index(key)
	if idx < 0 {
		return m.noEntryValue, false
	}
	prev := m.values[idx]
	m.removeAt(idx)
	return prev, true
}

// AdjustValue adds amount to the value of key if present.
func (m *HashMap[K, V]) AdjustValue(key K, amount V) bool {
	idx := m.index(key)
	if idx < 0 {
		return false
	}
	m.values[idx] += amount
	m.unmarkNull(idx)
	return true
}

func (m *HashMap[K, V]) Increment(key K) bool {
	return m.AdjustValue(key, 1)
}

// AdjustOrPutValue adds adjust to the value of key, or maps key to put
// when absent. It returns the resulting value.
func (m *HashMap[K, V]) AdjustOrPutValue(key K, adjust, put V) V {
	idx, existed, usedFree := m.insertKey(key)
	var v V
	if existed {
		v = m.values[idx] + adjust
		m.unmarkNull(idx)
	} else {
		v = put
		m.markKey(key, false)
	}
	m.values[idx] = v
	if !existed {
		m.postInsertHook(usedFree)
	}
	return v
}

// TransformValues replaces every value v with f(v). Nulls stay null.
func (m *HashMap[K, V]) TransformValues(f func(V) V) {
	for i, state := range m.states {
		if state == slotFull && !m.nulls.Contains(uint32(i)) {
			m.values[i] = f(m.values[i])
		}
	}
}

// RetainEntries keeps the entries for which keep returns true and reports
// whether anything was removed.
func (m *HashMap[K, V]) RetainEntries(keep func(K, V) bool) bool {
	changed := false
	m.TempDisableAutoCompaction()
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == slotFull && !keep(m.keys[i], m.values[i]) {
			m.removeAt(i)
			changed = true
		}
	}
	m.ReenableAutoCompaction(true)
	return changed
}

func (m *HashMap[K, V]) Clear() {
	for i := range m.values {
		m.values[i] = m.noEntryValue
	}
	m.nulls.Clear()
	m.clearKeys()
}

// ForEachKey calls f for every key until f returns false. It reports
// whether every key was visited.
func (m *HashMap[K, V]) ForEachKey(f func(K) bool) bool {
	for i, state := range m.states {
		if state == slotFull && !f(m.keys[i]) {
			return false
		}
	}
	return true
}

func (m *HashMap[K, V]) ForEachValue(f func(V) bool) bool {
	for i, state := range m.states {
		if state == slotFull && !f(m.values[i]) {
			return false
		}
	}
	return true
}

func (m *HashMap[K, V]) ForEachEntry(f func(K, V) bool) bool {
	for i, state := range m.states {
		if state == slotFull && !f(m.keys[i], m.values[i]) {
			return false
		}
	}
	return true
}

func (m *HashMap[K, V]) Keys() []K {
	result := make([]K, 0, m.size)
	m.ForEachKey(func(k K) bool {
		result = append(result, k)
		return true
	})
	return result
}

func (m *HashMap[K, V]) Values() []V {
	result := make([]V, 0, m.size)
	m.ForEachValue(func(v V) bool {
		result = append(result, v)
		return true
	})
	return result
}

// KeysInto writes the keys to dst starting at offset.
func (m *HashMap[K, V]) KeysInto(dst []K, offset int) error {
	if offset < 0 || offset > len(dst) || len(dst)-offset < m.size {
		return moerr.NewOutOfRangeNoCtx("index", "offset %d with %d keys into %d slots", offset, m.size, len(dst))
	}
	m.ForEachKey(func(k K) bool {
		dst[offset] = k
		offset++
		return true
	})
	return nil
}

func (m *HashMap[K, V]) Iterator() *MapIterator[K, V] {
	return newMapIterator(m)
}

// Equal reports whether both maps hold the same mappings, nulls included.
func (m *HashMap[K, V]) Equal(o *HashMap[K, V]) bool {
	if o == nil || m.size != o.size {
		return false
	}
	for i, state := range m.states {
		if state != slotFull {
			continue
		}
		j := o.index(m.keys[i])
		if j < 0 || !sameElement(o.values[j], m.values[i]) ||
			o.nulls.Contains(uint32(j)) != m.nulls.Contains(uint32(i)) {
			return false
		}
	}
	return true
}

// Hash sums ElementHash(key) ^ ElementHash(value) over the entries.
func (m *HashMap[K, V]) Hash() uint32 {
	var h uint32
	for i, state := range m.states {
		if state == slotFull {
			h += ElementHash(m.keys[i]) ^ ElementHash(m.values[i])
		}
	}
	return h
}

func (m *HashMap[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i, state := range m.states {
		if state != slotFull {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(FormatElement(m.keys[i]))
		b.WriteByte('=')
		b.WriteString(FormatElement(m.values[i]))
	}
	b.WriteByte('}')
	return b.String()
}
