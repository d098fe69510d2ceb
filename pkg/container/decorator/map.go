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

package decorator

import (
	"io"
	"strings"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
)

// MapDecorator is a HashMap seen as a map of boxed keys to boxed values.
//
// A null key is stored as the map's no entry key and a null value as its
// no entry value with the null bit set, so Get can tell a stored null from
// an absent key. Since null and the no entry key share a slot, a null key
// and a real key equal to the sentinel cannot coexist; the last write wins.
type MapDecorator[K, V hashtable.Element] struct {
	m *hashtable.HashMap[K, V]

	keys    *KeyView[K, V]
	values  *ValueView[K, V]
	entries *EntryView[K, V]
}

// WrapMap decorates m. Changes through either side are visible on both.
func WrapMap[K, V hashtable.Element](m *hashtable.HashMap[K, V]) (*MapDecorator[K, V], error) {
	if m == nil {
		return nil, moerr.NewInvalidArgNoCtx("map", "nil")
	}
	return &MapDecorator[K, V]{m: m}, nil
}

// Unwrap returns the backing map.
func (d *MapDecorator[K, V]) Unwrap() *hashtable.HashMap[K, V] {
	return d.m
}

func (d *MapDecorator[K, V]) unwrapKey(key Box[K]) (K, bool) {
	if k, ok := key.Get(); ok {
		return k, false
	}
	return d.m.NoEntryKey(), true
}

func (d *MapDecorator[K, V]) unwrapValue(value Box[V]) (V, bool) {
	if v, ok := value.Get(); ok {
		return v, false
	}
	return d.m.NoEntryValue(), true
}

func (d *MapDecorator[K, V]) Len() int {
	return d.m.Len()
}

func (d *MapDecorator[K, V]) IsEmpty() bool {
	return d.m.IsEmpty()
}

// Get returns the value mapped to key, or null when there is none.
func (d *MapDecorator[K, V]) Get(key Box[K]) Box[V] {
	k, _ := d.unwrapKey(key)
	v, ok := d.m.TryGet(k)
	if !ok || d.m.IsNullValue(k) {
		return None[V]()
	}
	return Some(v)
}

// Put maps key to value and returns the previous value, null when key was
// absent.
func (d *MapDecorator[K, V]) Put(key Box[K], value Box[V]) Box[V] {
	k, keyIsNull := d.unwrapKey(key)
	v, valueIsNull := d.unwrapValue(value)
	prev, prevIsNull, existed := d.m.PutNullable(k, keyIsNull, v, valueIsNull)
	if !existed || prevIsNull {
		return None[V]()
	}
	return Some(prev)
}

// PutAll copies every mapping of src.
func (d *MapDecorator[K, V]) PutAll(src map[Box[K]]Box[V]) {
	_ = d.m.EnsureCapacity(len(src))
	for k, v := range src {
		d.Put(k, v)
	}
}

// Remove deletes key and returns its value. Removing an absent key returns
// null.
func (d *MapDecorator[K, V]) Remove(key Box[K]) Box[V] {
	k, _ := d.unwrapKey(key)
	wasNull := d.m.IsNullValue(k)
	v, ok := d.m.Remove(k)
	if !ok || wasNull {
		return None[V]()
	}
	return Some(v)
}

func (d *MapDecorator[K, V]) ContainsKey(key Box[K]) bool {
	k, _ := d.unwrapKey(key)
	return d.m.ContainsKey(k)
}

func (d *MapDecorator[K, V]) ContainsValue(value Box[V]) bool {
	if v, ok := value.Get(); ok {
		return d.m.ContainsValue(v)
	}
	return d.m.ContainsNullValue()
}

func (d *MapDecorator[K, V]) Clear() {
	d.m.Clear()
}

// Range calls f for every mapping until f returns false.
func (d *MapDecorator[K, V]) Range(f func(Box[K], Box[V]) bool) bool {
	it := d.m.Iterator()
	for it.Next() {
		if !f(keyOf(it), valueOf(it)) {
			return false
		}
	}
	return true
}

// removeIf deletes the mappings match selects. Automatic compaction waits
// for the end of the pass.
func (d *MapDecorator[K, V]) removeIf(match func(*hashtable.MapIterator[K, V]) bool) bool {
	d.m.TempDisableAutoCompaction()
	defer d.m.ReenableAutoCompaction(true)
	changed := false
	it := d.m.Iterator()
	for it.Next() {
		if match(it) {
			if err := it.Remove(); err != nil {
				panic(err)
			}
			changed = true
		}
	}
	return changed
}

// KeySet returns the live view of the keys.
func (d *MapDecorator[K, V]) KeySet() *KeyView[K, V] {
	if d.keys == nil {
		d.keys = &KeyView[K, V]{d: d}
	}
	return d.keys
}

// Values returns the live view of the values.
func (d *MapDecorator[K, V]) Values() *ValueView[K, V] {
	if d.values == nil {
		d.values = &ValueView[K, V]{d: d}
	}
	return d.values
}

// EntrySet returns the live view of the mappings.
func (d *MapDecorator[K, V]) EntrySet() *EntryView[K, V] {
	if d.entries == nil {
		d.entries = &EntryView[K, V]{d: d}
	}
	return d.entries
}

// Equal reports whether o is a decorator of the same kinds holding the same
// mappings. Anything else, a map of other element kinds included, is
// unequal.
func (d *MapDecorator[K, V]) Equal(o any) bool {
	other, ok := o.(*MapDecorator[K, V])
	if !ok || other == nil {
		return false
	}
	if d == other {
		return true
	}
	if d.Len() != other.Len() {
		return false
	}
	return d.Range(func(k Box[K], v Box[V]) bool {
		return other.ContainsKey(k) && other.Get(k).Equal(v)
	})
}

// Hash sums key.Hash() ^ value.Hash() over the mappings.
func (d *MapDecorator[K, V]) Hash() uint32 {
	var h uint32
	d.Range(func(k Box[K], v Box[V]) bool {
		h += k.Hash() ^ v.Hash()
		return true
	})
	return h
}

func (d *MapDecorator[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	d.Range(func(k Box[K], v Box[V]) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k.String())
		b.WriteByte('=')
		b.WriteString(v.String())
		return true
	})
	b.WriteByte('}')
	return b.String()
}

// WriteTo writes the backing map in its durable form.
func (d *MapDecorator[K, V]) WriteTo(w io.Writer) (int64, error) {
	return d.m.WriteTo(w)
}

// ReadFrom replaces the backing map's contents. Views stay valid.
func (d *MapDecorator[K, V]) ReadFrom(r io.Reader) (int64, error) {
	return d.m.ReadFrom(r)
}
