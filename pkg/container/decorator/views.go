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
	"strings"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
)

func unsupported(view, op string) error {
	return moerr.NewNotSupportedNoCtx("%s on a %s view, use the map's Put", op, view)
}

func formatAll[E any](c Collection[E], format func(E) string) string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	c.Range(func(e E) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(format(e))
		return true
	})
	b.WriteByte(']')
	return b.String()
}

func toSlice[E any](c Collection[E]) []E {
	result := make([]E, 0, c.Len())
	c.Range(func(e E) bool {
		result = append(result, e)
		return true
	})
	return result
}

// KeyView is the live set of keys of a MapDecorator. Removing a key
// removes its mapping.
type KeyView[K, V hashtable.Element] struct {
	d *MapDecorator[K, V]
}

var _ Collection[Box[int32]] = new(KeyView[int32, int64])

func (kv *KeyView[K, V]) Len() int {
	return kv.d.Len()
}

func (kv *KeyView[K, V]) IsEmpty() bool {
	return kv.d.IsEmpty()
}

func (kv *KeyView[K, V]) Contains(key Box[K]) bool {
	return kv.d.ContainsKey(key)
}

func (kv *KeyView[K, V]) ContainsAll(c Collection[Box[K]]) bool {
	return containsAll[Box[K]](kv, c)
}

func (kv *KeyView[K, V]) Iterator() Iterator[Box[K]] {
	return newMapIterator(kv.d.m, keyOf[K, V])
}

func (kv *KeyView[K, V]) Range(f func(Box[K]) bool) bool {
	return kv.d.Range(func(k Box[K], _ Box[V]) bool {
		return f(k)
	})
}

func (kv *KeyView[K, V]) ToSlice() []Box[K] {
	return toSlice[Box[K]](kv)
}

// Add always fails, keys only enter through the map.
func (kv *KeyView[K, V]) Add(Box[K]) error {
	return unsupported("key", "add")
}

func (kv *KeyView[K, V]) AddAll(Collection[Box[K]]) error {
	return unsupported("key", "add all")
}

func (kv *KeyView[K, V]) Remove(key Box[K]) bool {
	if !kv.d.ContainsKey(key) {
		return false
	}
	kv.d.Remove(key)
	return true
}

// RemoveAll removes every key that c contains.
func (kv *KeyView[K, V]) RemoveAll(c Collection[Box[K]]) bool {
	return kv.d.removeIf(func(it *hashtable.MapIterator[K, V]) bool {
		return c.Contains(keyOf(it))
	})
}

// RetainAll removes every key that c does not contain.
func (kv *KeyView[K, V]) RetainAll(c Collection[Box[K]]) bool {
	return kv.d.removeIf(func(it *hashtable.MapIterator[K, V]) bool {
		return !c.Contains(keyOf(it))
	})
}

func (kv *KeyView[K, V]) Clear() {
	kv.d.Clear()
}

// Equal is set equality with any Collection of the same key kind.
func (kv *KeyView[K, V]) Equal(o any) bool {
	return sameSet[Box[K]](kv, o)
}

func (kv *KeyView[K, V]) Hash() uint32 {
	var h uint32
	kv.Range(func(k Box[K]) bool {
		h += k.Hash()
		return true
	})
	return h
}

func (kv *KeyView[K, V]) String() string {
	return formatAll[Box[K]](kv, Box[K].String)
}

// ValueView is the live collection of values of a MapDecorator. It may
// hold duplicates. Removing a value removes one mapping to it.
type ValueView[K, V hashtable.Element] struct {
	d *MapDecorator[K, V]
}

var _ Collection[Box[int64]] = new(ValueView[int32, int64])

func (vv *ValueView[K, V]) Len() int {
	return vv.d.Len()
}

func (vv *ValueView[K, V]) IsEmpty() bool {
	return vv.d.IsEmpty()
}

func (vv *ValueView[K, V]) Contains(value Box[V]) bool {
	return vv.d.ContainsValue(value)
}

func (vv *ValueView[K, V]) ContainsAll(c Collection[Box[V]]) bool {
	return containsAll[Box[V]](vv, c)
}

func (vv *ValueView[K, V]) Iterator() Iterator[Box[V]] {
	return newMapIterator(vv.d.m, valueOf[K, V])
}

func (vv *ValueView[K, V]) Range(f func(Box[V]) bool) bool {
	return vv.d.Range(func(_ Box[K], v Box[V]) bool {
		return f(v)
	})
}

func (vv *ValueView[K, V]) ToSlice() []Box[V] {
	return toSlice[Box[V]](vv)
}

func (vv *ValueView[K, V]) Add(Box[V]) error {
	return unsupported("value", "add")
}

func (vv *ValueView[K, V]) AddAll(Collection[Box[V]]) error {
	return unsupported("value", "add all")
}

// Remove deletes the first mapping, in iteration order, to value.
func (vv *ValueView[K, V]) Remove(value Box[V]) bool {
	it := vv.d.m.Iterator()
	for it.Next() {
		if valueOf(it).Equal(value) {
			return it.Remove() == nil
		}
	}
	return false
}

// RemoveAll removes every mapping whose value c contains.
func (vv *ValueView[K, V]) RemoveAll(c Collection[Box[V]]) bool {
	return vv.d.removeIf(func(it *hashtable.MapIterator[K, V]) bool {
		return c.Contains(valueOf(it))
	})
}

// RetainAll removes every mapping whose value c does not contain.
func (vv *ValueView[K, V]) RetainAll(c Collection[Box[V]]) bool {
	return vv.d.removeIf(func(it *hashtable.MapIterator[K, V]) bool {
		return !c.Contains(valueOf(it))
	})
}

func (vv *ValueView[K, V]) Clear() {
	vv.d.Clear()
}

func (vv *ValueView[K, V]) String() string {
	return formatAll[Box[V]](vv, Box[V].String)
}

// Entry is one mapping of a MapDecorator. Entries handed out by an
// EntryView write through to the map on SetValue.
type Entry[K, V hashtable.Element] struct {
	owner *MapDecorator[K, V]
	key   Box[K]
	value Box[V]
}

// NewEntry returns a detached entry, for lookups in an EntryView.
func NewEntry[K, V hashtable.Element](key Box[K], value Box[V]) Entry[K, V] {
	return Entry[K, V]{key: key, value: value}
}

func (e Entry[K, V]) Key() Box[K] {
	return e.key
}

func (e Entry[K, V]) Value() Box[V] {
	return e.value
}

// SetValue replaces the value and returns the old one. An attached entry
// updates the map as well.
func (e *Entry[K, V]) SetValue(value Box[V]) Box[V] {
	prev := e.value
	if e.owner != nil {
		prev = e.owner.Put(e.key, value)
	}
	e.value = value
	return prev
}

func (e Entry[K, V]) Equal(o Entry[K, V]) bool {
	return e.key.Equal(o.key) && e.value.Equal(o.value)
}

func (e Entry[K, V]) Hash() uint32 {
	return e.key.Hash() ^ e.value.Hash()
}

func (e Entry[K, V]) String() string {
	return e.key.String() + "=" + e.value.String()
}

// EntryView is the live set of mappings of a MapDecorator.
type EntryView[K, V hashtable.Element] struct {
	d *MapDecorator[K, V]
}

var _ Collection[Entry[int32, int64]] = new(EntryView[int32, int64])

func (ev *EntryView[K, V]) entryOf(it *hashtable.MapIterator[K, V]) Entry[K, V] {
	return Entry[K, V]{owner: ev.d, key: keyOf(it), value: valueOf(it)}
}

func (ev *EntryView[K, V]) Len() int {
	return ev.d.Len()
}

func (ev *EntryView[K, V]) IsEmpty() bool {
	return ev.d.IsEmpty()
}

// Contains reports whether the map holds e's key mapped to e's value.
func (ev *EntryView[K, V]) Contains(e Entry[K, V]) bool {
	return ev.d.ContainsKey(e.key) && ev.d.Get(e.key).Equal(e.value)
}

func (ev *EntryView[K, V]) ContainsAll(c Collection[Entry[K, V]]) bool {
	return containsAll[Entry[K, V]](ev, c)
}

func (ev *EntryView[K, V]) Iterator() Iterator[Entry[K, V]] {
	return newMapIterator(ev.d.m, ev.entryOf)
}

func (ev *EntryView[K, V]) Range(f func(Entry[K, V]) bool) bool {
	it := ev.d.m.Iterator()
	for it.Next() {
		if !f(ev.entryOf(it)) {
			return false
		}
	}
	return true
}

func (ev *EntryView[K, V]) ToSlice() []Entry[K, V] {
	return toSlice[Entry[K, V]](ev)
}

func (ev *EntryView[K, V]) Add(Entry[K, V]) error {
	return unsupported("entry", "add")
}

func (ev *EntryView[K, V]) AddAll(Collection[Entry[K, V]]) error {
	return unsupported("entry", "add all")
}

// Remove deletes the mapping only if it maps e's key to e's value.
func (ev *EntryView[K, V]) Remove(e Entry[K, V]) bool {
	if !ev.Contains(e) {
		return false
	}
	ev.d.Remove(e.key)
	return true
}

func (ev *EntryView[K, V]) RemoveAll(c Collection[Entry[K, V]]) bool {
	return ev.d.removeIf(func(it *hashtable.MapIterator[K, V]) bool {
		return c.Contains(ev.entryOf(it))
	})
}

func (ev *EntryView[K, V]) RetainAll(c Collection[Entry[K, V]]) bool {
	return ev.d.removeIf(func(it *hashtable.MapIterator[K, V]) bool {
		return !c.Contains(ev.entryOf(it))
	})
}

func (ev *EntryView[K, V]) Clear() {
	ev.d.Clear()
}

func (ev *EntryView[K, V]) Equal(o any) bool {
	return sameSet[Entry[K, V]](ev, o)
}

// Hash equals the decorator's Hash.
func (ev *EntryView[K, V]) Hash() uint32 {
	return ev.d.Hash()
}

func (ev *EntryView[K, V]) String() string {
	return formatAll[Entry[K, V]](ev, Entry[K, V].String)
}
