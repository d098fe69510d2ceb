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
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
)

// Iterator walks a view. Next returns false when the view is exhausted or
// the iterator was invalidated by a change made outside of it, in which
// case Err is an invalid state error.
type Iterator[T any] interface {
	Next() bool
	Value() T
	// Remove deletes the current element from the backing container.
	Remove() error
	Err() error
}

type mapIterator[K, V hashtable.Element, T any] struct {
	it      *hashtable.MapIterator[K, V]
	project func(*hashtable.MapIterator[K, V]) T
}

func newMapIterator[K, V hashtable.Element, T any](m *hashtable.HashMap[K, V], project func(*hashtable.MapIterator[K, V]) T) Iterator[T] {
	return &mapIterator[K, V, T]{it: m.Iterator(), project: project}
}

func (i *mapIterator[K, V, T]) Next() bool    { return i.it.Next() }
func (i *mapIterator[K, V, T]) Value() T      { return i.project(i.it) }
func (i *mapIterator[K, V, T]) Remove() error { return i.it.Remove() }
func (i *mapIterator[K, V, T]) Err() error    { return i.it.Err() }

func keyOf[K, V hashtable.Element](it *hashtable.MapIterator[K, V]) Box[K] {
	if it.KeyIsNull() {
		return None[K]()
	}
	return Some(it.Key())
}

func valueOf[K, V hashtable.Element](it *hashtable.MapIterator[K, V]) Box[V] {
	if it.ValueIsNull() {
		return None[V]()
	}
	return Some(it.Value())
}

type setIterator[E hashtable.Element] struct {
	it *hashtable.SetIterator[E]
}

func (i *setIterator[E]) Next() bool {
	return i.it.Next()
}

func (i *setIterator[E]) Value() Box[E] {
	if i.it.IsNull() {
		return None[E]()
	}
	return Some(i.it.Value())
}

func (i *setIterator[E]) Remove() error {
	return i.it.Remove()
}

func (i *setIterator[E]) Err() error {
	return i.it.Err()
}
