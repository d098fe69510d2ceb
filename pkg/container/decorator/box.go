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

// Package decorator presents the primitive containers of hashtable as
// collections of nullable boxed elements, with live key, value and entry
// views.
package decorator

import (
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
)

// Box holds an element or null.
type Box[T hashtable.Element] struct {
	v  T
	ok bool
}

func Some[T hashtable.Element](v T) Box[T] {
	return Box[T]{v: v, ok: true}
}

func None[T hashtable.Element]() Box[T] {
	return Box[T]{}
}

// Get returns the element and whether there is one.
func (b Box[T]) Get() (T, bool) {
	return b.v, b.ok
}

func (b Box[T]) IsNull() bool {
	return !b.ok
}

// Value returns the element, or the zero value for null.
func (b Box[T]) Value() T {
	return b.v
}

// Equal is true for two nulls, or two elements that are equal with NaN
// equal to itself.
func (b Box[T]) Equal(o Box[T]) bool {
	if b.ok != o.ok {
		return false
	}
	return !b.ok || b.v == o.v || (b.v != b.v && o.v != o.v)
}

// Hash is hashtable.ElementHash of the element and 0 for null.
func (b Box[T]) Hash() uint32 {
	if !b.ok {
		return 0
	}
	return hashtable.ElementHash(b.v)
}

func (b Box[T]) String() string {
	if !b.ok {
		return "null"
	}
	return hashtable.FormatElement(b.v)
}

// Equatable is implemented by the element types of views.
type Equatable[T any] interface {
	Equal(T) bool
}

// Collection is the read surface the views accept for bulk operations.
// Every view is a Collection, and SliceOf makes one from plain values.
type Collection[E any] interface {
	Len() int
	Contains(e E) bool
	// Range calls f for every element until f returns false and reports
	// whether all elements were visited.
	Range(f func(E) bool) bool
}

type sliceCollection[E Equatable[E]] []E

// SliceOf returns a Collection over items. Membership is a linear scan.
func SliceOf[E Equatable[E]](items ...E) Collection[E] {
	return sliceCollection[E](items)
}

func (s sliceCollection[E]) Len() int {
	return len(s)
}

func (s sliceCollection[E]) Contains(e E) bool {
	for _, item := range s {
		if item.Equal(e) {
			return true
		}
	}
	return false
}

func (s sliceCollection[E]) Range(f func(E) bool) bool {
	for _, item := range s {
		if !f(item) {
			return false
		}
	}
	return true
}

// containsAll reports whether every element of c is in dst.
func containsAll[E any](dst Collection[E], c Collection[E]) bool {
	return c.Range(dst.Contains)
}

// sameSet is set equality of a view with an arbitrary value.
func sameSet[E any](view Collection[E], o any) bool {
	c, ok := o.(Collection[E])
	if !ok || c.Len() != view.Len() {
		return false
	}
	return containsAll(view, c)
}
