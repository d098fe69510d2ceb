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

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
	"github.com/matrixorigin/mocollections/pkg/container/hashtable"
)

// SetDecorator is a HashSet seen as a set of boxed elements. Null is
// stored as the set's no entry value. As with MapDecorator's keys, null and
// a real sentinel element share one slot and the last Add wins.
type SetDecorator[E hashtable.Element] struct {
	s *hashtable.HashSet[E]
}

var _ Collection[Box[int32]] = new(SetDecorator[int32])

func WrapSet[E hashtable.Element](s *hashtable.HashSet[E]) (*SetDecorator[E], error) {
	if s == nil {
		return nil, moerr.NewInvalidArgNoCtx("set", "nil")
	}
	return &SetDecorator[E]{s: s}, nil
}

func (d *SetDecorator[E]) Unwrap() *hashtable.HashSet[E] {
	return d.s
}

func (d *SetDecorator[E]) unwrap(e Box[E]) (E, bool) {
	if v, ok := e.Get(); ok {
		return v, false
	}
	return d.s.NoEntryValue(), true
}

func (d *SetDecorator[E]) Len() int {
	return d.s.Len()
}

func (d *SetDecorator[E]) IsEmpty() bool {
	return d.s.IsEmpty()
}

func (d *SetDecorator[E]) Contains(e Box[E]) bool {
	v, _ := d.unwrap(e)
	return d.s.Contains(v)
}

func (d *SetDecorator[E]) ContainsAll(c Collection[Box[E]]) bool {
	return containsAll[Box[E]](d, c)
}

// Add inserts e and reports whether the set changed. Replacing a real
// sentinel element by null, or the reverse, is a change.
func (d *SetDecorator[E]) Add(e Box[E]) bool {
	return d.s.AddNullable(d.unwrap(e))
}

func (d *SetDecorator[E]) AddAll(c Collection[Box[E]]) bool {
	changed := false
	c.Range(func(e Box[E]) bool {
		if d.Add(e) {
			changed = true
		}
		return true
	})
	return changed
}

func (d *SetDecorator[E]) Remove(e Box[E]) bool {
	v, _ := d.unwrap(e)
	return d.s.Remove(v)
}

func (d *SetDecorator[E]) removeIf(match func(Box[E]) bool) bool {
	d.s.TempDisableAutoCompaction()
	defer d.s.ReenableAutoCompaction(true)
	changed := false
	it := d.Iterator()
	for it.Next() {
		if match(it.Value()) {
			if err := it.Remove(); err != nil {
				panic(err)
			}
			changed = true
		}
	}
	return changed
}

func (d *SetDecorator[E]) RemoveAll(c Collection[Box[E]]) bool {
	return d.removeIf(c.Contains)
}

func (d *SetDecorator[E]) RetainAll(c Collection[Box[E]]) bool {
	return d.removeIf(func(e Box[E]) bool {
		return !c.Contains(e)
	})
}

func (d *SetDecorator[E]) Clear() {
	d.s.Clear()
}

func (d *SetDecorator[E]) Iterator() Iterator[Box[E]] {
	return &setIterator[E]{it: d.s.Iterator()}
}

func (d *SetDecorator[E]) Range(f func(Box[E]) bool) bool {
	it := d.Iterator()
	for it.Next() {
		if !f(it.Value()) {
			return false
		}
	}
	return true
}

func (d *SetDecorator[E]) ToSlice() []Box[E] {
	return toSlice[Box[E]](d)
}

// Equal is set equality with any Collection of the same element kind.
func (d *SetDecorator[E]) Equal(o any) bool {
	return sameSet[Box[E]](d, o)
}

func (d *SetDecorator[E]) Hash() uint32 {
	var h uint32
	d.Range(func(e Box[E]) bool {
		h += e.Hash()
		return true
	})
	return h
}

func (d *SetDecorator[E]) String() string {
	return formatAll[Box[E]](d, Box[E].String)
}

func (d *SetDecorator[E]) WriteTo(w io.Writer) (int64, error) {
	return d.s.WriteTo(w)
}

func (d *SetDecorator[E]) ReadFrom(r io.Reader) (int64, error) {
	return d.s.ReadFrom(r)
}
