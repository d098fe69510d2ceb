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

// MapReader is the read side of a HashMap.
type MapReader[K, V Element] interface {
	Len() int
	IsEmpty() bool
	Get(key K) V
	TryGet(key K) (V, bool)
	ContainsKey(key K) bool
	ContainsValue(value V) bool
	ForEachEntry(f func(K, V) bool) bool
	Keys() []K
	Values() []V
	NoEntryKey() K
	NoEntryValue() V
	Equal(o *HashMap[K, V]) bool
	Hash() uint32
	String() string
}

// SetReader is the read side of a HashSet.
type SetReader[E Element] interface {
	Len() int
	IsEmpty() bool
	Contains(e E) bool
	ForEach(f func(E) bool) bool
	ToSlice() []E
	NoEntryValue() E
	Equal(o *HashSet[E]) bool
	Hash() uint32
	String() string
}

var (
	_ MapReader[int32, int64] = new(HashMap[int32, int64])
	_ SetReader[int32]        = new(HashSet[int32])
)

type readOnlyMap[K, V Element] struct {
	m *HashMap[K, V]
}

// ReadOnlyMap returns a view of m without mutators. The view follows m.
func ReadOnlyMap[K, V Element](m *HashMap[K, V]) MapReader[K, V] {
	return readOnlyMap[K, V]{m: m}
}

func (r readOnlyMap[K, V]) Len() int                            { return r.m.Len() }
func (r readOnlyMap[K, V]) IsEmpty() bool                       { return r.m.IsEmpty() }
func (r readOnlyMap[K, V]) Get(key K) V                         { return r.m.Get(key) }
func (r readOnlyMap[K, V]) TryGet(key K) (V, bool)              { return r.m.TryGet(key) }
func (r readOnlyMap[K, V]) ContainsKey(key K) bool              { return r.m.ContainsKey(key) }
func (r readOnlyMap[K, V]) ContainsValue(value V) bool          { return r.m.ContainsValue(value) }
func (r readOnlyMap[K, V]) ForEachEntry(f func(K, V) bool) bool { return r.m.ForEachEntry(f) }
func (r readOnlyMap[K, V]) Keys() []K                           { return r.m.Keys() }
func (r readOnlyMap[K, V]) Values() []V                         { return r.m.Values() }
func (r readOnlyMap[K, V]) NoEntryKey() K                       { return r.m.NoEntryKey() }
func (r readOnlyMap[K, V]) NoEntryValue() V                     { return r.m.NoEntryValue() }
func (r readOnlyMap[K, V]) Equal(o *HashMap[K, V]) bool         { return r.m.Equal(o) }
func (r readOnlyMap[K, V]) Hash() uint32                        { return r.m.Hash() }
func (r readOnlyMap[K, V]) String() string                      { return r.m.String() }

type readOnlySet[E Element] struct {
	s *HashSet[E]
}

// ReadOnlySet returns a view of s without mutators. The view follows s.
func ReadOnlySet[E Element](s *HashSet[E]) SetReader[E] {
	return readOnlySet[E]{s: s}
}

func (r readOnlySet[E]) Len() int                    { return r.s.Len() }
func (r readOnlySet[E]) IsEmpty() bool               { return r.s.IsEmpty() }
func (r readOnlySet[E]) Contains(e E) bool           { return r.s.Contains(e) }
func (r readOnlySet[E]) ForEach(f func(E) bool) bool { return r.s.ForEach(f) }
func (r readOnlySet[E]) ToSlice() []E                { return r.s.ToSlice() }
func (r readOnlySet[E]) NoEntryValue() E             { return r.s.NoEntryValue() }
func (r readOnlySet[E]) Equal(o *HashSet[E]) bool    { return r.s.Equal(o) }
func (r readOnlySet[E]) Hash() uint32                { return r.s.Hash() }
func (r readOnlySet[E]) String() string              { return r.s.String() }
