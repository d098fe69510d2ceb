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
	"sync"
)

// SyncMap serializes every call on a HashMap with one lock. Compound
// operations, iteration included, go through Do.
type SyncMap[K, V Element] struct {
	mu sync.Locker
	m  *HashMap[K, V]
}

// NewSyncMap wraps m. A nil mu means a private mutex.
func NewSyncMap[K, V Element](m *HashMap[K, V], mu sync.Locker) *SyncMap[K, V] {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &SyncMap[K, V]{mu: mu, m: m}
}

// Do runs f with the lock held. f must not retain m.
func (sm *SyncMap[K, V]) Do(f func(m *HashMap[K, V])) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	f(sm.m)
}

func (sm *SyncMap[K, V]) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.Len()
}

func (sm *SyncMap[K, V]) Get(key K) V {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.Get(key)
}

func (sm *SyncMap[K, V]) TryGet(key K) (V, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.TryGet(key)
}

func (sm *SyncMap[K, V]) ContainsKey(key K) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.ContainsKey(key)
}

func (sm *SyncMap[K, V]) Put(key K, value V) (V, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.Put(key, value)
}

func (sm *SyncMap[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.PutIfAbsent(key, value)
}

func (sm *SyncMap[K, V]) Remove(key K) (V, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.Remove(key)
}

func (sm *SyncMap[K, V]) AdjustOrPutValue(key K, adjust, put V) V {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.AdjustOrPutValue(key, adjust, put)
}

func (sm *SyncMap[K, V]) Clear() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.m.Clear()
}

func (sm *SyncMap[K, V]) Keys() []K {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.Keys()
}

func (sm *SyncMap[K, V]) String() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.String()
}

// SyncSet serializes every call on a HashSet with one lock.
type SyncSet[E Element] struct {
	mu sync.Locker
	s  *HashSet[E]
}

// NewSyncSet wraps s. A nil mu means a private mutex.
func NewSyncSet[E Element](s *HashSet[E], mu sync.Locker) *SyncSet[E] {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &SyncSet[E]{mu: mu, s: s}
}

// Do runs f with the lock held. f must not retain s.
func (ss *SyncSet[E]) Do(f func(s *HashSet[E])) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	f(ss.s)
}

func (ss *SyncSet[E]) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.Len()
}

func (ss *SyncSet[E]) Contains(e E) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.Contains(e)
}

func (ss *SyncSet[E]) Add(e E) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.Add(e)
}

func (ss *SyncSet[E]) Remove(e E) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.Remove(e)
}

func (ss *SyncSet[E]) Clear() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.s.Clear()
}

func (ss *SyncSet[E]) ToSlice() []E {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.ToSlice()
}

func (ss *SyncSet[E]) String() string {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.s.String()
}
