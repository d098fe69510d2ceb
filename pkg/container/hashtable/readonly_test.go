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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadOnlyMap(t *testing.T) {
	m, err := NewHashMapFrom([]int32{1, 2}, []int64{10, 20})
	require.NoError(t, err)
	r := ReadOnlyMap(m)
	require.Equal(t, 2, r.Len())
	require.False(t, r.IsEmpty())
	require.Equal(t, int64(10), r.Get(1))
	_, ok := r.TryGet(3)
	require.False(t, ok)
	require.True(t, r.ContainsKey(2))
	require.True(t, r.ContainsValue(20))
	require.ElementsMatch(t, []int32{1, 2}, r.Keys())
	require.ElementsMatch(t, []int64{10, 20}, r.Values())
	require.True(t, r.Equal(m))
	require.Equal(t, m.Hash(), r.Hash())
	require.Equal(t, int32(0), r.NoEntryKey())
	require.Equal(t, int64(0), r.NoEntryValue())

	// the view follows the map
	m.Put(3, 30)
	require.Equal(t, 3, r.Len())
	require.Equal(t, m.String(), r.String())
	n := 0
	r.ForEachEntry(func(k int32, v int64) bool {
		require.Equal(t, int64(k)*10, v)
		n++
		return true
	})
	require.Equal(t, 3, n)

	_, mutable := r.(interface{ Put(int32, int64) (int64, bool) })
	require.False(t, mutable)
}

func TestReadOnlySet(t *testing.T) {
	s, err := NewHashSetFrom([]uint8{1, 2})
	require.NoError(t, err)
	r := ReadOnlySet(s)
	require.Equal(t, 2, r.Len())
	require.False(t, r.IsEmpty())
	require.True(t, r.Contains(1))
	require.ElementsMatch(t, []uint8{1, 2}, r.ToSlice())
	require.True(t, r.Equal(s))
	require.Equal(t, uint32(3), r.Hash())
	require.Equal(t, uint8(0), r.NoEntryValue())

	s.Remove(1)
	require.False(t, r.Contains(1))
	require.Equal(t, "{2}", r.String())
	require.True(t, r.ForEach(func(uint8) bool { return true }))

	_, mutable := r.(interface{ Add(uint8) bool })
	require.False(t, mutable)
}
