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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBox(t *testing.T) {
	b := Some(int32(7))
	v, ok := b.Get()
	require.True(t, ok)
	require.Equal(t, int32(7), v)
	require.False(t, b.IsNull())
	require.Equal(t, "7", b.String())
	require.Equal(t, uint32(7), b.Hash())

	n := None[int32]()
	v, ok = n.Get()
	require.False(t, ok)
	require.Equal(t, int32(0), v)
	require.True(t, n.IsNull())
	require.Equal(t, "null", n.String())
	require.Equal(t, uint32(0), n.Hash())

	require.True(t, n.Equal(None[int32]()))
	require.False(t, n.Equal(Some(int32(0))))
	require.False(t, Some(int32(0)).Equal(n))
	require.True(t, Some(math.NaN()).Equal(Some(math.NaN())))
	require.True(t, Some(0.0).Equal(Some(math.Copysign(0, -1))))
	// comparable, so usable as a map key
	m := map[Box[int32]]int{b: 1, n: 2}
	require.Equal(t, 2, m[None[int32]()])
}

func TestSliceOf(t *testing.T) {
	c := SliceOf(Some(int64(1)), None[int64](), Some(int64(3)))
	require.Equal(t, 3, c.Len())
	require.True(t, c.Contains(None[int64]()))
	require.True(t, c.Contains(Some(int64(3))))
	require.False(t, c.Contains(Some(int64(2))))

	seen := 0
	require.False(t, c.Range(func(Box[int64]) bool {
		seen++
		return seen < 2
	}))
	require.Equal(t, 2, seen)
	require.Equal(t, 0, SliceOf[Box[int8]]().Len())
}
