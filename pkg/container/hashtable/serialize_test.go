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
	"bytes"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// body offset: version, flags and two factor words
const headerLen = 18

func TestHashSetSerialize(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, err := NewHashSet[int64]()
	require.NoError(t, err)
	for i := int64(0); i < 100; i++ {
		s.Add(i * 7)
	}
	s.RemoveAll(0, 14, 28)

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, formatVersion, buf.Bytes()[0])
	require.Equal(t, byte(0), buf.Bytes()[1])
	require.Equal(t, kindSet, buf.Bytes()[headerLen])

	r, err := NewHashSet[int64]()
	require.NoError(t, err)
	r.Add(-5)
	read, err := r.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, n, read)
	require.True(t, r.Equal(s))
	require.False(t, r.Contains(-5))
	require.Equal(t, s.LoadFactor(), r.LoadFactor())
	require.Equal(t, s.AutoCompactionFactor(), r.AutoCompactionFactor())

	// both behave the same afterwards
	require.Equal(t, s.Add(1000), r.Add(1000))
	require.Equal(t, s.Add(7), r.Add(7))
	require.Equal(t, s.Remove(21), r.Remove(21))
	require.Equal(t, s.Remove(21), r.Remove(21))
	require.True(t, r.Equal(s))
	requireOccupancy(t, &r.probeTable)
}

func TestHashSetSerializeCompressed(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, err := NewHashSet[uint64](WithCapacity(10000))
	require.NoError(t, err)
	for i := uint64(0); i < 10000; i++ {
		s.Add(i)
	}
	plain, err := s.MarshalBinary()
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := s.WriteCompressedTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, flagCompressed, buf.Bytes()[1])
	require.Less(t, buf.Len(), len(plain))

	var r HashSet[uint64]
	require.NoError(t, r.UnmarshalBinary(buf.Bytes()))
	require.True(t, r.Equal(s))

	// truncated frames are rejected
	var broken HashSet[uint64]
	require.Error(t, broken.UnmarshalBinary(buf.Bytes()[:buf.Len()-10]))
}

func TestHashSetSerializeNull(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, err := NewHashSetWithNoEntry[int32](-1, WithLoadFactor(0.75), WithAutoCompactionFactor(0.25))
	require.NoError(t, err)
	s.AddNullable(-1, true)
	s.Add(3)
	data, err := s.MarshalBinary()
	require.NoError(t, err)

	var r HashSet[int32]
	require.NoError(t, r.UnmarshalBinary(data))
	require.Equal(t, int32(-1), r.NoEntryValue())
	require.True(t, r.IsNull(-1))
	require.True(t, r.Contains(3))
	require.Equal(t, float32(0.75), r.LoadFactor())
	require.Equal(t, float32(0.25), r.AutoCompactionFactor())
	// the receiver is sized for the stored load factor
	require.Equal(t, 17, r.Capacity())
}

func TestHashMapSerialize(t *testing.T) {
	defer leaktest.AfterTest(t)()
	m, err := NewHashMapWithNoEntry[int32, float64](-1, -1.5)
	require.NoError(t, err)
	for i := int32(0); i < 50; i++ {
		m.Put(i, float64(i)/2)
	}
	m.PutNullable(-1, true, 4, false)
	m.PutNullable(7, false, 0, true)

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		_, err := m.writeTo(&buf, compress)
		require.NoError(t, err)
		if compress {
			require.Equal(t, flagCompressed, buf.Bytes()[1])
		} else {
			require.Equal(t, kindMap, buf.Bytes()[headerLen])
		}

		var r HashMap[int32, float64]
		_, err = r.ReadFrom(&buf)
		require.NoError(t, err)
		require.Equal(t, 0, buf.Len())
		require.True(t, r.Equal(m))
		require.True(t, r.IsNullKey(-1))
		require.True(t, r.IsNullValue(7))
		require.False(t, r.IsNullValue(8))
		require.Equal(t, -1.5, r.Get(1000))
		require.Equal(t, m.Hash(), r.Hash())

		prevM, okM := m.Remove(10)
		prevR, okR := r.Remove(10)
		require.Equal(t, okM, okR)
		require.Equal(t, prevM, prevR)
		m.Put(10, 5)
	}
}

func TestSerializeErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	s, err := NewHashSetFrom([]int32{1, 2, 3})
	require.NoError(t, err)
	data, err := s.MarshalBinary()
	require.NoError(t, err)

	corrupt := func(at int, b byte) []byte {
		c := append([]byte(nil), data...)
		c[at] = b
		return c
	}
	requireCode := func(code uint16, err error) {
		t.Helper()
		require.True(t, moerr.IsMoErrCode(err, code), "%v", err)
	}

	r, err := NewHashSetFrom([]int32{42})
	require.NoError(t, err)
	requireCode(moerr.ErrInvalidInput, r.UnmarshalBinary(corrupt(0, 2)))
	requireCode(moerr.ErrInvalidInput, r.UnmarshalBinary(corrupt(1, 4)))
	requireCode(moerr.ErrInvalidInput, r.UnmarshalBinary(corrupt(headerLen, kindMap)))
	requireCode(moerr.ErrInvalidInput, r.UnmarshalBinary(corrupt(headerLen+1, 0x84)))
	requireCode(moerr.ErrUnexpectedEOF, r.UnmarshalBinary(data[:len(data)-3]))
	requireCode(moerr.ErrUnexpectedEOF, r.UnmarshalBinary(nil))
	// a failed read leaves the receiver alone
	require.Equal(t, []int32{42}, r.ToSlice())

	// trailing bytes are rejected before anything is applied
	requireCode(moerr.ErrInvalidInput, r.UnmarshalBinary(append(data, 0xff)))
	require.Equal(t, []int32{42}, r.ToSlice())

	var wide HashSet[int64]
	requireCode(moerr.ErrInvalidInput, wide.UnmarshalBinary(data))
	var m HashMap[int32, int32]
	requireCode(moerr.ErrInvalidInput, m.UnmarshalBinary(data))

	// load factor word out of range
	bad := append([]byte(nil), data...)
	copy(bad[2:10], []byte{0, 0, 0, 0, 0x40, 0, 0, 0})
	requireCode(moerr.ErrInvalidInput, r.UnmarshalBinary(bad))
}

func TestHashMapUnmarshalTrailingBytes(t *testing.T) {
	defer leaktest.AfterTest(t)()
	src, err := NewHashMapFrom([]int32{1, 2, 3}, []int64{10, 20, 30})
	require.NoError(t, err)
	data, err := src.MarshalBinary()
	require.NoError(t, err)

	dst, err := NewHashMapFrom([]int32{100, 200}, []int64{1, 2}, WithLoadFactor(0.75))
	require.NoError(t, err)
	capacity := dst.Capacity()
	err = dst.UnmarshalBinary(append(data, 0xff))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Equal(t, 2, dst.Len())
	require.Equal(t, int64(1), dst.Get(100))
	require.Equal(t, int64(2), dst.Get(200))
	require.False(t, dst.ContainsKey(1))
	require.Equal(t, capacity, dst.Capacity())
	require.Equal(t, float32(0.75), dst.LoadFactor())

	require.NoError(t, dst.UnmarshalBinary(data))
	require.True(t, dst.Equal(src))
}
